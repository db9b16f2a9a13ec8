// Package worker consumes record change events from the EventBus.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/foodwaste/portal/internal/domain"
)

// Worker writes an audit log line for every record change published on the bus.
type Worker struct {
	bus domain.EventBus

	mu            sync.Mutex
	subscriptions []domain.Subscription

	processed atomic.Int64
	failed    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds worker configuration.
type Config struct {
	// Topics to follow. Empty means every record change topic.
	Topics []string
}

// NewWorker creates a new change log worker.
func NewWorker(bus domain.EventBus) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:    bus,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start subscribes to the configured topics. Subscriptions made before a
// failure are kept and released by Stop.
func (w *Worker) Start(cfg Config) error {
	topics := cfg.Topics
	if len(topics) == 0 {
		topics = domain.ChangeTopics()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, topic := range topics {
		sub, err := w.bus.Subscribe(w.ctx, topic, w.handleChange)
		if err != nil {
			return err
		}
		w.subscriptions = append(w.subscriptions, sub)
	}

	slog.Info("change log worker started",
		"topic_count", len(topics),
	)

	return nil
}

// handleChange decodes a RecordChange and logs it.
func (w *Worker) handleChange(ctx context.Context, msg *domain.Message) error {
	var change domain.RecordChange
	if err := json.Unmarshal(msg.Payload, &change); err != nil {
		w.failed.Add(1)
		slog.Error("failed to parse record change",
			"message_id", msg.ID,
			"topic", msg.Topic,
			"error", err,
		)
		return err
	}

	w.processed.Add(1)

	slog.Info("record changed",
		"topic", msg.Topic,
		"entity", change.Entity,
		"action", change.Action,
		"id", change.ID,
		"request_id", change.RequestID,
		"at", change.At,
	)

	return nil
}

// Stop unsubscribes from every topic.
func (w *Worker) Stop() error {
	w.cancel()

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	slog.Info("change log worker stopped")
	return nil
}

// Stats holds worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
	Processed         int64    `json:"processed"`
	Failed            int64    `json:"failed"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
		Processed:         w.processed.Load(),
		Failed:            w.failed.Load(),
	}
}
