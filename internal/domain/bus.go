package domain

import (
	"context"
	"time"
)

// EventBus carries record change notifications.
// Backed by Go channels in-process or by NATS.
type EventBus interface {
	// Publish sends a message to a topic.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe registers a handler for a topic.
	// Returns a subscription that can be used to unsubscribe.
	Subscribe(ctx context.Context, topic string, handler MessageHandler) (Subscription, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// MessageHandler processes incoming messages.
type MessageHandler func(ctx context.Context, msg *Message) error

// Message represents an event message.
type Message struct {
	ID        string            `json:"id"`
	Topic     string            `json:"topic"`
	Payload   []byte            `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp int64             `json:"timestamp"`
}

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe stops receiving messages.
	Unsubscribe() error

	// Topic returns the subscribed topic.
	Topic() string
}

// EventBusConfig holds configuration for event bus initialization.
type EventBusConfig struct {
	// Type is the bus type: "channel" or "nats"
	Type string `koanf:"type" json:"type" validate:"required,oneof=channel nats"`

	// Channel settings
	ChannelBufferSize int `koanf:"channel_buffer_size" json:"channelBufferSize" validate:"gte=0"`

	// NATS settings
	NATSUrl           string `koanf:"nats_url" json:"natsUrl"`
	NATSToken         string `koanf:"nats_token" json:"-"`
	NATSMaxReconnects int    `koanf:"nats_max_reconnects" json:"natsMaxReconnects" validate:"gte=0"`
	NATSReconnectWait int    `koanf:"nats_reconnect_wait" json:"natsReconnectWait" validate:"gte=0"` // seconds
}

// Record change topics.
const (
	TopicProviderCreated = "portal.provider.created"
	TopicProviderUpdated = "portal.provider.updated"
	TopicProviderDeleted = "portal.provider.deleted"
	TopicReceiverCreated = "portal.receiver.created"
	TopicReceiverUpdated = "portal.receiver.updated"
	TopicReceiverDeleted = "portal.receiver.deleted"
)

// ChangeTopics returns every record change topic.
func ChangeTopics() []string {
	return []string{
		TopicProviderCreated,
		TopicProviderUpdated,
		TopicProviderDeleted,
		TopicReceiverCreated,
		TopicReceiverUpdated,
		TopicReceiverDeleted,
	}
}

// RecordChange is the payload published after a successful write.
// ID is zero for creations because the store assigns it.
type RecordChange struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        int64     `json:"id,omitempty"`
	Record    any       `json:"record,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	At        time.Time `json:"at"`
}
