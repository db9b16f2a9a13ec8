package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/foodwaste/portal/internal/domain"
)

// ============================================================================
// PROVIDER HANDLERS
// ============================================================================

// ListProviders handles GET /providers.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.repo.ListProviders(r.Context())
	if err != nil {
		writeError(w, r, "list providers", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"providers": providers,
		"count":     len(providers),
	})
}

// AddProvider handles POST /providers.
func (h *Handler) AddProvider(w http.ResponseWriter, r *http.Request) {
	var in domain.ProviderInput
	if !decodeBody(w, r, &in) {
		return
	}

	if err := h.repo.AddProvider(r.Context(), in); err != nil {
		writeError(w, r, "add provider", err)
		return
	}

	h.publishChange(r.Context(), domain.TopicProviderCreated, "provider", "created", 0, in)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "provider added",
	})
}

// UpdateProvider handles PUT /providers/{id}. An id matching no row is not an error.
func (h *Handler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in domain.ProviderInput
	if !decodeBody(w, r, &in) {
		return
	}

	if err := h.repo.UpdateProvider(r.Context(), id, in); err != nil {
		writeError(w, r, "update provider", err)
		return
	}

	h.publishChange(r.Context(), domain.TopicProviderUpdated, "provider", "updated", id, in)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "provider updated",
		"id":      id,
	})
}

// DeleteProvider handles DELETE /providers/{id}.
func (h *Handler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteProvider(r.Context(), id); err != nil {
		writeError(w, r, "delete provider", err)
		return
	}

	h.publishChange(r.Context(), domain.TopicProviderDeleted, "provider", "deleted", id, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "provider deleted",
		"id":      id,
	})
}

// ============================================================================
// RECEIVER HANDLERS
// ============================================================================

// ListReceivers handles GET /receivers.
func (h *Handler) ListReceivers(w http.ResponseWriter, r *http.Request) {
	receivers, err := h.repo.ListReceivers(r.Context())
	if err != nil {
		writeError(w, r, "list receivers", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"receivers": receivers,
		"count":     len(receivers),
	})
}

// AddReceiver handles POST /receivers.
func (h *Handler) AddReceiver(w http.ResponseWriter, r *http.Request) {
	var in domain.ReceiverInput
	if !decodeBody(w, r, &in) {
		return
	}

	if err := h.repo.AddReceiver(r.Context(), in); err != nil {
		writeError(w, r, "add receiver", err)
		return
	}

	h.publishChange(r.Context(), domain.TopicReceiverCreated, "receiver", "created", 0, in)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "receiver added",
	})
}

// UpdateReceiver handles PUT /receivers/{id}.
func (h *Handler) UpdateReceiver(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var in domain.ReceiverInput
	if !decodeBody(w, r, &in) {
		return
	}

	if err := h.repo.UpdateReceiver(r.Context(), id, in); err != nil {
		writeError(w, r, "update receiver", err)
		return
	}

	h.publishChange(r.Context(), domain.TopicReceiverUpdated, "receiver", "updated", id, in)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "receiver updated",
		"id":      id,
	})
}

// DeleteReceiver handles DELETE /receivers/{id}.
func (h *Handler) DeleteReceiver(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteReceiver(r.Context(), id); err != nil {
		writeError(w, r, "delete receiver", err)
		return
	}

	h.publishChange(r.Context(), domain.TopicReceiverDeleted, "receiver", "deleted", id, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "receiver deleted",
		"id":      id,
	})
}

// idParam parses the {id} path parameter, writing a 400 when it is not an integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "parse id", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return 0, false
	}
	return id, true
}

// decodeBody decodes the JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "decode body", fmt.Errorf("%w: invalid JSON request body", domain.ErrInvalidInput))
		return false
	}
	return true
}

// publishChange announces a committed write. The write already succeeded, so
// a failure here is only logged.
func (h *Handler) publishChange(ctx context.Context, topic, entity, action string, id int64, record any) {
	if h.bus == nil {
		return
	}

	payload, err := json.Marshal(domain.RecordChange{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Record:    record,
		RequestID: GetRequestID(ctx),
		At:        time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to encode record change", "topic", topic, "error", err)
		return
	}

	if err := h.bus.Publish(context.WithoutCancel(ctx), topic, payload); err != nil {
		slog.Error("failed to publish record change",
			"topic", topic,
			"id", id,
			"error", err,
		)
	}
}
