package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/foodwaste/portal/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	repo    domain.Repository
	bus     domain.EventBus
	version string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, bus domain.EventBus, version string) *Handler {
	return &Handler{
		repo:    repo,
		bus:     bus,
		version: version,
	}
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	if h.bus != nil {
		if err := h.bus.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// Dashboard returns the headline metrics.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ReportInfo describes one catalogue entry.
type ReportInfo struct {
	Name  domain.Report `json:"name"`
	Title string        `json:"title"`
}

// ListReports returns the catalogue in display order.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports := domain.Reports()
	infos := make([]ReportInfo, len(reports))
	for i, rep := range reports {
		infos[i] = ReportInfo{Name: rep, Title: rep.Title()}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": infos,
		"count":   len(infos),
	})
}

// RunReport handles GET /reports/{name}.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	report, err := domain.ParseReport(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, "run report", err)
		return
	}

	ctx, span := tracer.Start(r.Context(), "report "+string(report),
		trace.WithAttributes(attribute.String("report.name", string(report))),
	)
	defer span.End()

	result, err := h.repo.RunReport(ctx, report)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, r, "run report", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// RunAllReports handles GET /reports/all.
func (h *Handler) RunAllReports(w http.ResponseWriter, r *http.Request) {
	results, err := h.repo.RunAllReports(r.Context())
	if err != nil {
		writeError(w, r, "run all reports", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": results,
		"count":   len(results),
	})
}

// SearchFood handles GET /food. Absent parameters place no constraint.
func (h *Handler) SearchFood(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.FoodFilter{
		Location:     q.Get("location"),
		ProviderName: q.Get("provider"),
		FoodType:     q.Get("food_type"),
	}

	rows, err := h.repo.SearchFood(r.Context(), filter)
	if err != nil {
		writeError(w, r, "search food", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filter":  filter,
		"results": rows,
		"count":   len(rows),
	})
}

// Contacts handles GET /contacts/{kind}.
func (h *Handler) Contacts(w http.ResponseWriter, r *http.Request) {
	kind := domain.ContactKind(chi.URLParam(r, "kind"))

	contacts, err := h.repo.Contacts(r.Context(), kind)
	if err != nil {
		writeError(w, r, "contacts", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kind":     kind,
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// ListFoodListings handles GET /food-listings.
func (h *Handler) ListFoodListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.repo.ListFoodListings(r.Context())
	if err != nil {
		writeError(w, r, "list food listings", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"foodListings": listings,
		"count":        len(listings),
	})
}

// ListClaims handles GET /claims.
func (h *Handler) ListClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.repo.ListClaims(r.Context())
	if err != nil {
		writeError(w, r, "list claims", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"claims": claims,
		"count":  len(claims),
	})
}

// pathID reads the {id} path parameter as an integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}
	return id, nil
}

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownReport):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs a failed operation and writes its JSON error body.
// Store errors are logged in full but reported to the client generically.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)

	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		msg = domain.ErrStoreUnavailable.Error()
	case http.StatusInternalServerError:
		msg = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"op", op,
			"status", status,
			"request_id", GetRequestID(r.Context()),
			"error", err,
		)
	} else {
		slog.Debug("request rejected",
			"op", op,
			"status", status,
			"error", err,
		)
	}

	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
