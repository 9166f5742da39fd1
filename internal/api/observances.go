package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/amlich-api/internal/calendar"
	"github.com/zapponejosh/amlich-api/internal/database"
)

// ObservanceView is an observance with its next solar date.
type ObservanceView struct {
	database.Observance
	NextOccurrence *string `json:"next_occurrence"`
}

// CreateObservanceRequest is the request body for creating an observance.
type CreateObservanceRequest struct {
	Name     string  `json:"name"`
	Calendar string  `json:"calendar"`
	Month    int     `json:"month"`
	Day      int     `json:"day"`
	Leap     bool    `json:"leap"`
	Note     *string `json:"note,omitempty"`
}

// ListObservances handles GET /api/v1/observances
func (h *Handlers) ListObservances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 50 // default
	offset := 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	resolver, ok := h.resolverFor(w, r)
	if !ok {
		return
	}

	observances, err := h.db.ListObservances(ctx, limit, offset)
	if err != nil {
		h.logger.Error("failed to list observances", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve observances")
		return
	}

	from := today(h.now(), resolver.TimeZone())
	views := make([]ObservanceView, 0, len(observances))
	for _, o := range observances {
		views = append(views, h.observanceView(resolver, o, from))
	}

	total, err := h.db.CountObservances(ctx)
	if err != nil {
		h.logger.Error("failed to count observances", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve observances")
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"observances": views,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

// GetObservance handles GET /api/v1/observances/{id}
func (h *Handlers) GetObservance(w http.ResponseWriter, r *http.Request) {
	id, ok := observanceID(w, r)
	if !ok {
		return
	}

	resolver, ok := h.resolverFor(w, r)
	if !ok {
		return
	}

	o, err := h.db.GetObservanceByID(r.Context(), id)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Observance not found")
			return
		}
		h.logger.Error("failed to get observance", slog.Int64("id", id), slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve observance")
		return
	}

	from := today(h.now(), resolver.TimeZone())
	WriteSuccess(w, h.observanceView(resolver, *o, from))
}

// CreateObservance handles POST /api/v1/observances
func (h *Handlers) CreateObservance(w http.ResponseWriter, r *http.Request) {
	var req CreateObservanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	o := &database.Observance{
		Name:     strings.TrimSpace(req.Name),
		Calendar: database.CalendarType(req.Calendar),
		Month:    req.Month,
		Day:      req.Day,
		Leap:     req.Leap,
		Note:     req.Note,
	}

	if err := h.db.CreateObservance(r.Context(), o); err != nil {
		switch {
		case errors.Is(err, database.ErrInvalid):
			WriteBadRequest(w, err.Error())
		case errors.Is(err, database.ErrDuplicate):
			WriteConflict(w, "Observance already exists")
		default:
			h.logger.Error("failed to create observance", slog.Any("error", err))
			WriteInternalError(w, "Failed to create observance")
		}
		return
	}

	h.logger.Info("observance created",
		slog.Int64("id", o.ID),
		slog.String("calendar", string(o.Calendar)))

	WriteCreated(w, o)
}

// DeleteObservance handles DELETE /api/v1/observances/{id}
func (h *Handlers) DeleteObservance(w http.ResponseWriter, r *http.Request) {
	id, ok := observanceID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteObservance(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Observance not found")
			return
		}
		h.logger.Error("failed to delete observance", slog.Int64("id", id), slog.Any("error", err))
		WriteInternalError(w, "Failed to delete observance")
		return
	}

	WriteSuccess(w, map[string]string{
		"message": "Observance deleted",
	})
}

// observanceView attaches the next occurrence on or after from. An
// observance that never recurs within the search horizon gets none.
func (h *Handlers) observanceView(resolver *calendar.DateResolver, o database.Observance, from time.Time) ObservanceView {
	view := ObservanceView{Observance: o}
	next, err := resolver.NextOccurrence(o, from)
	if err != nil {
		h.logger.Warn("no next occurrence",
			slog.Int64("id", o.ID),
			slog.Any("error", err))
		return view
	}
	s := calendar.FormatDate(next)
	view.NextOccurrence = &s
	return view
}

// observanceID parses the {id} path parameter.
func observanceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		WriteBadRequest(w, "Invalid observance ID")
		return 0, false
	}
	return id, true
}
