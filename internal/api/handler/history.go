package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/notify"
	"github.com/kiranshivaraju/shopdash/internal/store"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// History reads the run journal.
type History interface {
	GetRun(ctx context.Context, id uuid.UUID) (*models.RefreshRun, error)
	ListRuns(ctx context.Context, filter store.RunFilter) ([]models.RefreshRun, error)
	ListReschedules(ctx context.Context, filter store.RescheduleFilter) ([]models.RescheduleRecord, error)
}

// NewRunsHandler returns an http.HandlerFunc for GET /api/v1/history/runs.
func NewRunsHandler(h History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, ok := parseLimit(w, q.Get("limit"))
		if !ok {
			return
		}
		status := q.Get("status")
		if status != "" && status != models.RunStatusSucceeded && status != models.RunStatusFailed {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"status must be succeeded or failed", nil)
			return
		}

		runs, err := h.ListRuns(r.Context(), store.RunFilter{
			Controller: q.Get("controller"),
			Status:     status,
			Limit:      limit,
		})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		if runs == nil {
			runs = []models.RefreshRun{}
		}
		response.Collection(w, runs, response.ListMeta{Limit: store.ClampLimit(limit), Count: len(runs)})
	}
}

// NewRunHandler returns an http.HandlerFunc for GET /api/v1/history/runs/{runID}.
func NewRunHandler(h History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "runID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "run id must be a UUID", nil)
			return
		}
		run, err := h.GetRun(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Run not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.JSON(w, run)
	}
}

// NewReschedulesHandler returns an http.HandlerFunc for
// GET /api/v1/history/reschedules.
func NewReschedulesHandler(h History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, ok := parseLimit(w, q.Get("limit"))
		if !ok {
			return
		}
		failedOnly := false
		if raw := q.Get("failed"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "failed must be a boolean", nil)
				return
			}
			failedOnly = v
		}

		recs, err := h.ListReschedules(r.Context(), store.RescheduleFilter{FailedOnly: failedOnly, Limit: limit})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		if recs == nil {
			recs = []models.RescheduleRecord{}
		}
		response.Collection(w, recs, response.ListMeta{Limit: store.ClampLimit(limit), Count: len(recs)})
	}
}

// Feed exposes recently published notifications.
type Feed interface {
	Recent(n int) []notify.Notification
}

// NewNotificationsHandler returns an http.HandlerFunc for
// GET /api/v1/notifications.
func NewNotificationsHandler(feed Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := parseLimit(w, r.URL.Query().Get("limit"))
		if !ok {
			return
		}
		recent := feed.Recent(limit)
		if recent == nil {
			recent = []notify.Notification{}
		}
		response.JSON(w, recent)
	}
}

func parseLimit(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			"limit must be a non-negative integer", nil)
		return 0, false
	}
	return n, true
}
