package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/board"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// Scheduler is the part of the scheduling board the handlers use.
type Scheduler interface {
	Events(ctx context.Context, start, end string) (json.RawMessage, error)
	Reschedule(ctx context.Context, move board.Move) (board.Result, error)
	Unscheduled(ctx context.Context) ([]board.DraggableJob, error)
	Save(ctx context.Context, d board.Dialog) board.SaveResult
}

// NewScheduleEventsHandler returns an http.HandlerFunc for GET /api/v1/schedule.
// The backend's event array is passed through unwrapped with the calendar's
// start and end query parameters.
func NewScheduleEventsHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		events, err := svc.Events(r.Context(), q.Get("start"), q.Get("end"))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		response.Raw(w, events)
	}
}

// NewScheduleMoveHandler returns an http.HandlerFunc for POST /api/v1/schedule/move.
// A backend rejection is reported in the result body, not as an HTTP error.
func NewScheduleMoveHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var move board.Move
		if !decodeBody(w, r, &move) {
			return
		}

		res, err := svc.Reschedule(r.Context(), move)
		if err != nil {
			if errors.Is(err, board.ErrInvalidMove) {
				response.Error(w, http.StatusBadRequest, "INVALID_MOVE", err.Error(), nil)
				return
			}
			writeBackendError(w, err)
			return
		}
		response.JSON(w, res)
	}
}

// NewUnscheduledHandler returns an http.HandlerFunc for
// GET /api/v1/schedule/unscheduled.
func NewUnscheduledHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := svc.Unscheduled(r.Context())
		if err != nil {
			writeBackendError(w, err)
			return
		}
		response.JSON(w, jobs)
	}
}

// NewDropHandler returns an http.HandlerFunc for POST /api/v1/schedule/drop.
// Dates are read in loc.
func NewDropHandler(loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Job  board.DraggableJob `json:"job"`
			Date string             `json:"date"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Job.JobID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "job is required", nil)
			return
		}
		date, ok := models.ParseInstant(req.Date, loc)
		if !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"date must be an ISO date or timestamp", nil)
			return
		}
		response.JSON(w, board.DropDialog(req.Job, date))
	}
}

// NewOpenEventHandler returns an http.HandlerFunc for POST /api/v1/schedule/open.
func NewOpenEventHandler(loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev models.ScheduleEvent
		if !decodeBody(w, r, &ev) {
			return
		}
		dialog, err := board.EventDialog(ev, loc)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_EVENT", err.Error(), nil)
			return
		}
		response.JSON(w, dialog)
	}
}

// NewSaveDialogHandler returns an http.HandlerFunc for POST /api/v1/schedule/save.
func NewSaveDialogHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d board.Dialog
		if !decodeBody(w, r, &d) {
			return
		}
		response.JSON(w, svc.Save(r.Context(), d))
	}
}
