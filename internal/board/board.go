// Package board backs the scheduling calendar: the event feed, drag
// reschedules, the unscheduled job list and the job dialog.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const Controller = "scheduling"

// ErrInvalidMove is returned when a reschedule lacks an event id or start.
var ErrInvalidMove = errors.New("invalid move")

// Backend is the part of the shop API the board talks to.
type Backend interface {
	Schedule(ctx context.Context, start, end string) (json.RawMessage, error)
	UpdateSchedule(ctx context.Context, update models.ScheduleUpdate) (int, error)
	BoardJobs(ctx context.Context) ([]models.BoardJob, error)
}

// Journal records reschedule outcomes.
type Journal interface {
	RecordReschedule(ctx context.Context, rec models.RescheduleRecord) error
}

// Move is an existing event dragged to a new slot.
type Move struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Start         time.Time      `json:"start"`
	End           *time.Time     `json:"end,omitempty"`
	ExtendedProps map[string]any `json:"extendedProps,omitempty"`
}

// Result is the outcome of posting a reschedule to the backend.
type Result struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Board serves the scheduling page.
type Board struct {
	backend Backend
	journal Journal
}

// New creates a Board. journal may be nil.
func New(backend Backend, journal Journal) *Board {
	return &Board{backend: backend, journal: journal}
}

// Events passes the calendar's event feed through for the visible window.
func (b *Board) Events(ctx context.Context, start, end string) (json.RawMessage, error) {
	return b.backend.Schedule(ctx, start, end)
}

// Reschedule posts the move to the backend and reports what happened. Backend
// failures are not rolled back; they are logged, journaled and returned in
// the Result.
func (b *Board) Reschedule(ctx context.Context, move Move) (Result, error) {
	if move.ID == "" {
		return Result{}, fmt.Errorf("%w: event id is required", ErrInvalidMove)
	}
	if move.Start.IsZero() {
		return Result{}, fmt.Errorf("%w: start is required", ErrInvalidMove)
	}
	end := move.Start
	if move.End != nil && !move.End.IsZero() {
		end = *move.End
	}
	props := move.ExtendedProps
	if props == nil {
		props = map[string]any{}
	}

	status, err := b.backend.UpdateSchedule(ctx, models.ScheduleUpdate{
		ID:            move.ID,
		Start:         move.Start,
		End:           end,
		Title:         move.Title,
		ExtendedProps: props,
	})
	res := Result{OK: err == nil, StatusCode: status}
	if err != nil {
		res.Reason = err.Error()
		slog.Warn("schedule update failed", "controller", Controller, "event_id", move.ID, "status", status, "error", err)
	} else if status == 0 {
		res.StatusCode = http.StatusOK
	}

	b.record(ctx, move, end, res)
	return res, nil
}

func (b *Board) record(ctx context.Context, move Move, end time.Time, res Result) {
	if b.journal == nil {
		return
	}
	rec := models.RescheduleRecord{
		ID:         uuid.New(),
		EventID:    move.ID,
		Title:      move.Title,
		Start:      move.Start.UTC(),
		End:        end.UTC(),
		OK:         res.OK,
		StatusCode: res.StatusCode,
		CreatedAt:  time.Now().UTC(),
	}
	if res.Reason != "" {
		reason := res.Reason
		rec.Reason = &reason
	}
	if err := b.journal.RecordReschedule(context.WithoutCancel(ctx), rec); err != nil {
		slog.Warn("recording reschedule", "controller", Controller, "event_id", move.ID, "error", err)
	}
}
