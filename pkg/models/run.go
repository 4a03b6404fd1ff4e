package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Refresh triggers.
const (
	TriggerStartup = "startup"
	TriggerTimer   = "timer"
	TriggerManual  = "manual"
	TriggerUpload  = "upload"
)

// RefreshRun records one poll attempt by a page controller.
type RefreshRun struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	Controller string    `db:"controller"  json:"controller"`
	Trigger    string    `db:"run_trigger" json:"trigger"`
	Status     string    `db:"status"      json:"status"`
	Error      *string   `db:"error"       json:"error,omitempty"`
	StartedAt  time.Time `db:"started_at"  json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

// RescheduleRecord records the outcome of posting a drag-reschedule to the backend.
type RescheduleRecord struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	EventID    string    `db:"event_id"    json:"event_id"`
	Title      string    `db:"title"       json:"title"`
	Start      time.Time `db:"start_at"    json:"start"`
	End        time.Time `db:"end_at"      json:"end"`
	OK         bool      `db:"ok"          json:"ok"`
	StatusCode int       `db:"status_code" json:"status_code"`
	Reason     *string   `db:"reason"      json:"reason,omitempty"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}
