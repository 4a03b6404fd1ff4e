package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Journal records what the page controllers did. It never holds shop data;
// the backend owns that.
type Journal interface {
	Ping(ctx context.Context) error

	RecordRun(ctx context.Context, run models.RefreshRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.RefreshRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]models.RefreshRun, error)

	RecordReschedule(ctx context.Context, rec models.RescheduleRecord) error
	ListReschedules(ctx context.Context, filter RescheduleFilter) ([]models.RescheduleRecord, error)
}

// RunFilter narrows ListRuns. Empty fields match everything.
type RunFilter struct {
	Controller string
	Status     string
	Limit      int
}

// RescheduleFilter narrows ListReschedules.
type RescheduleFilter struct {
	FailedOnly bool
	Limit      int
}

// ClampLimit applies the default and maximum page sizes.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
