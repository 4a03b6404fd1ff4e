package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// NopJournal is used when no database is configured. Writes are dropped and
// lists are empty.
type NopJournal struct{}

func (NopJournal) Ping(context.Context) error { return nil }

func (NopJournal) RecordRun(context.Context, models.RefreshRun) error { return nil }

func (NopJournal) GetRun(context.Context, uuid.UUID) (*models.RefreshRun, error) {
	return nil, ErrNotFound
}

func (NopJournal) ListRuns(context.Context, RunFilter) ([]models.RefreshRun, error) {
	return []models.RefreshRun{}, nil
}

func (NopJournal) RecordReschedule(context.Context, models.RescheduleRecord) error { return nil }

func (NopJournal) ListReschedules(context.Context, RescheduleFilter) ([]models.RescheduleRecord, error) {
	return []models.RescheduleRecord{}, nil
}

var (
	_ Journal = NopJournal{}
	_ Journal = (*PostgresStore)(nil)
)
