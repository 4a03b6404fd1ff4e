package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// EventData is what the calendar receives when a draggable job is dropped.
type EventData struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	ExtendedProps map[string]any `json:"extendedProps"`
}

// DraggableJob is an unscheduled job in the side list. It carries the job's
// fields so a drop never has to read them back out of rendered text.
type DraggableJob struct {
	JobID        string        `json:"job_id"`
	Title        string        `json:"title"`
	WorkCenter   string        `json:"work_center"`
	PlannedHours models.Number `json:"planned_hours"`
	EventData    EventData     `json:"event_data"`
}

// Dialog is the prefilled job dialog.
type Dialog struct {
	EventID string `json:"event_id,omitempty"`
	JobID   string `json:"job_id,omitempty"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Hours   string `json:"hours"`
}

// SaveResult reports what Save did. Saving only closes the dialog.
type SaveResult struct {
	Closed    bool `json:"closed"`
	Persisted bool `json:"persisted"`
}

// Unscheduled lists every job whose scheduled flag is false, in backend order.
func (b *Board) Unscheduled(ctx context.Context) ([]DraggableJob, error) {
	jobs, err := b.backend.BoardJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading unscheduled jobs: %w", err)
	}
	out := []DraggableJob{}
	for _, job := range jobs {
		if job.Scheduled {
			continue
		}
		out = append(out, NewDraggableJob(job))
	}
	return out, nil
}

func NewDraggableJob(job models.BoardJob) DraggableJob {
	return DraggableJob{
		JobID:        job.ID.String(),
		Title:        job.Title(),
		WorkCenter:   job.WorkCenter,
		PlannedHours: job.PlannedHours,
		EventData: EventData{
			ID:    job.ID.String(),
			Title: job.Title(),
			ExtendedProps: map[string]any{
				"workCenter":   job.WorkCenter,
				"plannedHours": job.PlannedHours,
			},
		},
	}
}

// DropDialog prefills the dialog for a job dropped on date.
func DropDialog(job DraggableJob, date time.Time) Dialog {
	return Dialog{
		JobID: job.JobID,
		Title: job.Title,
		Date:  date.Format("2006-01-02"),
		Hours: job.PlannedHours.String(),
	}
}

// EventDialog prefills the dialog for a clicked calendar event.
func EventDialog(ev models.ScheduleEvent, loc *time.Location) (Dialog, error) {
	start, ok := models.ParseInstant(ev.Start, loc)
	if !ok {
		return Dialog{}, fmt.Errorf("%w: unreadable start %q", ErrInvalidMove, ev.Start)
	}
	return Dialog{
		EventID: ev.ID.String(),
		Title:   ev.Title,
		Date:    start.Format("2006-01-02"),
		Hours:   hoursProp(ev.ExtendedProps),
	}, nil
}

// Save closes the dialog. Nothing is persisted.
func (b *Board) Save(_ context.Context, d Dialog) SaveResult {
	slog.Debug("schedule dialog closed without saving", "controller", Controller, "title", d.Title, "date", d.Date)
	return SaveResult{Closed: true}
}

func hoursProp(props map[string]any) string {
	switch v := props["plannedHours"].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return models.NewNumber(v).String()
	case models.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
