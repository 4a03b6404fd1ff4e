// Package forecast keeps the hours forecast per work center up to date.
package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/internal/notify"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const (
	Controller = "forecast"
	Canvas     = "forecastChart"

	DefaultInterval = 5 * time.Minute

	// FailureMessage is the alert raised when a load fails.
	FailureMessage = "Failed to load forecast data"
)

// Source fetches the forecast payload.
type Source interface {
	Forecast(ctx context.Context) (models.ForecastSet, error)
}

// RunRecorder journals load attempts.
type RunRecorder interface {
	RecordRun(ctx context.Context, run models.RefreshRun) error
}

// Row is one line of the forecast table.
type Row struct {
	WorkCenter      string  `json:"work_center"`
	Planned         string  `json:"planned"`
	Actual          string  `json:"actual"`
	Forecasted      string  `json:"forecasted"`
	Remaining       string  `json:"remaining"`
	Efficiency      float64 `json:"efficiency"`
	EfficiencyClass string  `json:"efficiency_class,omitempty"`
}

// View is the latest rendered forecast.
type View struct {
	Rows        []Row     `json:"rows"`
	Totals      Row       `json:"totals"`
	ChartCanvas string    `json:"chart_canvas"`
	ChartID     uuid.UUID `json:"chart_id"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Option configures a Reporter.
type Option func(*Reporter)

func WithInterval(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithRecorder(rec RunRecorder) Option {
	return func(r *Reporter) {
		r.recorder = rec
	}
}

// Reporter loads the forecast on a fixed ticker and on demand. Loads are not
// serialized: a slow backend can have several in flight, and the last one to
// finish wins.
type Reporter struct {
	source   Source
	board    *chart.Board
	notifier notify.Notifier
	recorder RunRecorder
	interval time.Duration

	mu    sync.RWMutex
	view  View
	ready bool

	runMu   sync.Mutex
	stop    chan struct{}
	started bool
}

// New creates a Reporter.
func New(source Source, board *chart.Board, notifier notify.Notifier, opts ...Option) *Reporter {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	r := &Reporter{
		source:   source,
		board:    board,
		notifier: notifier,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start loads immediately, then launches a load on every tick.
func (r *Reporter) Start(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.stop = make(chan struct{})
	stop := r.stop

	go func() {
		_ = r.Load(ctx, models.TriggerStartup)
	}()

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				go func() {
					_ = r.Load(ctx, models.TriggerTimer)
				}()
			}
		}
	}()
}

// Stop halts the ticker. Loads already in flight complete.
func (r *Reporter) Stop() {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	if r.started && r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Load fetches and renders the forecast. A failure raises an alert and leaves
// the previous view in place; nothing is retried before the next tick.
func (r *Reporter) Load(ctx context.Context, trigger string) error {
	started := time.Now()
	set, err := r.source.Forecast(ctx)
	if err == nil {
		err = r.render(set)
	}
	r.record(ctx, trigger, started, err)
	if err != nil {
		slog.Error("loading forecast data", "controller", Controller, "trigger", trigger, "error", err)
		_ = r.notifier.Notify(context.WithoutCancel(ctx), notify.New(Controller, notify.LevelAlert, FailureMessage))
		return err
	}
	return nil
}

// View returns the latest forecast; ok is false until a load succeeds.
func (r *Reporter) View() (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view, r.ready
}

// render redraws the chart and publishes the view under one lock so the stored
// view always names the live chart.
func (r *Reporter) render(set models.ForecastSet) error {
	rows, totals := Rows(set), Totals(set)
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, err := r.board.Redraw(Canvas, ChartSpec(set))
	if err != nil {
		return fmt.Errorf("rendering forecast chart: %w", err)
	}
	r.view = View{
		Rows:        rows,
		Totals:      totals,
		ChartCanvas: Canvas,
		ChartID:     inst.ID,
		LoadedAt:    time.Now().UTC(),
	}
	r.ready = true
	return nil
}

func (r *Reporter) record(ctx context.Context, trigger string, started time.Time, loadErr error) {
	if r.recorder == nil {
		return
	}
	run := models.RefreshRun{
		ID:         uuid.New(),
		Controller: Controller,
		Trigger:    trigger,
		Status:     models.RunStatusSucceeded,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if loadErr != nil {
		msg := loadErr.Error()
		run.Status = models.RunStatusFailed
		run.Error = &msg
	}
	if err := r.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		slog.Warn("recording forecast run", "controller", Controller, "error", err)
	}
}
