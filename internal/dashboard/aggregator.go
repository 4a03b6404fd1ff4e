// Package dashboard polls work-center metrics and jobs and derives the main
// dashboard view: load chart, efficiency bars, active jobs, status cards and
// upcoming deadlines.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const (
	// Controller names the aggregator in logs and the run journal.
	Controller = "dashboard"
	// Canvas is the board slot holding the work-center load chart.
	Canvas = "workCenterChart"

	DefaultInterval = 5 * time.Minute
)

// ErrRefreshInProgress is returned when a refresh is requested while another is outstanding.
var ErrRefreshInProgress = errors.New("dashboard refresh already in progress")

// Source fetches the two payloads a refresh needs.
type Source interface {
	WorkCenters(ctx context.Context) (models.WorkCenters, error)
	Jobs(ctx context.Context) ([]models.Job, error)
}

// RunRecorder journals refresh attempts.
type RunRecorder interface {
	RecordRun(ctx context.Context, run models.RefreshRun) error
}

// View is the latest rendered dashboard.
type View struct {
	Cards             StatusCards     `json:"cards"`
	EfficiencyBars    []EfficiencyBar `json:"efficiency_bars"`
	ActiveJobs        []ActiveJobRow  `json:"active_jobs"`
	UpcomingDeadlines []DeadlineRow   `json:"upcoming_deadlines"`
	ChartCanvas       string          `json:"chart_canvas"`
	ChartID           uuid.UUID       `json:"chart_id"`
	RenderedAt        time.Time       `json:"rendered_at"`
	Loading           bool            `json:"loading"`
}

// state is owned by one Aggregator: the chart handle and the refresh guard.
type state struct {
	chart      *chart.Instance
	refreshing atomic.Bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithInterval sets the delay between the end of one refresh and the next.
func WithInterval(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithClock replaces time.Now for "today" and the deadline windows.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithRecorder journals every refresh attempt.
func WithRecorder(r RunRecorder) Option {
	return func(a *Aggregator) {
		a.recorder = r
	}
}

// Aggregator runs the dashboard refresh pipeline. At most one refresh is
// outstanding; requests made meanwhile are dropped. After every attempt a
// single one-shot timer is re-armed, so a slow refresh delays the next poll
// instead of overlapping it.
type Aggregator struct {
	source   Source
	board    *chart.Board
	recorder RunRecorder
	interval time.Duration
	now      func() time.Time
	state    *state

	viewMu sync.RWMutex
	view   View
	ready  bool

	timerMu sync.Mutex
	timer   *time.Timer
	baseCtx context.Context
	started bool
	stopped bool
}

// New creates an Aggregator drawing on board.
func New(source Source, board *chart.Board, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:   source,
		board:    board,
		interval: DefaultInterval,
		now:      time.Now,
		state:    &state{},
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start fires the initial refresh immediately and keeps polling until ctx is
// done or Stop is called.
func (a *Aggregator) Start(ctx context.Context) {
	a.timerMu.Lock()
	if a.started {
		a.timerMu.Unlock()
		return
	}
	a.started = true
	a.baseCtx = ctx
	a.timerMu.Unlock()

	go func() {
		<-ctx.Done()
		a.Stop()
	}()
	go func() {
		_ = a.Refresh(ctx, models.TriggerStartup)
	}()
}

// Stop cancels the pending timer. An in-flight refresh finishes but does not re-arm.
func (a *Aggregator) Stop() {
	a.timerMu.Lock()
	defer a.timerMu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Refresh runs one refresh synchronously. It returns ErrRefreshInProgress
// without fetching anything when another refresh is outstanding.
func (a *Aggregator) Refresh(ctx context.Context, trigger string) error {
	if !a.state.refreshing.CompareAndSwap(false, true) {
		slog.Debug("dashboard refresh dropped", "controller", Controller, "trigger", trigger)
		return ErrRefreshInProgress
	}
	return a.refresh(ctx, trigger)
}

// RefreshAsync claims the guard and runs the refresh in the background.
func (a *Aggregator) RefreshAsync(trigger string) error {
	if !a.state.refreshing.CompareAndSwap(false, true) {
		slog.Debug("dashboard refresh dropped", "controller", Controller, "trigger", trigger)
		return ErrRefreshInProgress
	}
	ctx := a.context()
	go func() {
		_ = a.refresh(ctx, trigger)
	}()
	return nil
}

// Loading reports whether a refresh is outstanding.
func (a *Aggregator) Loading() bool {
	return a.state.refreshing.Load()
}

// View returns the latest rendered view. ok is false until the first
// successful refresh.
func (a *Aggregator) View() (View, bool) {
	a.viewMu.RLock()
	defer a.viewMu.RUnlock()
	v := a.view
	v.Loading = a.Loading()
	return v, a.ready
}

func (a *Aggregator) refresh(ctx context.Context, trigger string) (err error) {
	started := a.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during dashboard render: %v", r)
		}
		a.record(ctx, trigger, started, err)
		if err != nil {
			slog.Error("loading dashboard data", "controller", Controller, "trigger", trigger, "error", err)
		}
		a.state.refreshing.Store(false)
		a.scheduleNext()
	}()

	var (
		centers models.WorkCenters
		jobs    []models.Job
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		centers, err = a.source.WorkCenters(gctx)
		if err != nil {
			return fmt.Errorf("fetching work centers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		jobs, err = a.source.Jobs(gctx)
		if err != nil {
			return fmt.Errorf("fetching jobs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("dashboard data received", "controller", Controller, "work_centers", len(centers), "jobs", len(jobs))
	return a.render(centers, jobs)
}

// renderStep is one stage of the render pipeline. Steps run in order.
type renderStep struct {
	name string
	fn   func(v *View, centers models.WorkCenters, jobs []models.Job, now time.Time) error
}

func (a *Aggregator) steps() []renderStep {
	return []renderStep{
		{name: "chart", fn: a.renderChart},
		{name: "efficiency", fn: func(v *View, centers models.WorkCenters, _ []models.Job, _ time.Time) error {
			v.EfficiencyBars = EfficiencyBars(centers)
			return nil
		}},
		{name: "active_jobs", fn: func(v *View, _ models.WorkCenters, jobs []models.Job, _ time.Time) error {
			v.ActiveJobs = ActiveJobRows(jobs)
			return nil
		}},
		{name: "status_cards", fn: func(v *View, centers models.WorkCenters, jobs []models.Job, now time.Time) error {
			v.Cards = BuildStatusCards(jobs, centers, now)
			return nil
		}},
		{name: "upcoming_deadlines", fn: func(v *View, _ models.WorkCenters, jobs []models.Job, now time.Time) error {
			v.UpcomingDeadlines = UpcomingDeadlines(jobs, now)
			return nil
		}},
	}
}

func (a *Aggregator) render(centers models.WorkCenters, jobs []models.Job) error {
	now := a.now()
	next := View{RenderedAt: now}
	for _, step := range a.steps() {
		if err := step.fn(&next, centers, jobs, now); err != nil {
			return fmt.Errorf("rendering %s: %w", step.name, err)
		}
	}

	a.viewMu.Lock()
	a.view = next
	a.ready = true
	a.viewMu.Unlock()
	return nil
}

func (a *Aggregator) renderChart(v *View, centers models.WorkCenters, _ []models.Job, _ time.Time) error {
	inst, err := a.board.Redraw(Canvas, WorkCenterChart(centers))
	if err != nil {
		a.state.chart = nil
		return err
	}
	a.state.chart = inst
	v.ChartCanvas = Canvas
	v.ChartID = inst.ID
	return nil
}

func (a *Aggregator) scheduleNext() {
	a.timerMu.Lock()
	defer a.timerMu.Unlock()
	if !a.started || a.stopped || a.baseCtx.Err() != nil {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	ctx := a.baseCtx
	a.timer = time.AfterFunc(a.interval, func() {
		_ = a.Refresh(ctx, models.TriggerTimer)
	})
}

func (a *Aggregator) context() context.Context {
	a.timerMu.Lock()
	defer a.timerMu.Unlock()
	return a.baseCtx
}

func (a *Aggregator) record(ctx context.Context, trigger string, started time.Time, runErr error) {
	if a.recorder == nil {
		return
	}
	run := models.RefreshRun{
		ID:         uuid.New(),
		Controller: Controller,
		Trigger:    trigger,
		Status:     models.RunStatusSucceeded,
		StartedAt:  started.UTC(),
		FinishedAt: a.now().UTC(),
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Status = models.RunStatusFailed
		run.Error = &msg
	}
	if err := a.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		slog.Warn("recording refresh run", "controller", Controller, "error", err)
	}
}
