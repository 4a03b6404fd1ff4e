// Package web serves the five shop pages as server-rendered HTML.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kiranshivaraju/shopdash/internal/board"
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/internal/dashboard"
	"github.com/kiranshivaraju/shopdash/internal/forecast"
	"github.com/kiranshivaraju/shopdash/internal/purchase"
	"github.com/kiranshivaraju/shopdash/internal/upload"
	"github.com/kiranshivaraju/shopdash/internal/workcenter"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one template file each.
const (
	PageDashboard   = "dashboard"
	PageForecast    = "forecast"
	PageWorkCenters = "workcenters"
	PageScheduling  = "scheduling"
	PagePurchase    = "purchase"
)

var pageNames = []string{PageDashboard, PageForecast, PageWorkCenters, PageScheduling, PagePurchase}

type DashboardSource interface {
	View() (dashboard.View, bool)
	Loading() bool
}

type ForecastSource interface {
	View() (forecast.View, bool)
}

type WorkCenterSource interface {
	Load(ctx context.Context) *workcenter.Page
}

type PurchaseSource interface {
	Load(ctx context.Context) *purchase.Page
}

type UnscheduledSource interface {
	Unscheduled(ctx context.Context) ([]board.DraggableJob, error)
}

type ChartSource interface {
	Current(canvas string) (*chart.Instance, bool)
}

type UploadState interface {
	State() upload.State
}

// Sources feeds the page templates.
type Sources struct {
	Dashboard   DashboardSource
	Forecast    ForecastSource
	WorkCenters WorkCenterSource
	Purchase    PurchaseSource
	Scheduler   UnscheduledSource
	Charts      ChartSource
	Uploads     UploadState
}

// Pages renders the HTML pages.
type Pages struct {
	src              Sources
	templates        map[string]*template.Template
	dashboardRefresh time.Duration
}

// Option configures Pages.
type Option func(*Pages)

// WithDashboardRefresh sets how often an open dashboard checks for a newer
// aggregation. Zero disables the check.
func WithDashboardRefresh(d time.Duration) Option {
	return func(p *Pages) {
		if d >= 0 {
			p.dashboardRefresh = d
		}
	}
}

// NewPages parses the embedded templates.
func NewPages(src Sources, opts ...Option) (*Pages, error) {
	funcs := template.FuncMap{
		"pct":   pct,
		"width": width,
		"json":  toJSON,
	}
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		templates[name] = tpl
	}
	p := &Pages{src: src, templates: templates}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type chartFrame struct {
	Canvas string
	HTML   string
}

type dashboardPage struct {
	View      dashboard.View
	Ready     bool
	Chart     *chartFrame
	Upload    upload.State
	RefreshMS int64
}

func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, ready := p.src.Dashboard.View()
	view.Loading = p.src.Dashboard.Loading()
	data := dashboardPage{
		View:      view,
		Ready:     ready,
		Chart:     p.frame(dashboard.Canvas),
		RefreshMS: p.dashboardRefresh.Milliseconds(),
	}
	if p.src.Uploads != nil {
		data.Upload = p.src.Uploads.State()
	}
	p.render(w, PageDashboard, data)
}

type forecastPage struct {
	View    forecast.View
	Ready   bool
	Chart   *chartFrame
	Message string
}

func (p *Pages) Forecast(w http.ResponseWriter, r *http.Request) {
	view, ready := p.src.Forecast.View()
	data := forecastPage{View: view, Ready: ready, Chart: p.frame(forecast.Canvas)}
	if !ready {
		data.Message = forecast.FailureMessage
	}
	p.render(w, PageForecast, data)
}

func (p *Pages) WorkCenters(w http.ResponseWriter, r *http.Request) {
	p.render(w, PageWorkCenters, p.src.WorkCenters.Load(r.Context()))
}

func (p *Pages) Purchase(w http.ResponseWriter, r *http.Request) {
	p.render(w, PagePurchase, p.src.Purchase.Load(r.Context()))
}

type schedulingPage struct {
	Jobs   []board.DraggableJob
	Loaded bool
}

func (p *Pages) Scheduling(w http.ResponseWriter, r *http.Request) {
	jobs, err := p.src.Scheduler.Unscheduled(r.Context())
	if err != nil {
		slog.Error("loading unscheduled jobs", "controller", board.Controller, "error", err)
	}
	p.render(w, PageScheduling, schedulingPage{Jobs: jobs, Loaded: err == nil})
}

func (p *Pages) frame(canvas string) *chartFrame {
	if p.src.Charts == nil {
		return nil
	}
	inst, ok := p.src.Charts.Current(canvas)
	if !ok {
		return nil
	}
	return &chartFrame{Canvas: canvas, HTML: inst.HTML}
}

func (p *Pages) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := p.templates[name].ExecuteTemplate(&buf, "layout", struct {
		Page string
		Data any
	}{Page: name, Data: data}); err != nil {
		slog.Error("template error", "page", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + "%"
}

// width renders a clamped percentage for a CSS width.
func width(v any) template.CSS {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case float64:
		f = n
	}
	switch {
	case f < 0:
		f = 0
	case f > 100:
		f = 100
	}
	return template.CSS("width: " + strconv.FormatFloat(f, 'f', 1, 64) + "%")
}

// toJSON encodes v for a data attribute; html/template escapes the result.
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
