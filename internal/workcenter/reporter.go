// Package workcenter builds the work-center report page. Data is fetched once
// per page load and every chart is drawn exactly once.
package workcenter

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const Controller = "work_centers"

const (
	CanvasStatus     = "workCenterStatus"
	CanvasEfficiency = "efficiencyChart"
	CanvasTrend      = "performanceTrend"
	CanvasIssues     = "issueDistribution"
)

// canvases lists the page's charts in layout order.
var canvases = []string{CanvasStatus, CanvasEfficiency, CanvasTrend, CanvasIssues}

// Source fetches work-center metrics.
type Source interface {
	WorkCenters(ctx context.Context) (models.WorkCenters, error)
}

// Row is one line of the work-center table, shown as the backend sent it.
type Row struct {
	WorkCenter    string `json:"work_center"`
	AvailableWork string `json:"available_work"`
	Backlog       string `json:"backlog"`
	Efficiency    string `json:"efficiency"`
}

// ChartView is a drawn chart on the page.
type ChartView struct {
	Canvas  string    `json:"canvas"`
	ChartID uuid.UUID `json:"chart_id"`
	HTML    string    `json:"html"`
}

// Page is one rendering of the report.
type Page struct {
	Rows   []Row       `json:"rows"`
	Charts []ChartView `json:"charts"`
	// Loaded is false when the fetch failed; the static charts are still drawn.
	Loaded bool `json:"loaded"`
}

// Reporter renders report pages.
type Reporter struct {
	source   Source
	renderer *chart.Renderer
}

func New(source Source, renderer *chart.Renderer) *Reporter {
	return &Reporter{source: source, renderer: renderer}
}

// Load renders a fresh page. Fetch and render failures are logged and
// absorbed; they only leave the live parts of the page empty.
func (r *Reporter) Load(ctx context.Context) *Page {
	board := chart.NewBoard(r.renderer)
	page := &Page{Rows: []Row{}}

	r.draw(board, CanvasTrend, PerformanceTrendSpec())
	r.draw(board, CanvasIssues, IssueDistributionSpec())

	centers, err := r.source.WorkCenters(ctx)
	if err != nil {
		slog.Error("loading work center data", "controller", Controller, "error", err)
	} else {
		page.Loaded = true
		page.Rows = Rows(centers)
		r.draw(board, CanvasStatus, StatusSpec(centers))
		r.draw(board, CanvasEfficiency, EfficiencySpec(centers))
	}

	for _, canvas := range canvases {
		if inst, ok := board.Current(canvas); ok {
			page.Charts = append(page.Charts, ChartView{Canvas: canvas, ChartID: inst.ID, HTML: inst.HTML})
		}
	}
	return page
}

func (r *Reporter) draw(board *chart.Board, canvas string, spec chart.Spec) {
	if _, err := board.Draw(canvas, spec); err != nil {
		slog.Error("drawing work center chart", "controller", Controller, "canvas", canvas, "error", err)
	}
}

// Rows builds the table in backend order.
func Rows(centers models.WorkCenters) []Row {
	rows := make([]Row, 0, len(centers))
	for _, wc := range centers {
		rows = append(rows, Row{
			WorkCenter:    wc.Name,
			AvailableWork: wc.AvailableWork.String(),
			Backlog:       wc.Backlog.String(),
			Efficiency:    wc.Efficiency.String(),
		})
	}
	return rows
}
