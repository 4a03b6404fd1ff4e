// Package purchase builds the purchase-order report page.
package purchase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const Controller = "purchase"

const (
	CanvasStatus   = "poStatusChart"
	CanvasTimeline = "deliveryTimeline"
)

// Source fetches the purchase report.
type Source interface {
	Purchase(ctx context.Context) (models.PurchaseReport, error)
}

// Cards are the four headline metrics.
type Cards struct {
	OpenPOs           int    `json:"open_pos"`
	TotalValue        string `json:"total_value"`
	PendingDeliveries int    `json:"pending_deliveries"`
	LateDeliveries    int    `json:"late_deliveries"`
}

// Row is one purchase order in the table.
type Row struct {
	PONumber     string `json:"po_number"`
	Material     string `json:"material"`
	Quantity     string `json:"quantity"`
	DeliveryDate string `json:"delivery_date"`
	Status       string `json:"status"`
	StatusClass  string `json:"status_class"`
	Value        string `json:"value"`
}

// ChartView is a drawn chart on the page.
type ChartView struct {
	Canvas  string    `json:"canvas"`
	ChartID uuid.UUID `json:"chart_id"`
	HTML    string    `json:"html"`
}

// Page is one rendering of the report.
type Page struct {
	Cards  Cards       `json:"cards"`
	Rows   []Row       `json:"rows"`
	Charts []ChartView `json:"charts"`
	Loaded bool        `json:"loaded"`
}

// Reporter renders purchase pages, fetching once per page.
type Reporter struct {
	source   Source
	renderer *chart.Renderer
}

func New(source Source, renderer *chart.Renderer) *Reporter {
	return &Reporter{source: source, renderer: renderer}
}

// Load renders a fresh page. Failures are logged and leave the page empty.
func (r *Reporter) Load(ctx context.Context) *Page {
	page := &Page{Rows: []Row{}, Cards: Cards{TotalValue: FormatMoney(0)}}
	report, err := r.source.Purchase(ctx)
	if err != nil {
		slog.Error("loading purchase data", "controller", Controller, "error", err)
		return page
	}
	page.Loaded = true
	page.Cards = BuildCards(report.Metrics)
	page.Rows = Rows(report.PurchaseOrders)

	board := chart.NewBoard(r.renderer)
	specs := []struct {
		canvas string
		spec   chart.Spec
		ok     bool
	}{
		{canvas: CanvasStatus, spec: StatusSpec(report.Metrics), ok: true},
		{canvas: CanvasTimeline, spec: TimelineSpec(report.Timeline), ok: len(report.Timeline.Dates) > 0},
	}
	for _, s := range specs {
		if !s.ok {
			continue
		}
		inst, err := board.Draw(s.canvas, s.spec)
		if err != nil {
			slog.Error("drawing purchase chart", "controller", Controller, "canvas", s.canvas, "error", err)
			continue
		}
		page.Charts = append(page.Charts, ChartView{Canvas: s.canvas, ChartID: inst.ID, HTML: inst.HTML})
	}
	return page
}

func BuildCards(m models.PurchaseMetrics) Cards {
	return Cards{
		OpenPOs:           m.OpenPOs.Int(),
		TotalValue:        FormatMoney(m.TotalValue.Value),
		PendingDeliveries: m.PendingDeliveries.Int(),
		LateDeliveries:    m.LateDeliveries.Int(),
	}
}

func Rows(orders []models.PurchaseOrder) []Row {
	rows := make([]Row, 0, len(orders))
	for _, po := range orders {
		rows = append(rows, Row{
			PONumber:     po.PONumber,
			Material:     po.Material,
			Quantity:     po.Quantity.String(),
			DeliveryDate: po.DeliveryDate,
			Status:       po.Status,
			StatusClass:  StatusClass(po.Status),
			Value:        FormatMoney(po.Value.Value),
		})
	}
	return rows
}

// StatusClass maps a purchase status onto a badge colour.
func StatusClass(status string) string {
	switch status {
	case models.PurchaseStatusOpen:
		return "primary"
	case models.PurchaseStatusInTransit:
		return "info"
	case models.PurchaseStatusDelivered:
		return "success"
	case models.PurchaseStatusDelayed:
		return "danger"
	default:
		return "secondary"
	}
}

func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// StatusSpec draws the status distribution; missing entries count as zero.
func StatusSpec(m models.PurchaseMetrics) chart.Spec {
	values := make([]float64, len(models.PurchaseStatuses))
	for i := range values {
		if i < len(m.StatusDistribution) {
			values[i] = m.StatusDistribution[i].Value
		}
	}
	return chart.Spec{
		Kind:   chart.KindDoughnut,
		Title:  "PO Status Distribution",
		Labels: models.PurchaseStatuses,
		Series: []chart.Series{{Name: "Purchase Orders", Values: values}},
		Colors: []string{
			"rgba(54, 162, 235, 0.8)",
			"rgba(255, 206, 86, 0.8)",
			"rgba(75, 192, 192, 0.8)",
			"rgba(255, 99, 132, 0.8)",
		},
	}
}

func TimelineSpec(t models.PurchaseTimeline) chart.Spec {
	values := make([]float64, len(t.Dates))
	for i := range values {
		if i < len(t.Quantities) {
			values[i] = t.Quantities[i].Value
		}
	}
	return chart.Spec{
		Kind:   chart.KindLine,
		Title:  "Delivery Timeline",
		Labels: t.Dates,
		Series: []chart.Series{{Name: "Quantity", Values: values, Color: "rgba(54, 162, 235, 1)"}},
	}
}
