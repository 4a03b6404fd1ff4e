package forecast

import (
	"fmt"

	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// Efficiency is actual over planned hours as a percentage; 0 when nothing is planned.
func Efficiency(m models.ForecastMetric) float64 {
	if m.Planned.Value <= 0 {
		return 0
	}
	return m.Actual.Value / m.Planned.Value * 100
}

// EfficiencyClass colours the remaining-hours badge.
func EfficiencyClass(eff float64) string {
	switch {
	case eff >= 90:
		return "success"
	case eff >= 70:
		return "warning"
	default:
		return "danger"
	}
}

// Rows builds one table row per work center in backend order.
func Rows(set models.ForecastSet) []Row {
	rows := make([]Row, 0, len(set))
	for _, m := range set {
		eff := Efficiency(m)
		rows = append(rows, Row{
			WorkCenter:      m.WorkCenter,
			Planned:         m.Planned.Fixed(),
			Actual:          m.Actual.Fixed(),
			Forecasted:      m.Forecasted.Fixed(),
			Remaining:       m.Remaining.Fixed(),
			Efficiency:      eff,
			EfficiencyClass: EfficiencyClass(eff),
		})
	}
	return rows
}

// Totals sums the four hour columns across work centers. The totals row
// carries no efficiency.
func Totals(set models.ForecastSet) Row {
	var planned, actual, forecasted, remaining float64
	for _, m := range set {
		planned += m.Planned.Value
		actual += m.Actual.Value
		forecasted += m.Forecasted.Value
		remaining += m.Remaining.Value
	}
	return Row{
		WorkCenter: "Total",
		Planned:    fmt.Sprintf("%.1f", planned),
		Actual:     fmt.Sprintf("%.1f", actual),
		Forecasted: fmt.Sprintf("%.1f", forecasted),
		Remaining:  fmt.Sprintf("%.1f", remaining),
	}
}

// ChartSpec is the planned/actual/forecasted grouped bar chart.
func ChartSpec(set models.ForecastSet) chart.Spec {
	labels := make([]string, len(set))
	planned := make([]float64, len(set))
	actual := make([]float64, len(set))
	forecasted := make([]float64, len(set))
	for i, m := range set {
		labels[i] = m.WorkCenter
		planned[i] = m.Planned.Value
		actual[i] = m.Actual.Value
		forecasted[i] = m.Forecasted.Value
	}
	return chart.Spec{
		Kind:   chart.KindBar,
		Title:  "Work Hours Forecast by Work Center",
		Labels: labels,
		Series: []chart.Series{
			{Name: "Planned Hours", Values: planned, Color: "rgba(54, 162, 235, 0.5)"},
			{Name: "Actual Hours", Values: actual, Color: "rgba(75, 192, 192, 0.5)"},
			{Name: "Forecasted Hours", Values: forecasted, Color: "rgba(255, 206, 86, 0.5)"},
		},
		XName: "Work Centers",
		YName: "Hours",
	}
}
