package workcenter

import (
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// StatusSpec plots available work against backlog.
func StatusSpec(centers models.WorkCenters) chart.Spec {
	available := make([]float64, len(centers))
	backlog := make([]float64, len(centers))
	for i, wc := range centers {
		available[i] = wc.AvailableWork.Value
		backlog[i] = wc.Backlog.Value
	}
	return chart.Spec{
		Kind:   chart.KindBar,
		Title:  "Work Center Status",
		Labels: centers.Names(),
		Series: []chart.Series{
			{Name: "Available Work", Values: available, Color: "rgba(75, 192, 192, 0.5)"},
			{Name: "Backlog", Values: backlog, Color: "rgba(255, 99, 132, 0.5)"},
		},
	}
}

// EfficiencySpec plots the integer efficiency per work center on a 0-100 axis.
func EfficiencySpec(centers models.WorkCenters) chart.Spec {
	eff := make([]float64, len(centers))
	for i, wc := range centers {
		eff[i] = float64(wc.Efficiency.Int())
	}
	return chart.Spec{
		Kind:   chart.KindLine,
		Title:  "Efficiency",
		Labels: centers.Names(),
		Series: []chart.Series{{Name: "Efficiency", Values: eff, Color: "rgb(75, 192, 192)"}},
		YMax:   chart.Float(100),
	}
}

// PerformanceTrendSpec is illustrative: it is not derived from any fetch.
func PerformanceTrendSpec() chart.Spec {
	return chart.Spec{
		Kind:   chart.KindLine,
		Title:  "Performance Trend",
		Labels: []string{"Week 1", "Week 2", "Week 3", "Week 4"},
		Series: []chart.Series{{Name: "Average Efficiency", Values: []float64{85, 87, 90, 92}, Color: "rgba(75, 192, 192, 1)"}},
		YMin:   chart.Float(80),
		YMax:   chart.Float(100),
	}
}

// IssueDistributionSpec is illustrative: it is not derived from any fetch.
func IssueDistributionSpec() chart.Spec {
	return chart.Spec{
		Kind:   chart.KindDoughnut,
		Title:  "Issue Distribution",
		Labels: []string{"No Issues", "Minor Issues", "Major Issues"},
		Series: []chart.Series{{Name: "Issues", Values: []float64{70, 20, 10}}},
		Colors: []string{
			"rgba(75, 192, 192, 0.8)",
			"rgba(255, 206, 86, 0.8)",
			"rgba(255, 99, 132, 0.8)",
		},
	}
}
