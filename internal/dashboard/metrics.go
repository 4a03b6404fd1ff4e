package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const (
	overloadThreshold  = 10
	pendingWindow      = 7 * 24 * time.Hour
	highPriorityWindow = 3 * 24 * time.Hour
	maxDeadlineRows    = 10
	maxActiveJobs      = 50
)

const (
	StatusInProgress = "In Progress"
	PriorityHigh     = "High"
	PriorityNormal   = "Normal"
)

// StatusCards are the four summary figures at the top of the dashboard.
type StatusCards struct {
	ActiveJobs        int `json:"active_jobs"`
	CompletedToday    int `json:"completed_today"`
	OverloadedCenters int `json:"overloaded_centers"`
	PendingOperations int `json:"pending_operations"`
}

// DeadlineRow is one work order in the upcoming deadlines table.
type DeadlineRow struct {
	JobNumber     string    `json:"job_number"`
	WorkOrder     string    `json:"work_order"`
	DueDate       time.Time `json:"due_date"`
	DueLabel      string    `json:"due_label"`
	Status        string    `json:"status"`
	StatusClass   string    `json:"status_class"`
	Priority      string    `json:"priority"`
	PriorityClass string    `json:"priority_class"`
}

// ActiveJobRow is one operation in the active jobs table.
type ActiveJobRow struct {
	JobNumber   string `json:"job_number"`
	WorkOrder   string `json:"work_order"`
	Operation   string `json:"operation"`
	WorkCenter  string `json:"work_center"`
	Status      string `json:"status"`
	StatusClass string `json:"status_class"`
	// Progress is the bar width, clamped to [0,100].
	Progress float64 `json:"progress"`
	// ProgressLabel is the rounded, unclamped percentage.
	ProgressLabel int `json:"progress_label"`
}

// EfficiencyBar is one work center's efficiency progress bar.
type EfficiencyBar struct {
	WorkCenter string `json:"work_center"`
	Efficiency int    `json:"efficiency"`
	Color      string `json:"color"`
}

// BuildStatusCards derives the summary figures. now fixes both "today" (its
// calendar date in its own location) and the pending window.
func BuildStatusCards(jobs []models.Job, centers models.WorkCenters, now time.Time) StatusCards {
	cards := StatusCards{ActiveJobs: len(jobs)}
	today := now.Format("2006-01-02")
	pendingLimit := now.Add(pendingWindow)

	for _, job := range jobs {
		for _, wo := range job.WorkOrders {
			for _, op := range wo.Operations {
				if op.Completed() {
					if models.DatePrefix(op.CompletedAt) == today {
						cards.CompletedToday++
					}
					continue
				}
				due, ok := models.ParseInstant(op.DueDate, now.Location())
				if ok && !due.After(pendingLimit) {
					cards.PendingOperations++
				}
			}
		}
	}
	for _, wc := range centers {
		if wc.Load() > overloadThreshold {
			cards.OverloadedCenters++
		}
	}
	return cards
}

// UpcomingDeadlines flattens work orders with a readable due date, sorts them
// by due date and keeps the first ten.
func UpcomingDeadlines(jobs []models.Job, now time.Time) []DeadlineRow {
	highLimit := now.Add(highPriorityWindow)
	rows := []DeadlineRow{}
	for _, job := range jobs {
		for _, wo := range job.WorkOrders {
			due, ok := models.ParseInstant(wo.DueDate, now.Location())
			if !ok {
				continue
			}
			row := DeadlineRow{
				JobNumber:     job.JobNumber,
				WorkOrder:     wo.WorkOrderNumber,
				DueDate:       due,
				DueLabel:      due.Format("01/02/2006"),
				Status:        StatusInProgress,
				StatusClass:   "warning",
				Priority:      PriorityNormal,
				PriorityClass: "info",
			}
			if wo.Done() {
				row.Status = models.StatusCompleted
				row.StatusClass = "success"
			}
			if !due.After(highLimit) {
				row.Priority = PriorityHigh
				row.PriorityClass = "danger"
			}
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DueDate.Before(rows[j].DueDate)
	})
	if len(rows) > maxDeadlineRows {
		rows = rows[:maxDeadlineRows]
	}
	return rows
}

// ActiveJobRows lists every operation of the first fifty jobs.
func ActiveJobRows(jobs []models.Job) []ActiveJobRow {
	if len(jobs) > maxActiveJobs {
		jobs = jobs[:maxActiveJobs]
	}
	rows := []ActiveJobRow{}
	for _, job := range jobs {
		for _, wo := range job.WorkOrders {
			for _, op := range wo.Operations {
				pct := Progress(op.ActualHours, op.PlannedHours)
				row := ActiveJobRow{
					JobNumber:     job.JobNumber,
					WorkOrder:     wo.WorkOrderNumber,
					Operation:     op.OperationNumber.String(),
					WorkCenter:    op.WorkCenter,
					Status:        op.Status,
					StatusClass:   "warning",
					Progress:      clamp(pct, 0, 100),
					ProgressLabel: int(math.Round(pct)),
				}
				if op.Completed() {
					row.StatusClass = "success"
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// Progress is actual/planned as a percentage. Missing or non-positive planned
// hours yield 0 instead of NaN or Inf.
func Progress(actual, planned models.Number) float64 {
	if !planned.Valid || planned.Value <= 0 {
		return 0
	}
	return actual.Value / planned.Value * 100
}

// EfficiencyBars maps each work center's efficiency onto a coloured bar.
func EfficiencyBars(centers models.WorkCenters) []EfficiencyBar {
	bars := make([]EfficiencyBar, 0, len(centers))
	for _, wc := range centers {
		eff := int(clamp(float64(wc.Efficiency.Int()), 0, 100))
		bars = append(bars, EfficiencyBar{
			WorkCenter: wc.Name,
			Efficiency: eff,
			Color:      EfficiencyColor(eff),
		})
	}
	return bars
}

// EfficiencyColor buckets an efficiency percentage.
func EfficiencyColor(eff int) string {
	switch {
	case eff >= 80:
		return "success"
	case eff >= 60:
		return "warning"
	default:
		return "danger"
	}
}

// WorkCenterChart is the available-work/backlog bar pair per work center.
func WorkCenterChart(centers models.WorkCenters) chart.Spec {
	available := make([]float64, len(centers))
	backlog := make([]float64, len(centers))
	for i, wc := range centers {
		available[i] = wc.AvailableWork.Value
		backlog[i] = wc.Backlog.Value
	}
	return chart.Spec{
		Kind:   chart.KindBar,
		Title:  "Work Center Load",
		Labels: centers.Names(),
		Series: []chart.Series{
			{Name: "Available Work", Values: available, Color: "rgba(54, 162, 235, 0.5)"},
			{Name: "Backlog", Values: backlog, Color: "rgba(255, 99, 132, 0.5)"},
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
