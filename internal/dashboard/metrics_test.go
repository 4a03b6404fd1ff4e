package dashboard

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/shopdash/pkg/models"
)

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func op(status string, extra func(*models.Operation)) models.Operation {
	o := models.Operation{Status: status}
	if extra != nil {
		extra(&o)
	}
	return o
}

func TestUpcomingDeadlines_SingleCompletedOrderTomorrowIsHigh(t *testing.T) {
	jobs := []models.Job{{
		JobNumber: "J1",
		WorkOrders: []models.WorkOrder{{
			WorkOrderNumber: "W1",
			DueDate:         day(1),
			Operations:      []models.Operation{op(models.StatusCompleted, nil)},
		}},
	}}

	rows := UpcomingDeadlines(jobs, testNow)
	require.Len(t, rows, 1)
	assert.Equal(t, "J1", rows[0].JobNumber)
	assert.Equal(t, "W1", rows[0].WorkOrder)
	assert.Equal(t, models.StatusCompleted, rows[0].Status)
	assert.Equal(t, PriorityHigh, rows[0].Priority)
	assert.Equal(t, "danger", rows[0].PriorityClass)
}

func TestUpcomingDeadlines_SortedCappedAndFiltered(t *testing.T) {
	var orders []models.WorkOrder
	for i := 14; i >= 0; i-- {
		orders = append(orders, models.WorkOrder{
			WorkOrderNumber: fmt.Sprintf("W%02d", i),
			DueDate:         day(i),
			Operations:      []models.Operation{op("Queued", nil)},
		})
	}
	orders = append(orders,
		models.WorkOrder{WorkOrderNumber: "missing"},
		models.WorkOrder{WorkOrderNumber: "garbage", DueDate: "soon"},
	)
	rows := UpcomingDeadlines([]models.Job{{JobNumber: "J", WorkOrders: orders}}, testNow)

	require.Len(t, rows, maxDeadlineRows)
	assert.True(t, sort.SliceIsSorted(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) }))
	assert.Equal(t, "W00", rows[0].WorkOrder)
	for _, r := range rows {
		assert.NotEqual(t, "missing", r.WorkOrder)
		assert.NotEqual(t, "garbage", r.WorkOrder)
		assert.Equal(t, StatusInProgress, r.Status)
	}
	assert.Equal(t, PriorityHigh, rows[3].Priority)
	assert.Equal(t, PriorityNormal, rows[4].Priority)
}

func TestUpcomingDeadlines_EmptyOperationsAreInProgress(t *testing.T) {
	rows := UpcomingDeadlines([]models.Job{{
		JobNumber:  "J1",
		WorkOrders: []models.WorkOrder{{WorkOrderNumber: "W1", DueDate: day(30)}},
	}}, testNow)
	require.Len(t, rows, 1)
	assert.Equal(t, StatusInProgress, rows[0].Status)
	assert.Equal(t, PriorityNormal, rows[0].Priority)
}

func TestBuildStatusCards(t *testing.T) {
	today := testNow.Format("2006-01-02")
	jobs := []models.Job{
		{
			JobNumber: "J1",
			WorkOrders: []models.WorkOrder{{Operations: []models.Operation{
				op(models.StatusCompleted, func(o *models.Operation) { o.CompletedAt = today + "T07:12:00" }),
				op(models.StatusCompleted, func(o *models.Operation) { o.CompletedAt = day(-1) + "T23:59:00" }),
				op("completed", func(o *models.Operation) { o.CompletedAt = today + "T08:00:00" }),
				op(models.StatusCompleted, nil),
			}}},
		},
		{
			JobNumber: "J2",
			WorkOrders: []models.WorkOrder{{Operations: []models.Operation{
				op("Queued", func(o *models.Operation) { o.DueDate = day(7) }),
				op("Queued", func(o *models.Operation) { o.DueDate = day(-2) }),
				op("Queued", func(o *models.Operation) { o.DueDate = day(8) }),
				op("Queued", nil),
				op(models.StatusCompleted, func(o *models.Operation) { o.DueDate = day(1) }),
			}}},
		},
	}
	var centers models.WorkCenters
	require.NoError(t, json.Unmarshal([]byte(`{
		"A":{"available_work":5,"backlog":5},
		"B":{"available_work":6,"backlog":5},
		"C":{"available_work":"20","backlog":null},
		"D":{}
	}`), &centers))

	cards := BuildStatusCards(jobs, centers, testNow)
	assert.Equal(t, StatusCards{
		ActiveJobs:        2,
		CompletedToday:    1,
		OverloadedCenters: 2,
		PendingOperations: 2,
	}, cards)
}

func TestBuildStatusCards_TodayFollowsClockLocation(t *testing.T) {
	loc := time.FixedZone("plant", 10*3600)
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC).In(loc)
	jobs := []models.Job{{WorkOrders: []models.WorkOrder{{Operations: []models.Operation{
		op(models.StatusCompleted, func(o *models.Operation) { o.CompletedAt = "2024-03-11T08:00:00" }),
		op(models.StatusCompleted, func(o *models.Operation) { o.CompletedAt = "2024-03-10T20:00:00" }),
	}}}}}
	assert.Equal(t, 1, BuildStatusCards(jobs, nil, now).CompletedToday)
}

func TestActiveJobRows(t *testing.T) {
	num := models.NewNumber
	jobs := []models.Job{{
		JobNumber: "J1",
		WorkOrders: []models.WorkOrder{{
			WorkOrderNumber: "W1",
			Operations: []models.Operation{
				{OperationNumber: num(10), WorkCenter: "SAW", Status: "Running", ActualHours: num(3), PlannedHours: num(4)},
				{OperationNumber: num(20), WorkCenter: "MILL", Status: models.StatusCompleted, ActualHours: num(6), PlannedHours: num(4)},
				{OperationNumber: num(30), WorkCenter: "ASSY", Status: "Queued", ActualHours: num(2), PlannedHours: num(0)},
				{OperationNumber: num(40), WorkCenter: "ASSY", Status: "Queued", ActualHours: num(2)},
			},
		}},
	}}

	rows := ActiveJobRows(jobs)
	require.Len(t, rows, 4)
	assert.Equal(t, "10", rows[0].Operation)
	assert.InDelta(t, 75.0, rows[0].Progress, 1e-9)
	assert.Equal(t, 75, rows[0].ProgressLabel)
	assert.Equal(t, "warning", rows[0].StatusClass)

	assert.InDelta(t, 100.0, rows[1].Progress, 1e-9)
	assert.Equal(t, 150, rows[1].ProgressLabel)
	assert.Equal(t, "success", rows[1].StatusClass)

	for _, r := range rows[2:] {
		assert.Zero(t, r.Progress)
		assert.Zero(t, r.ProgressLabel)
	}
}

func TestActiveJobRows_FirstFiftyJobsOnly(t *testing.T) {
	jobs := make([]models.Job, 60)
	for i := range jobs {
		jobs[i] = models.Job{
			JobNumber:  fmt.Sprintf("J%d", i),
			WorkOrders: []models.WorkOrder{{Operations: []models.Operation{op("Queued", nil)}}},
		}
	}
	rows := ActiveJobRows(jobs)
	assert.Len(t, rows, 50)
	assert.Equal(t, "J49", rows[49].JobNumber)
}

func TestEfficiencyBars(t *testing.T) {
	var centers models.WorkCenters
	require.NoError(t, json.Unmarshal([]byte(`{
		"A":{"efficiency":"85%"},
		"B":{"efficiency":60},
		"C":{"efficiency":"59.9"},
		"D":{"efficiency":"n/a"},
		"E":{"efficiency":140}
	}`), &centers))

	bars := EfficiencyBars(centers)
	require.Len(t, bars, 5)
	want := []EfficiencyBar{
		{WorkCenter: "A", Efficiency: 85, Color: "success"},
		{WorkCenter: "B", Efficiency: 60, Color: "warning"},
		{WorkCenter: "C", Efficiency: 59, Color: "danger"},
		{WorkCenter: "D", Efficiency: 0, Color: "danger"},
		{WorkCenter: "E", Efficiency: 100, Color: "success"},
	}
	assert.Equal(t, want, bars)
}

func TestWorkCenterChartFollowsBackendOrder(t *testing.T) {
	var centers models.WorkCenters
	require.NoError(t, json.Unmarshal([]byte(`{"Z":{"available_work":1,"backlog":2},"A":{"available_work":3,"backlog":4}}`), &centers))
	spec := WorkCenterChart(centers)
	assert.Equal(t, []string{"Z", "A"}, spec.Labels)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, []float64{1, 3}, spec.Series[0].Values)
	assert.Equal(t, []float64{2, 4}, spec.Series[1].Values)
}
