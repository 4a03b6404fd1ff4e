package models

// StatusCompleted is the only operation status with special meaning. Comparison
// is exact and case-sensitive.
const StatusCompleted = "Completed"

// Job is the dashboard's view of a backend job with its work orders.
type Job struct {
	JobNumber  string      `json:"job_number"`
	Status     string      `json:"status,omitempty"`
	StartDate  string      `json:"start_date,omitempty"`
	DueDate    string      `json:"due_date,omitempty"`
	WorkOrders []WorkOrder `json:"work_orders"`
}

// WorkOrder groups the operations performed for one order of a job.
type WorkOrder struct {
	WorkOrderNumber string      `json:"work_order_number"`
	DueDate         string      `json:"due_date,omitempty"`
	Operations      []Operation `json:"operations"`
}

// Done reports whether the work order has operations and all of them are
// Completed. An order with no operations is not done.
func (wo WorkOrder) Done() bool {
	if len(wo.Operations) == 0 {
		return false
	}
	for _, op := range wo.Operations {
		if !op.Completed() {
			return false
		}
	}
	return true
}

// Operation is the smallest tracked unit of work, bound to one work center.
type Operation struct {
	OperationNumber Number `json:"operation_number"`
	WorkCenter      string `json:"work_center"`
	Status          string `json:"status"`
	PlannedHours    Number `json:"planned_hours"`
	ActualHours     Number `json:"actual_hours"`
	ScheduledDate   string `json:"scheduled_date,omitempty"`
	CompletedAt     string `json:"completed_at,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
}

func (op Operation) Completed() bool {
	return op.Status == StatusCompleted
}

// BoardJob is the scheduler board's reading of /api/jobs. It shares the
// endpoint with Job but uses its own field names and casing.
type BoardJob struct {
	ID           ID     `json:"id"`
	JobNumber    string `json:"job_number,omitempty"`
	Scheduled    bool   `json:"scheduled"`
	Task         string `json:"Task"`
	WorkCenter   string `json:"Work_Center"`
	PlannedHours Number `json:"Planned_Hours"`
}

// Title is the display name: Task when present, job number otherwise.
func (j BoardJob) Title() string {
	if j.Task != "" {
		return j.Task
	}
	return j.JobNumber
}
