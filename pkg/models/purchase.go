package models

// Purchase order statuses in the order the status distribution reports them.
const (
	PurchaseStatusOpen      = "Open"
	PurchaseStatusInTransit = "In Transit"
	PurchaseStatusDelivered = "Delivered"
	PurchaseStatusDelayed   = "Delayed"
)

// PurchaseStatuses labels the entries of PurchaseMetrics.StatusDistribution.
var PurchaseStatuses = []string{
	PurchaseStatusOpen,
	PurchaseStatusInTransit,
	PurchaseStatusDelivered,
	PurchaseStatusDelayed,
}

type PurchaseOrder struct {
	PONumber     string `json:"po_number"`
	Material     string `json:"material"`
	Quantity     Number `json:"quantity"`
	DeliveryDate string `json:"delivery_date"`
	Status       string `json:"status"`
	Value        Number `json:"value"`
}

type PurchaseMetrics struct {
	OpenPOs            Number   `json:"open_pos"`
	TotalValue         Number   `json:"total_value"`
	PendingDeliveries  Number   `json:"pending_deliveries"`
	LateDeliveries     Number   `json:"late_deliveries"`
	StatusDistribution []Number `json:"status_distribution"`
}

type PurchaseTimeline struct {
	Dates      []string `json:"dates"`
	Quantities []Number `json:"quantities"`
}

// PurchaseReport is the body of /api/purchase.
type PurchaseReport struct {
	PurchaseOrders []PurchaseOrder  `json:"purchase_orders"`
	Metrics        PurchaseMetrics  `json:"metrics"`
	Timeline       PurchaseTimeline `json:"timeline"`
}
