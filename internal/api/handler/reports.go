package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/purchase"
	"github.com/kiranshivaraju/shopdash/internal/workcenter"
)

type WorkCenterReport interface {
	Load(ctx context.Context) *workcenter.Page
}

type PurchaseReport interface {
	Load(ctx context.Context) *purchase.Page
}

// NewWorkCentersHandler returns an http.HandlerFunc for GET /api/v1/work-centers.
// Fetch failures are absorbed by the reporter; the page reports Loaded=false.
func NewWorkCentersHandler(svc WorkCenterReport) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, svc.Load(r.Context()))
	}
}

// NewPurchaseHandler returns an http.HandlerFunc for GET /api/v1/purchase.
func NewPurchaseHandler(svc PurchaseReport) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, svc.Load(r.Context()))
	}
}
