package handler

import (
	"errors"
	"net/http"

	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/dashboard"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// Dashboard is the part of the aggregator the handlers use.
type Dashboard interface {
	View() (dashboard.View, bool)
	Loading() bool
	RefreshAsync(trigger string) error
}

// NewDashboardHandler returns an http.HandlerFunc for GET /api/v1/dashboard.
func NewDashboardHandler(svc Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		view, ok := svc.View()
		if !ok {
			response.Error(w, http.StatusServiceUnavailable, "NOT_READY",
				"Dashboard data has not loaded yet",
				map[string]bool{"loading": svc.Loading()})
			return
		}
		response.JSON(w, view)
	}
}

// NewDashboardRefreshHandler returns an http.HandlerFunc for
// POST /api/v1/dashboard/refresh.
func NewDashboardRefreshHandler(svc Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := svc.RefreshAsync(models.TriggerManual); err != nil {
			if errors.Is(err, dashboard.ErrRefreshInProgress) {
				response.Error(w, http.StatusConflict, "REFRESH_IN_PROGRESS",
					"A dashboard refresh is already running", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.Accepted(w, map[string]string{"status": "started"})
	}
}
