package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/forecast"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// Forecast is the part of the forecast reporter the handlers use.
type Forecast interface {
	View() (forecast.View, bool)
	Load(ctx context.Context, trigger string) error
}

// NewForecastHandler returns an http.HandlerFunc for GET /api/v1/forecast.
func NewForecastHandler(svc Forecast) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		view, ok := svc.View()
		if !ok {
			response.Error(w, http.StatusServiceUnavailable, "NOT_READY",
				forecast.FailureMessage, nil)
			return
		}
		response.JSON(w, view)
	}
}

// NewForecastRefreshHandler returns an http.HandlerFunc for
// POST /api/v1/forecast/refresh. The load runs inline and the new view is
// returned.
func NewForecastRefreshHandler(svc Forecast) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Load(r.Context(), models.TriggerManual); err != nil {
			writeBackendError(w, err)
			return
		}
		view, _ := svc.View()
		response.JSON(w, view)
	}
}
