package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/chart"
)

// ChartSource looks up the live chart bound to a canvas.
type ChartSource interface {
	Current(canvas string) (*chart.Instance, bool)
}

// NewChartHandler returns an http.HandlerFunc for GET /api/v1/charts/{canvas}.
func NewChartHandler(src ChartSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		canvas := chi.URLParam(r, "canvas")
		inst, ok := src.Current(canvas)
		if !ok {
			response.Error(w, http.StatusNotFound, "CHART_NOT_FOUND",
				"No chart is drawn on this canvas", map[string]string{"canvas": canvas})
			return
		}
		w.Header().Set("X-Chart-ID", inst.ID.String())
		response.HTML(w, inst.HTML)
	}
}
