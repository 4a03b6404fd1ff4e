package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/shopdash/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartRouter(src ChartSource) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/charts/{canvas}", NewChartHandler(src))
	return r
}

func TestChart_ServesLiveInstance(t *testing.T) {
	board := chart.NewBoard(nil)
	inst, err := board.Redraw("forecastChart", chart.Spec{
		Kind:   chart.KindBar,
		Title:  "Forecast",
		Labels: []string{"Lathe"},
		Series: []chart.Series{{Name: "Planned", Values: []float64{10}}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	chartRouter(board).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/forecastChart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, inst.ID.String(), rec.Header().Get("X-Chart-ID"))
	assert.Contains(t, rec.Body.String(), "echarts")
}

func TestChart_UnknownCanvas(t *testing.T) {
	rec := httptest.NewRecorder()
	chartRouter(chart.NewBoard(nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/charts/nope", nil))

	status, code, _ := parseErr(t, rec)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "CHART_NOT_FOUND", code)
}
