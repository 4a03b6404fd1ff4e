package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/shopdash/internal/api/middleware"
	"github.com/kiranshivaraju/shopdash/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	// Pages
	DashboardPage   http.HandlerFunc
	ForecastPage    http.HandlerFunc
	WorkCentersPage http.HandlerFunc
	SchedulingPage  http.HandlerFunc
	PurchasePage    http.HandlerFunc

	HealthHandler http.HandlerFunc

	DashboardHandler   http.HandlerFunc
	DashboardRefresh   http.HandlerFunc
	ChartHandler       http.HandlerFunc
	UploadHandler      http.HandlerFunc
	UploadStateHandler http.HandlerFunc
	ForecastHandler    http.HandlerFunc
	ForecastRefresh    http.HandlerFunc
	WorkCentersHandler http.HandlerFunc
	PurchaseHandler    http.HandlerFunc

	ScheduleEvents http.HandlerFunc
	ScheduleMove   http.HandlerFunc
	ScheduleJobs   http.HandlerFunc
	ScheduleDrop   http.HandlerFunc
	ScheduleOpen   http.HandlerFunc
	ScheduleSave   http.HandlerFunc

	RunsHandler          http.HandlerFunc
	RunHandler           http.HandlerFunc
	ReschedulesHandler   http.HandlerFunc
	NotificationsHandler http.HandlerFunc

	EventStream http.HandlerFunc
	EventSocket http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.ClientIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Not found", nil)
	})

	// Pages
	r.Get("/", orNotImplemented(deps.DashboardPage))
	r.Get("/forecasting", orNotImplemented(deps.ForecastPage))
	r.Get("/work_centers", orNotImplemented(deps.WorkCentersPage))
	r.Get("/scheduling", orNotImplemented(deps.SchedulingPage))
	r.Get("/purchase", orNotImplemented(deps.PurchasePage))

	// Notification stream
	r.Get("/events", orNotImplemented(deps.EventStream))
	r.Get("/events/ws", orNotImplemented(deps.EventSocket))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", orNotImplemented(deps.HealthHandler))

		r.Get("/dashboard", orNotImplemented(deps.DashboardHandler))
		r.Get("/charts/{canvas}", orNotImplemented(deps.ChartHandler))
		r.Get("/upload", orNotImplemented(deps.UploadStateHandler))
		r.Get("/forecast", orNotImplemented(deps.ForecastHandler))
		r.Get("/work-centers", orNotImplemented(deps.WorkCentersHandler))
		r.Get("/purchase", orNotImplemented(deps.PurchaseHandler))

		r.Get("/schedule", orNotImplemented(deps.ScheduleEvents))
		r.Get("/schedule/unscheduled", orNotImplemented(deps.ScheduleJobs))

		r.Get("/history/runs", orNotImplemented(deps.RunsHandler))
		r.Get("/history/runs/{runID}", orNotImplemented(deps.RunHandler))
		r.Get("/history/reschedules", orNotImplemented(deps.ReschedulesHandler))
		r.Get("/notifications", orNotImplemented(deps.NotificationsHandler))

		// Mutating routes
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimit.Limit)

			r.Post("/dashboard/refresh", orNotImplemented(deps.DashboardRefresh))
			r.Post("/upload", orNotImplemented(deps.UploadHandler))
			r.Post("/forecast/refresh", orNotImplemented(deps.ForecastRefresh))

			r.Post("/schedule/move", orNotImplemented(deps.ScheduleMove))
			r.Post("/schedule/drop", orNotImplemented(deps.ScheduleDrop))
			r.Post("/schedule/open", orNotImplemented(deps.ScheduleOpen))
			r.Post("/schedule/save", orNotImplemented(deps.ScheduleSave))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
