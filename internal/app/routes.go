package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/scheinerik/schedule/internal/auth"
	"github.com/scheinerik/schedule/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// CORS preflight for every path when a frontend origin is configured
	if cfg.Host != "" {
		r.Methods(http.MethodOptions).HandlerFunc(preflight)
	}

	// Events; the handler answers 405 for methods it does not serve
	events := r.PathPrefix("/api/events").Subrouter()
	events.Use(auth.RequireForWrites(deps.AuthTokenValidator))
	events.HandleFunc("", deps.ScheduleHandler.ServeEvents)
	events.HandleFunc("/series", deps.ScheduleHandler.CreateSeries).Methods("POST")

	// Calendar views
	r.HandleFunc("/api/calendar/summary", deps.CalendarHandler.GetSummary).Methods("GET")
	r.HandleFunc("/api/calendar/summary.csv", deps.CalendarHandler.GetSummaryCsv).Methods("GET")
	r.HandleFunc("/api/calendar/grid", deps.CalendarHandler.GetGrid).Methods("GET")
	r.HandleFunc("/api/calendar/events.ics", deps.CalendarHandler.GetFeed).Methods("GET")

	// Contact form
	r.Handle("/send-email", deps.RateLimiter.Middleware(http.HandlerFunc(deps.ContactHandler.SendEmail))).Methods("POST")
}

func preflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusNoContent)
}
