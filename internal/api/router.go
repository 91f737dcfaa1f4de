package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the frame endpoints, the JSON API, health and metrics.
// limiter may be nil.
func NewRouter(h *Handler, limiter *RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID)

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	app := r.NewRoute().Subrouter()
	if limiter != nil {
		app.Use(limiter.Middleware)
	}
	app.HandleFunc(FramePath, h.FrameInitial).Methods(http.MethodGet)
	app.HandleFunc(FramePath, h.FrameAction).Methods(http.MethodPost)
	app.HandleFunc(InteractionsPath, h.Interact).Methods(http.MethodPost)

	return r
}
