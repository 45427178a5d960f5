package api

import (
	"net/http"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Planner      handlers.TripPlanner
	Repo         ports.TripRepository
	Simulator    *services.Simulator
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	RateLimitRPM int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Simulator == nil {
		d.Simulator = services.DefaultSimulator()
	}

	tripHandler := &handlers.TripHandler{Planner: d.Planner, Repo: d.Repo}
	simHandler := &handlers.SimulateHandler{Simulator: d.Simulator}

	r := chi.NewRouter()
	r.Use(requestContext(d.Logger))
	r.Use(loggingMiddleware)
	r.Use(recoverer)
	if d.Metrics != nil {
		simHandler.Metrics = d.Metrics
		r.Use(metrics.RequestMiddleware(d.Metrics))
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/trip/", tripHandler.Hello)
		r.With(rateLimit(d.RateLimitRPM)).Post("/trip/", tripHandler.Create)
		r.Get("/getLists/", tripHandler.List)
		r.Get("/trips/{id}", tripHandler.Get)
		r.Get("/drivers/", tripHandler.Drivers)
		r.With(rateLimit(d.RateLimitRPM)).Post("/simulate", simHandler.Simulate)
	})

	return otelhttp.NewHandler(r, "trip-planner",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/metrics" && r.URL.Path != "/health" }),
	)
}
