package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the trip planner.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	tripsPlanned     prometheus.Counter
	tripFailures     *prometheus.CounterVec
	simulatedDays    prometheus.Histogram
	simulatedEntries prometheus.Counter
	cycleRestarts    prometheus.Counter
	upstreamCalls    *prometheus.CounterVec
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trip_planner_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trip_planner_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		tripsPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trip_planner_trips_planned_total",
			Help: "Trips planned and persisted",
		}),
		tripFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trip_planner_trip_failures_total",
			Help: "Trip planning failures by stage",
		}, []string{"stage"}),
		simulatedDays: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trip_planner_simulated_days",
			Help:    "Duty log days produced per simulation",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		simulatedEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trip_planner_duty_segments_total",
			Help: "Duty segments emitted by the simulator",
		}),
		cycleRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trip_planner_cycle_restarts_total",
			Help: "34-hour restarts inserted by the simulator",
		}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trip_planner_upstream_calls_total",
			Help: "Calls to geocoding and routing services by outcome",
		}, []string{"service", "outcome"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.tripsPlanned,
		m.tripFailures,
		m.simulatedDays,
		m.simulatedEntries,
		m.cycleRestarts,
		m.upstreamCalls,
	)

	return m
}

func (m *Metrics) IncTripsPlanned() { m.tripsPlanned.Inc() }

func (m *Metrics) IncTripFailure(stage string) { m.tripFailures.WithLabelValues(stage).Inc() }

// ObserveSimulation records the shape of one simulation result.
func (m *Metrics) ObserveSimulation(days, entries, restarts int) {
	m.simulatedDays.Observe(float64(days))
	m.simulatedEntries.Add(float64(entries))
	m.cycleRestarts.Add(float64(restarts))
}

// IncUpstream counts a call to an external service; outcome is "hit", "miss" or "error".
func (m *Metrics) IncUpstream(service, outcome string) {
	m.upstreamCalls.WithLabelValues(service, outcome).Inc()
}

func (m *Metrics) observeRequest(method string, code int, dur time.Duration) {
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(dur.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
