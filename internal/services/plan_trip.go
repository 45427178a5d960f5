package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const metersPerMile = 1609.34

// ErrUpstream marks failures of the geocoding or routing services that are
// not a definitive "not found" answer.
var ErrUpstream = errors.New("upstream service failed")

type PlanTripRequest struct {
	DriverID        int64
	StartAt         time.Time
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleHoursUsed  float64
}

// TripMetrics is the subset of the metrics registry the planner reports to.
type TripMetrics interface {
	IncTripsPlanned()
	IncTripFailure(stage string)
	ObserveSimulation(days, entries, restarts int)
}

type noopMetrics struct{}

func (noopMetrics) IncTripsPlanned()                {}
func (noopMetrics) IncTripFailure(string)           {}
func (noopMetrics) ObserveSimulation(int, int, int) {}

// TripPlanner resolves the three trip stops, routes the two legs, simulates
// the duty log and stores the result.
type TripPlanner struct {
	geocoder  ports.Geocoder
	router    ports.RouteProvider
	repo      ports.TripRepository
	simulator *Simulator
	metrics   TripMetrics
	tracer    trace.Tracer
}

type PlannerOption func(*TripPlanner)

func WithSimulator(s *Simulator) PlannerOption {
	return func(p *TripPlanner) { p.simulator = s }
}

func WithMetrics(m TripMetrics) PlannerOption {
	return func(p *TripPlanner) {
		if m != nil {
			p.metrics = m
		}
	}
}

func WithTracer(t trace.Tracer) PlannerOption {
	return func(p *TripPlanner) { p.tracer = t }
}

func NewTripPlanner(
	geocoder ports.Geocoder,
	router ports.RouteProvider,
	repo ports.TripRepository,
	opts ...PlannerOption,
) *TripPlanner {
	p := &TripPlanner{
		geocoder:  geocoder,
		router:    router,
		repo:      repo,
		simulator: defaultSimulator,
		metrics:   noopMetrics{},
		tracer:    otel.Tracer("trip-planner-service/services"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (req PlanTripRequest) validate() error {
	if req.DriverID <= 0 {
		return fmt.Errorf("driver id %d must be positive: %w", req.DriverID, ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("start datetime is required: %w", ErrInvalidInput)
	}
	for _, f := range []struct{ name, value string }{
		{"current location", req.CurrentLocation},
		{"pickup location", req.PickupLocation},
		{"dropoff location", req.DropoffLocation},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s must be non-empty: %w", f.name, ErrInvalidInput)
		}
	}
	if req.CycleHoursUsed < 0 || math.IsNaN(req.CycleHoursUsed) || math.IsInf(req.CycleHoursUsed, 0) {
		return fmt.Errorf("cycle hours used %v must be a non-negative number: %w", req.CycleHoursUsed, ErrInvalidInput)
	}
	return nil
}

// upstreamErr tags err with ErrUpstream unless it is a definitive answer or
// a cancellation.
func upstreamErr(err error) error {
	switch {
	case errors.Is(err, ports.ErrAddressNotFound),
		errors.Is(err, ports.ErrRouteNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

// PlanTrip plans and persists one trip. Geocoding of the three stops and
// routing of the two legs each run concurrently.
func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanTripRequest) (_ *domain.Trip, err error) {
	ctx, span := p.tracer.Start(ctx, "PlanTrip", trace.WithAttributes(
		attribute.Int64("trip.driver_id", req.DriverID),
		attribute.Float64("trip.cycle_hours_used", req.CycleHoursUsed),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	stage := "validate"
	defer func() {
		if err != nil {
			p.metrics.IncTripFailure(stage)
		}
	}()

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	stage = "geocode"
	addresses := [3]string{req.CurrentLocation, req.PickupLocation, req.DropoffLocation}
	var stops [3]domain.Coordinates

	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range addresses {
		g.Go(func() error {
			c, err := p.geocoder.Geocode(gctx, addr)
			if err != nil {
				return fmt.Errorf("geocode %q: %w", addr, upstreamErr(err))
			}
			stops[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	stage = "route"
	var legs [2]ports.RouteResult

	g, gctx = errgroup.WithContext(ctx)
	for i := range legs {
		g.Go(func() error {
			r, err := p.router.Route(gctx, stops[i], stops[i+1])
			if err != nil {
				return fmt.Errorf("route %q -> %q: %w", addresses[i], addresses[i+1], upstreamErr(err))
			}
			legs[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	summary := summarizeLegs(legs[:])
	span.SetAttributes(
		attribute.Float64("trip.distance_miles", summary.DistanceMiles),
		attribute.Float64("trip.duration_min", summary.DurationMinutes),
	)

	stage = "simulate"
	result, err := p.simulator.Run(req.StartAt, int(math.Round(summary.DurationMinutes)), req.CycleHoursUsed)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	entries := 0
	for _, d := range result.Days {
		entries += len(d.Entries)
	}
	p.metrics.ObserveSimulation(len(result.Days), entries, result.Restarts(p.simulator.Rules().RestartMinutes()))

	stage = "persist"
	trip, err := p.repo.CreateTrip(ctx, &domain.Trip{
		DriverID:        req.DriverID,
		StartAt:         req.StartAt,
		CurrentLocation: strings.TrimSpace(req.CurrentLocation),
		PickupLocation:  strings.TrimSpace(req.PickupLocation),
		DropoffLocation: strings.TrimSpace(req.DropoffLocation),
		CycleHoursUsed:  req.CycleHoursUsed,
		Route:           summary,
		Logs:            result.Days,
	})
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	p.metrics.IncTripsPlanned()
	zerolog.Ctx(ctx).Info().
		Int64("trip_id", trip.ID).
		Int64("driver_id", trip.DriverID).
		Float64("distance_miles", summary.DistanceMiles).
		Float64("duration_min", summary.DurationMinutes).
		Int("days", len(result.Days)).
		Msg("trip planned")

	return trip, nil
}

// summarizeLegs adds up distance and duration across legs and concatenates
// their geometries in order.
func summarizeLegs(legs []ports.RouteResult) domain.RouteSummary {
	var s domain.RouteSummary
	for _, l := range legs {
		s.DistanceMiles += l.DistanceMeters / metersPerMile
		s.DurationMinutes += l.DurationSeconds / 60
		s.Geometry = append(s.Geometry, l.Geometry...)
	}
	if s.Geometry == nil {
		s.Geometry = []domain.Coordinates{}
	}
	return s
}
