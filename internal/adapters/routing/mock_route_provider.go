package routing

import (
	"context"
	"fmt"
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type MockLeg struct {
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
}

// MockRouteProvider serves fixed legs; the geometry of each leg is the
// straight line between its endpoints.
type MockRouteProvider struct {
	mu    sync.Mutex
	m     map[string]ports.RouteResult
	calls int
}

func NewMockRouteProvider(legs []MockLeg) *MockRouteProvider {
	m := make(map[string]ports.RouteResult, len(legs))
	for _, l := range legs {
		m[l.From.String()+"|"+l.To.String()] = ports.RouteResult{
			DistanceMeters:  l.Meters,
			DurationSeconds: l.Seconds,
			Geometry:        []domain.Coordinates{l.From, l.To},
		}
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Route(ctx context.Context, origin, destination domain.Coordinates) (ports.RouteResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	r, ok := p.m[origin.String()+"|"+destination.String()]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing leg %s -> %s: %w", origin, destination, ports.ErrRouteNotFound)
	}

	return r, nil
}

func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
