package geocoding

import (
	"context"
	"fmt"
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MockGeocoder resolves addresses from a fixed table, keyed by normalized
// address. It counts calls so tests can assert cache behavior.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinates
	calls int
}

func NewMockGeocoder(table map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(table))
	for k, v := range table {
		m[NormalizeAddress(k)] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	c, ok := g.m[NormalizeAddress(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", address, ports.ErrAddressNotFound)
	}
	return c, nil
}

func (g *MockGeocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
