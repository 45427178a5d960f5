package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
)

// ErrRouteNotFound is returned when the router finds no drivable path.
var ErrRouteNotFound = errors.New("route not found")

// Distance, travel duration and path geometry of a single route leg.
type RouteResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []domain.Coordinates
}

// Contract for retrieving a driving route between two points.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination domain.Coordinates) (RouteResult, error)
}

// Cache of route legs keyed by origin and destination coordinates.
// Get reports found=false on a miss.
type RouteCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) (RouteResult, bool, error)
	Put(ctx context.Context, origin, destination domain.Coordinates, r RouteResult) error
}
