package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
)

// ErrAddressNotFound is returned when a geocoder has no match for an address.
var ErrAddressNotFound = errors.New("address not found")

// Contract for resolving free-text addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent address -> coordinates lookup used in front of a Geocoder.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
