package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
)

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrTripNotFound   = errors.New("trip not found")
)

// Port: a boundary for storing planned trips and the drivers they belong to.
type TripRepository interface {
	// Persist a planned trip and return it with ID and CreatedAt populated.
	CreateTrip(ctx context.Context, trip *domain.Trip) (*domain.Trip, error)
	// Retrieve all trips, oldest first.
	ListTrips(ctx context.Context) ([]*domain.Trip, error)
	GetTrip(ctx context.Context, id int64) (*domain.Trip, error)
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
}
