package domain

import "time"

// Driver operating a trip.
type Driver struct {
	ID           int64
	Name         string
	DriverNumber string
}

// RouteSummary aggregates the two route legs of a trip
// (current -> pickup, pickup -> dropoff).
type RouteSummary struct {
	DistanceMiles   float64
	DurationMinutes float64
	Geometry        []Coordinates
}

// Trip is a planned trip together with its computed route and duty logs.
// It is written once when planned and read back for listings.
type Trip struct {
	ID              int64
	DriverID        int64
	StartAt         time.Time
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleHoursUsed  float64
	Route           RouteSummary
	Logs            []DutyDay
	CreatedAt       time.Time
}
