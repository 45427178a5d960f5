package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// SQL-backed implementation of the TripRepository port. Works against both
// SQLite and Postgres; queries are written with ? and rebound per dialect.
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect db.Dialect

	now func() time.Time
}

func NewSQLTripRepository(conn *sql.DB, dialect db.Dialect) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, Dialect: dialect, now: time.Now}
}

const tripColumns = `
	id,
	driver_id,
	start_datetime,
	current_location,
	pickup_location,
	dropoff_location,
	cycle_hours_used,
	result,
	created_at
`

func (s *SQLTripRepository) CreateTrip(ctx context.Context, trip *domain.Trip) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.CreateTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return nil, errors.New("create trip: trip is nil")
	}

	result, err := json.Marshal(toResultRecord(trip))
	if err != nil {
		return nil, fmt.Errorf("create trip: encode result: %w", err)
	}
	geometry, err := json.Marshal(toGeometryRecord(trip.Route.Geometry))
	if err != nil {
		return nil, fmt.Errorf("create trip: encode geometry: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create trip: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	err = tx.QueryRowContext(ctx, s.Dialect.Rebind(`SELECT 1 FROM drivers WHERE id = ?`), trip.DriverID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("create trip: driver %d: %w", trip.DriverID, ports.ErrDriverNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("create trip: lookup driver: %w", err)
	}

	created := *trip
	created.CreatedAt = s.now().UTC()

	query := s.Dialect.Rebind(`
	INSERT INTO trips (
		driver_id,
		start_datetime,
		current_location,
		pickup_location,
		dropoff_location,
		cycle_hours_used,
		full_geometry,
		result,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)
	err = tx.QueryRowContext(ctx, query,
		trip.DriverID,
		trip.StartAt,
		trip.CurrentLocation,
		trip.PickupLocation,
		trip.DropoffLocation,
		trip.CycleHoursUsed,
		string(geometry),
		string(result),
		created.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create trip: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create trip: commit tx: %w", err)
	}

	return &created, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		t      domain.Trip
		result sql.NullString
	)
	if err := row.Scan(
		&t.ID,
		&t.DriverID,
		&t.StartAt,
		&t.CurrentLocation,
		&t.PickupLocation,
		&t.DropoffLocation,
		&t.CycleHoursUsed,
		&result,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}

	if result.Valid && result.String != "" {
		var rec resultRecord
		if err := json.Unmarshal([]byte(result.String), &rec); err != nil {
			return nil, fmt.Errorf("trip %d: decode result: %w", t.ID, err)
		}
		if err := rec.apply(&t); err != nil {
			return nil, fmt.Errorf("trip %d: %w", t.ID, err)
		}
	}

	return &t, nil
}

// Return all trips, oldest first.
func (s *SQLTripRepository) ListTrips(ctx context.Context) (_ []*domain.Trip, err error) {
	defer obs.Time(ctx, "trips.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, 16)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

func (s *SQLTripRepository) GetTrip(ctx context.Context, id int64) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`SELECT `+tripColumns+` FROM trips WHERE id = ?;`), id)
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get trip %d: %w", id, ports.ErrTripNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %d: %w", id, err)
	}

	return t, nil
}

func (s *SQLTripRepository) ListDrivers(ctx context.Context) (_ []*domain.Driver, err error) {
	defer obs.Time(ctx, "trips.ListDrivers")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		id,
		name,
		driver_number
	FROM drivers
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list drivers: query drivers table: %w", err)
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0, 16)
	for rows.Next() {
		var d domain.Driver
		var number sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &number); err != nil {
			return nil, fmt.Errorf("list drivers: scan row: %w", err)
		}
		d.DriverNumber = number.String
		drivers = append(drivers, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: row iteration: %w", err)
	}

	return drivers, nil
}
