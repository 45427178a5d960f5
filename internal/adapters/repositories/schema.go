package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"trip-planner-service/internal/platform/db"
)

func schemaStatements(dialect db.Dialect) []string {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	floatType := "REAL"
	timeType := "TIMESTAMP"
	if dialect == db.Postgres {
		idColumn = "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
		floatType = "DOUBLE PRECISION"
		timeType = "TIMESTAMPTZ"
	}

	createDriversQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS drivers (
		id %s,
		name TEXT NOT NULL,
		driver_number TEXT UNIQUE
	);
	`, idColumn)

	createTripsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS trips (
		id %s,
		driver_id BIGINT NOT NULL REFERENCES drivers(id) ON DELETE CASCADE,
		start_datetime %s NOT NULL,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		cycle_hours_used %s NOT NULL,
		full_geometry TEXT,
		result TEXT,
		created_at %s NOT NULL
	);
	`, idColumn, timeType, floatType, timeType)

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon %[1]s NOT NULL,
		lat %[1]s NOT NULL
	);
	`, floatType)

	createRouteCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS route_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters %[1]s NOT NULL,
		duration_seconds %[1]s NOT NULL,
		geometry TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`, floatType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_driver_id
	ON trips(driver_id);
	`

	return []string{
		createDriversQuery,
		createTripsQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}
}

// InitSchema creates the trip planner tables for the given dialect.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements(dialect) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DriverSeed struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DriverNumber string `json:"driver_number"`
}

// SeedDriversFromJSON upserts drivers from a JSON array file.
func SeedDriversFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed drivers: read %q: %w", jsonPath, err)
	}

	var data []DriverSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed drivers: parse json: %w", err)
	}

	rows := make([]DriverSeed, 0, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return 0, fmt.Errorf("seed drivers: invalid id at index %d: %d", i+1, item.ID)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return 0, fmt.Errorf("seed drivers: item at index %d: name cannot be empty", i+1)
		}
		rows = append(rows, DriverSeed{ID: item.ID, Name: name, DriverNumber: strings.TrimSpace(item.DriverNumber)})
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed drivers: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO drivers (id, name, driver_number)
	VALUES (?, ?, ?)
	ON CONFLICT (id) DO UPDATE
	SET name = excluded.name,
		driver_number = excluded.driver_number;
	`))
	if err != nil {
		return 0, fmt.Errorf("seed drivers: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		var number any
		if d.DriverNumber != "" {
			number = d.DriverNumber
		}
		if _, err := stmt.ExecContext(ctx, d.ID, d.Name, number); err != nil {
			return 0, fmt.Errorf("seed drivers: insert id=%d: %w", d.ID, err)
		}
	}

	if dialect == db.Postgres {
		// Explicit ids do not advance the identity sequence.
		if _, err := tx.ExecContext(ctx,
			`SELECT setval(pg_get_serial_sequence('drivers', 'id'), (SELECT COALESCE(MAX(id), 1) FROM drivers))`,
		); err != nil {
			return 0, fmt.Errorf("seed drivers: sync id sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed drivers: commit tx: %w", err)
	}

	return len(rows), nil
}
