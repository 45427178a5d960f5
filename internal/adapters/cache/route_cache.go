package cache

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

// SQLRouteCache stores route legs keyed by "lon,lat" endpoint strings.
// Entries older than TTL are treated as misses; TTL <= 0 keeps them forever.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect db.Dialect
	TTL     time.Duration

	now func() time.Time
}

func NewSQLRouteCache(conn *sql.DB, dialect db.Dialect, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, Dialect: dialect, TTL: ttl, now: time.Now}
}

// routeRecord is the stored and serialized form of a route leg.
type routeRecord struct {
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Geometry        [][]float64 `json:"geometry"`
}

func toRecord(r ports.RouteResult) routeRecord {
	geometry := make([][]float64, 0, len(r.Geometry))
	for _, c := range r.Geometry {
		geometry = append(geometry, c.CoordsToList())
	}
	return routeRecord{DistanceMeters: r.DistanceMeters, DurationSeconds: r.DurationSeconds, Geometry: geometry}
}

func (rec routeRecord) result() (ports.RouteResult, error) {
	geometry := make([]domain.Coordinates, 0, len(rec.Geometry))
	for i, p := range rec.Geometry {
		if len(p) != 2 {
			return ports.RouteResult{}, fmt.Errorf("geometry point %d has %d values", i, len(p))
		}
		geometry = append(geometry, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}
	return ports.RouteResult{
		DistanceMeters:  rec.DistanceMeters,
		DurationSeconds: rec.DurationSeconds,
		Geometry:        geometry,
	}, nil
}

func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	var (
		meters, seconds float64
		geometryJSON    string
		createdAt       int64
	)
	err = s.DB.QueryRowContext(ctx, s.Dialect.Rebind(`
	SELECT distance_meters, duration_seconds, geometry, created_at
	FROM route_cache
	WHERE origin = ? AND destination = ?;
	`), origin.String(), destination.String()).Scan(&meters, &seconds, &geometryJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(time.Unix(createdAt, 0)) > s.TTL {
		return ports.RouteResult{}, false, nil
	}

	rec := routeRecord{DistanceMeters: meters, DurationSeconds: seconds}
	if err := json.Unmarshal([]byte(geometryJSON), &rec.Geometry); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode geometry: %w", err)
	}

	r, err := rec.result()
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: %w", err)
	}
	return r, true, nil
}

func (s *SQLRouteCache) Put(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	r ports.RouteResult,
) (err error) {
	defer obs.Time(ctx, "route.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	geometryJSON, err := json.Marshal(toRecord(r).Geometry)
	if err != nil {
		return fmt.Errorf("insert route cache: encode geometry: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, s.Dialect.Rebind(`
	INSERT INTO route_cache (origin, destination, distance_meters, duration_seconds, geometry, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds,
		geometry = excluded.geometry,
		created_at = excluded.created_at;
	`), origin.String(), destination.String(), r.DistanceMeters, r.DurationSeconds, string(geometryJSON), s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", origin, destination, err)
	}

	return nil
}
