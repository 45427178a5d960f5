package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/geocoding"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/platform/sqlite"
	"trip-planner-service/internal/platform/telemetry"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 15 * time.Second

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, Nominatim/OSRM or ORS) behind ports
// and starts the HTTP server.
func main() {
	envErr := config.Load()
	cfg := config.FromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:  "trip-planner-service",
		Exporter:     cfg.OTelExporter,
		Endpoint:     cfg.OTelEndpoint,
		SamplingRate: cfg.OTelSamplingRate,
	})
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	conn, err := openDB(dialect, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed drivers on startup for local runs.
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	if cfg.SeedPath != "" {
		n, err := repositories.SeedDriversFromJSON(ctx, conn, dialect, cfg.SeedPath)
		if err != nil {
			return err
		}
		log.Info().Int("drivers", n).Str("path", cfg.SeedPath).Msg("drivers seeded")
	}

	m := metrics.New()

	geocoder, err := newGeocoder(cfg)
	if err != nil {
		return err
	}
	router, err := newRouteProvider(cfg)
	if err != nil {
		return err
	}

	routeCache, closeCache, err := newRouteCache(ctx, cfg, conn, dialect)
	if err != nil {
		return err
	}
	defer closeCache()

	repo := repositories.NewSQLTripRepository(conn, dialect)
	planner := services.NewTripPlanner(
		geocoding.NewCachedGeocoder(geocoder, cache.NewSQLGeocodeCache(conn, dialect), m),
		routing.NewCachedRouteProvider(router, routeCache, m),
		repo,
		services.WithMetrics(m),
		services.WithTracer(telemetry.Tracer()),
	)

	handler := api.NewRouter(api.Deps{
		Planner:      planner,
		Repo:         repo,
		Metrics:      m,
		Logger:       log,
		RateLimitRPM: cfg.RateLimitPerMinute,
	})

	// Timeouts are tuned for cold-cache planning (three geocodes, two routes).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("db", string(dialect)).
			Str("geocoder", cfg.Geocoder).Str("router", cfg.Router).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDB(dialect db.Dialect, cfg config.Config) (*sql.DB, error) {
	if dialect == db.Postgres {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		return db.Open(cfg.DatabaseURL)
	}
	return sqlite.Open(cfg.DBPath)
}

func newGeocoder(cfg config.Config) (ports.Geocoder, error) {
	switch cfg.Geocoder {
	case "nominatim":
		return geocoding.NewNominatimGeocoder(cfg.NominatimBaseURL, cfg.NominatimRPS), nil
	case "ors":
		return geocoding.NewORSGeocoder(cfg.ORSAPIKey, "")
	}
	return nil, fmt.Errorf("unknown GEOCODER %q (supported: nominatim, ors)", cfg.Geocoder)
}

func newRouteProvider(cfg config.Config) (ports.RouteProvider, error) {
	switch cfg.Router {
	case "osrm":
		return routing.NewOSRMRouteProvider(cfg.OSRMBaseURL), nil
	case "ors":
		return routing.NewORSRouteProvider(cfg.ORSAPIKey, "")
	}
	return nil, fmt.Errorf("unknown ROUTER %q (supported: osrm, ors)", cfg.Router)
}

// newRouteCache prefers Redis when REDIS_ADDR is set and falls back to the
// route_cache table.
func newRouteCache(ctx context.Context, cfg config.Config, conn *sql.DB, dialect db.Dialect) (ports.RouteCache, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewSQLRouteCache(conn, dialect, cfg.RouteCacheTTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	return cache.NewRedisRouteCache(client, cfg.RouteCacheTTL), func() { _ = client.Close() }, nil
}
