// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads .env files into the process environment. A missing file is
// reported as an error that callers may ignore to fall back to real env vars.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// Get returns the value of key, or fallback if unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt returns key parsed as an int, or fallback if unset or malformed.
func GetInt(key string, fallback int) int {
	if v := Get(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v := Get(key, ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// GetDuration accepts Go duration strings such as "30s" or "24h".
func GetDuration(key string, fallback time.Duration) time.Duration {
	if v := Get(key, ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// Config is the full set of server settings.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	DBDriver    string // "sqlite" or "postgres"
	DBPath      string
	DatabaseURL string
	SeedPath    string

	Geocoder         string // "nominatim" or "ors"
	Router           string // "osrm" or "ors"
	ORSAPIKey        string
	OSRMBaseURL      string
	NominatimBaseURL string
	NominatimRPS     float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RouteCacheTTL time.Duration

	RateLimitPerMinute int

	OTelExporter     string // "none", "http" or "grpc"
	OTelEndpoint     string
	OTelSamplingRate float64
}

// FromEnv builds a Config from the environment with local-run defaults.
func FromEnv() Config {
	return Config{
		Port:      Get("PORT", "8080"),
		LogLevel:  Get("LOG_LEVEL", "info"),
		LogFormat: Get("LOG_FORMAT", "json"),

		DBDriver:    strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/drivers.json"),

		Geocoder:         strings.ToLower(Get("GEOCODER", "nominatim")),
		Router:           strings.ToLower(Get("ROUTER", "osrm")),
		ORSAPIKey:        Get("ORS_API_KEY", ""),
		OSRMBaseURL:      Get("OSRM_BASE_URL", "http://router.project-osrm.org"),
		NominatimBaseURL: Get("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimRPS:     GetFloat("NOMINATIM_RPS", 1),

		RedisAddr:     Get("REDIS_ADDR", ""),
		RedisPassword: Get("REDIS_PASSWORD", ""),
		RedisDB:       GetInt("REDIS_DB", 0),
		RouteCacheTTL: GetDuration("ROUTE_CACHE_TTL", 24*time.Hour),

		RateLimitPerMinute: GetInt("RATE_LIMIT_PER_MIN", 30),

		OTelExporter:     strings.ToLower(Get("OTEL_EXPORTER", "none")),
		OTelEndpoint:     Get("OTEL_ENDPOINT", "localhost:4318"),
		OTelSamplingRate: GetFloat("OTEL_SAMPLING_RATE", 1),
	}
}
