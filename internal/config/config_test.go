package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("TP_STRING", "  value ")
	t.Setenv("TP_INT", "42")
	t.Setenv("TP_BAD_INT", "forty")
	t.Setenv("TP_FLOAT", "0.5")
	t.Setenv("TP_DURATION", "90s")

	assert.Equal(t, "value", Get("TP_STRING", "x"))
	assert.Equal(t, "x", Get("TP_MISSING", "x"))
	assert.Equal(t, 42, GetInt("TP_INT", 1))
	assert.Equal(t, 1, GetInt("TP_BAD_INT", 1))
	assert.InDelta(t, 0.5, GetFloat("TP_FLOAT", 1), 1e-9)
	assert.Equal(t, 90*time.Second, GetDuration("TP_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("TP_MISSING", time.Minute))
}

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "GEOCODER", "ROUTER", "REDIS_ADDR", "OTEL_EXPORTER"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "nominatim", cfg.Geocoder)
	assert.Equal(t, "osrm", cfg.Router)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "none", cfg.OTelExporter)
	assert.Equal(t, 24*time.Hour, cfg.RouteCacheTTL)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TP_FROM_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TP_FROM_DOTENV") })

	require.NoError(t, Load(path))
	assert.Equal(t, "loaded", Get("TP_FROM_DOTENV", ""))
	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.env")))
}
