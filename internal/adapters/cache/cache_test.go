package cache

import (
	"context"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/sqlite"
	"trip-planner-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	omaha  = domain.Coordinates{Lon: -95.9345, Lat: 41.2565}
	denver = domain.Coordinates{Lon: -104.9903, Lat: 39.7392}

	omahaToDenver = ports.RouteResult{
		DistanceMeters:  870000,
		DurationSeconds: 29500,
		Geometry:        []domain.Coordinates{omaha, {Lon: -100.1, Lat: 40.7}, denver},
	}
)

func openTestDB(t *testing.T) *SQLRouteCache {
	t.Helper()

	conn, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.SQLite))

	return NewSQLRouteCache(conn, db.SQLite, time.Hour)
}

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	routes := openTestDB(t)
	c := NewSQLGeocodeCache(routes.DB, db.SQLite)
	ctx := context.Background()

	hits, err := c.GetMany(ctx, []string{"omaha, ne"})
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"omaha, ne": omaha, "denver, co": denver}))
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"omaha, ne": {Lon: 1, Lat: 2}}))

	hits, err = c.GetMany(ctx, []string{"omaha, ne", " omaha, ne ", "", "denver, co", "boise, id"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{
		"omaha, ne":  {Lon: 1, Lat: 2},
		"denver, co": denver,
	}, hits)

	assert.Error(t, c.PutMany(ctx, map[string]domain.Coordinates{" ": omaha}))
}

func TestSQLGeocodeCacheNilDB(t *testing.T) {
	c := NewSQLGeocodeCache(nil, db.SQLite)
	_, err := c.GetMany(context.Background(), []string{"x"})
	assert.Error(t, err)
}

func TestSQLRouteCacheRoundTrip(t *testing.T) {
	c := openTestDB(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, omaha, denver)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, omaha, denver, omahaToDenver))

	got, ok, err := c.Get(ctx, omaha, denver)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, omahaToDenver, got)

	_, ok, err = c.Get(ctx, denver, omaha)
	require.NoError(t, err)
	assert.False(t, ok, "legs are directional")
}

func TestSQLRouteCacheExpires(t *testing.T) {
	c := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Put(ctx, omaha, denver, omahaToDenver))

	c.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, ok, err := c.Get(ctx, omaha, denver)
	require.NoError(t, err)
	assert.True(t, ok)

	c.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, ok, err = c.Get(ctx, omaha, denver)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisRouteCache(client, 10*time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, omaha, denver)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, omaha, denver, omahaToDenver))
	assert.True(t, mr.Exists("route:"+omaha.String()+";"+denver.String()))

	got, ok, err := c.Get(ctx, omaha, denver)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, omahaToDenver, got)

	mr.FastForward(11 * time.Minute)
	_, ok, err = c.Get(ctx, omaha, denver)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCacheCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("route:"+omaha.String()+";"+denver.String(), "{not json"))

	_, _, err := NewRedisRouteCache(client, time.Minute).Get(context.Background(), omaha, denver)
	assert.Error(t, err)
}
