package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache keeps route legs in Redis with a per-entry TTL.
type RedisRouteCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisRouteCache(client redis.Cmdable, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl, prefix: "route:"}
}

func (c *RedisRouteCache) key(origin, destination domain.Coordinates) string {
	return c.prefix + origin.String() + ";" + destination.String()
}

func (c *RedisRouteCache) Get(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.redis.Get")(&err)

	raw, err := c.client.Get(ctx, c.key(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("redis route cache get: %w", err)
	}

	var rec routeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("redis route cache decode: %w", err)
	}

	r, err := rec.result()
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("redis route cache: %w", err)
	}
	return r, true, nil
}

func (c *RedisRouteCache) Put(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	r ports.RouteResult,
) (err error) {
	defer obs.Time(ctx, "route.redis.Put")(&err)

	raw, err := json.Marshal(toRecord(r))
	if err != nil {
		return fmt.Errorf("redis route cache encode: %w", err)
	}

	if err := c.client.Set(ctx, c.key(origin, destination), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis route cache set: %w", err)
	}
	return nil
}
