package routing

import (
	"context"
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// UpstreamRecorder receives cache hit/miss/error counts.
type UpstreamRecorder interface {
	IncUpstream(service, outcome string)
}

// CachedRouteProvider checks a RouteCache before calling the wrapped
// provider. Cache failures are logged and never fail the request.
type CachedRouteProvider struct {
	next     ports.RouteProvider
	cache    ports.RouteCache
	recorder UpstreamRecorder
	group    singleflight.Group
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.RouteCache, recorder UpstreamRecorder) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache, recorder: recorder}
}

func (c *CachedRouteProvider) record(outcome string) {
	if c.recorder != nil {
		c.recorder.IncUpstream("route", outcome)
	}
}

func (c *CachedRouteProvider) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.RouteResult, error) {
	if c.cache != nil {
		r, ok, err := c.cache.Get(ctx, origin, destination)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("route cache read failed")
		} else if ok {
			c.record("hit")
			return r, nil
		}
	}

	key := origin.String() + ";" + destination.String()
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.next.Route(ctx, origin, destination)
	})
	if err != nil {
		c.record("error")
		return ports.RouteResult{}, fmt.Errorf("route %s: %w", key, err)
	}
	c.record("miss")

	r := v.(ports.RouteResult)
	if c.cache != nil {
		if err := c.cache.Put(ctx, origin, destination, r); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("route cache write failed")
		}
	}

	return r, nil
}
