package geocoding

import (
	"context"
	"errors"
	"fmt"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// UpstreamRecorder receives cache hit/miss/error counts. *metrics.Metrics
// satisfies it.
type UpstreamRecorder interface {
	IncUpstream(service, outcome string)
}

// CachedGeocoder fronts a Geocoder with a persistent cache. Concurrent misses
// for the same address share one upstream call.
type CachedGeocoder struct {
	next     ports.Geocoder
	cache    ports.GeocodeCache
	recorder UpstreamRecorder
	group    singleflight.Group
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache, recorder UpstreamRecorder) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, recorder: recorder}
}

func (c *CachedGeocoder) record(outcome string) {
	if c.recorder != nil {
		c.recorder.IncUpstream("geocode", outcome)
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := NormalizeAddress(address)
	if key == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	if c.cache != nil {
		hits, err := c.cache.GetMany(ctx, []string{key})
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("address", key).Msg("geocode cache read failed")
		} else if coord, ok := hits[key]; ok {
			c.record("hit")
			return coord, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.next.Geocode(ctx, key)
	})
	if err != nil {
		c.record("error")
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", key, err)
	}
	c.record("miss")

	coord := v.(domain.Coordinates)
	if c.cache != nil {
		if err := c.cache.PutMany(ctx, map[string]domain.Coordinates{key: coord}); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("address", key).Msg("geocode cache write failed")
		}
	}

	return coord, nil
}
