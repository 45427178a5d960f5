package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/upstream"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "chicago, il", NormalizeAddress("  Chicago,   IL "))
	assert.Equal(t, "caf\u00e9 du monde", NormalizeAddress("CAFE\u0301 du  Monde"))
	assert.Equal(t, "", NormalizeAddress(" \t\n"))
}

func TestNominatimGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "truck-planner", r.Header.Get("User-Agent"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		switch r.URL.Query().Get("q") {
		case "Chicago, IL":
			_, _ = w.Write([]byte(`[{"lat":"41.8755616","lon":"-87.6244212","display_name":"Chicago"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL+"/", 0)

	c, err := g.Geocode(context.Background(), " Chicago, IL ")
	require.NoError(t, err)
	assert.InDelta(t, -87.6244212, c.Lon, 1e-9)
	assert.InDelta(t, 41.8755616, c.Lat, 1e-9)

	_, err = g.Geocode(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ports.ErrAddressNotFound)

	_, err = g.Geocode(context.Background(), "  ")
	assert.Error(t, err)
}

func TestNominatimGeocodeMalformedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-87.6"}]`))
	}))
	defer srv.Close()

	_, err := NewNominatimGeocoder(srv.URL, 0).Geocode(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse lat")
}

func TestNominatimGeocodeUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewNominatimGeocoder(srv.URL, 0, upstream.WithBackoff(time.Millisecond)).
		Geocode(context.Background(), "Chicago")

	var he *upstream.HTTPStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestORSGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))
		if r.URL.Query().Get("text") == "Denver" {
			_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-104.99,39.74]}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	_, err := NewORSGeocoder("", srv.URL)
	require.Error(t, err)

	g, err := NewORSGeocoder("secret", srv.URL)
	require.NoError(t, err)

	c, err := g.Geocode(context.Background(), "Denver")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: -104.99, Lat: 39.74}, c)

	_, err = g.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ports.ErrAddressNotFound)
}

type memGeocodeCache struct {
	mu      sync.Mutex
	m       map[string]domain.Coordinates
	failPut bool
}

func (c *memGeocodeCache) GetMany(_ context.Context, addrs []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, a := range addrs {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, items map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failPut {
		return errors.New("disk full")
	}
	for k, v := range items {
		c.m[k] = v
	}
	return nil
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) IncUpstream(service, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[service+"/"+outcome]++
}

func TestCachedGeocoderHitsCacheAfterFirstLookup(t *testing.T) {
	mock := NewMockGeocoder(map[string]domain.Coordinates{
		"Dallas, TX": {Lon: -96.8, Lat: 32.78},
	})
	cache := &memGeocodeCache{m: map[string]domain.Coordinates{}}
	rec := &countingRecorder{counts: map[string]int{}}
	g := NewCachedGeocoder(mock, cache, rec)

	for _, addr := range []string{"Dallas, TX", "dallas,  tx", " DALLAS, TX"} {
		c, err := g.Geocode(context.Background(), addr)
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinates{Lon: -96.8, Lat: 32.78}, c)
	}

	assert.Equal(t, 1, mock.Calls())
	assert.Equal(t, 1, rec.counts["geocode/miss"])
	assert.Equal(t, 2, rec.counts["geocode/hit"])
	assert.Contains(t, cache.m, "dallas, tx")
}

func TestCachedGeocoderPropagatesNotFound(t *testing.T) {
	rec := &countingRecorder{counts: map[string]int{}}
	g := NewCachedGeocoder(NewMockGeocoder(nil), &memGeocodeCache{m: map[string]domain.Coordinates{}}, rec)

	_, err := g.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ports.ErrAddressNotFound)
	assert.Equal(t, 1, rec.counts["geocode/error"])

	_, err = g.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}

func TestCachedGeocoderToleratesCacheWriteFailure(t *testing.T) {
	mock := NewMockGeocoder(map[string]domain.Coordinates{"Reno": {Lon: -119.8, Lat: 39.5}})
	g := NewCachedGeocoder(mock, &memGeocodeCache{m: map[string]domain.Coordinates{}, failPut: true}, nil)

	c, err := g.Geocode(context.Background(), "Reno")
	require.NoError(t, err)
	assert.Equal(t, -119.8, c.Lon)
}

type slowGeocoder struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	s.calls.Add(1)
	<-s.release
	return domain.Coordinates{Lon: 1, Lat: 2}, nil
}

func TestCachedGeocoderCollapsesConcurrentMisses(t *testing.T) {
	slow := &slowGeocoder{release: make(chan struct{})}
	g := NewCachedGeocoder(slow, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := g.Geocode(context.Background(), "Boise")
			assert.NoError(t, err)
			assert.Equal(t, domain.Coordinates{Lon: 1, Lat: 2}, c)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(slow.release)
	wg.Wait()

	assert.Equal(t, int32(1), slow.calls.Load())
}
