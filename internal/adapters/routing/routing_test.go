package routing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chicago = domain.Coordinates{Lon: -87.6298, Lat: 41.8781}
	denver  = domain.Coordinates{Lon: -104.9903, Lat: 39.7392}
)

func TestOSRMRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/v1/driving/-87.629800,41.878100;-104.990300,39.739200", r.URL.Path)
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":1609340,"duration":54000,
			"geometry":{"type":"LineString","coordinates":[[-87.6298,41.8781],[-95.0,40.5],[-104.9903,39.7392]]}}]}`))
	}))
	defer srv.Close()

	r, err := NewOSRMRouteProvider(srv.URL+"/").Route(context.Background(), chicago, denver)
	require.NoError(t, err)
	assert.Equal(t, 1609340.0, r.DistanceMeters)
	assert.Equal(t, 54000.0, r.DurationSeconds)
	require.Len(t, r.Geometry, 3)
	assert.Equal(t, chicago, r.Geometry[0])
	assert.Equal(t, denver, r.Geometry[2])
}

func TestOSRMNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points","routes":[]}`))
	}))
	defer srv.Close()

	_, err := NewOSRMRouteProvider(srv.URL).Route(context.Background(), chicago, denver)
	assert.ErrorIs(t, err, ports.ErrRouteNotFound)
}

func TestOSRMMalformedGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":1,"duration":1,"geometry":{"coordinates":[[1]]}}]}`))
	}))
	defer srv.Close()

	_, err := NewOSRMRouteProvider(srv.URL).Route(context.Background(), chicago, denver)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "point 0")
}

func TestORSRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-car/geojson", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("Authorization"))

		var body directionsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{chicago.CoordsToList(), denver.CoordsToList()}, body.Coordinates)

		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[{"properties":{"summary":{"distance":1500000,"duration":50000}},
			"geometry":{"coordinates":[[-87.6298,41.8781],[-104.9903,39.7392]]}}]}`))
	}))
	defer srv.Close()

	_, err := NewORSRouteProvider("", srv.URL)
	require.Error(t, err)

	p, err := NewORSRouteProvider("k", srv.URL)
	require.NoError(t, err)

	r, err := p.Route(context.Background(), chicago, denver)
	require.NoError(t, err)
	assert.Equal(t, 1500000.0, r.DistanceMeters)
	assert.Equal(t, 50000.0, r.DurationSeconds)
	assert.Equal(t, []domain.Coordinates{chicago, denver}, r.Geometry)
}

type memRouteCache struct {
	m       map[string]ports.RouteResult
	failGet bool
}

func (c *memRouteCache) Get(_ context.Context, o, d domain.Coordinates) (ports.RouteResult, bool, error) {
	if c.failGet {
		return ports.RouteResult{}, false, errors.New("connection refused")
	}
	r, ok := c.m[o.String()+d.String()]
	return r, ok, nil
}

func (c *memRouteCache) Put(_ context.Context, o, d domain.Coordinates, r ports.RouteResult) error {
	c.m[o.String()+d.String()] = r
	return nil
}

func TestCachedRouteProvider(t *testing.T) {
	mock := NewMockRouteProvider([]MockLeg{{From: chicago, To: denver, Meters: 1000, Seconds: 60}})
	cache := &memRouteCache{m: map[string]ports.RouteResult{}}
	p := NewCachedRouteProvider(mock, cache, nil)

	for i := 0; i < 3; i++ {
		r, err := p.Route(context.Background(), chicago, denver)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, r.DistanceMeters)
	}
	assert.Equal(t, 1, mock.Calls())

	_, err := p.Route(context.Background(), denver, chicago)
	assert.ErrorIs(t, err, ports.ErrRouteNotFound)
}

func TestCachedRouteProviderFallsThroughOnCacheError(t *testing.T) {
	mock := NewMockRouteProvider([]MockLeg{{From: chicago, To: denver, Meters: 1000, Seconds: 60}})
	p := NewCachedRouteProvider(mock, &memRouteCache{m: map[string]ports.RouteResult{}, failGet: true}, nil)

	for i := 0; i < 2; i++ {
		_, err := p.Route(context.Background(), chicago, denver)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, mock.Calls())
}
