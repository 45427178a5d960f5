package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"trip-planner-service/internal/adapters/upstream"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// OSRMRouteProvider fetches driving routes from an OSRM server with full
// GeoJSON geometry.
type OSRMRouteProvider struct {
	client  *upstream.Client
	baseURL string
}

func NewOSRMRouteProvider(baseURL string, opts ...upstream.Option) *OSRMRouteProvider {
	return &OSRMRouteProvider{
		client:  upstream.NewClient(opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (o *OSRMRouteProvider) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	endpoint := fmt.Sprintf("%s/route/v1/driving/%s;%s", o.baseURL, origin, destination)
	resp, err := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("OSRM route %s -> %s: %w", origin, destination, err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode OSRM response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return ports.RouteResult{}, fmt.Errorf(
			"OSRM route %s -> %s: code %q %s: %w",
			origin, destination, decoded.Code, decoded.Message, ports.ErrRouteNotFound,
		)
	}

	r := decoded.Routes[0]
	geometry, err := toCoordinates(r.Geometry.Coordinates)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("OSRM route geometry: %w", err)
	}

	return ports.RouteResult{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        geometry,
	}, nil
}

func toCoordinates(raw [][]float64) ([]domain.Coordinates, error) {
	out := make([]domain.Coordinates, 0, len(raw))
	for i, p := range raw {
		if len(p) < 2 {
			return nil, fmt.Errorf("point %d has %d values", i, len(p))
		}
		out = append(out, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}
	return out, nil
}
