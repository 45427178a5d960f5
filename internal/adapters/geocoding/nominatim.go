package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"trip-planner-service/internal/adapters/upstream"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder resolves addresses with the OpenStreetMap Nominatim
// search API. Nominatim's usage policy allows one request per second, so
// the client is rate limited.
type NominatimGeocoder struct {
	client  *upstream.Client
	baseURL string
}

func NewNominatimGeocoder(baseURL string, rps float64, opts ...upstream.Option) *NominatimGeocoder {
	opts = append([]upstream.Option{
		upstream.WithHeader("User-Agent", "truck-planner"),
		upstream.WithRateLimit(rps),
	}, opts...)

	return &NominatimGeocoder{
		client:  upstream.NewClient(opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, errors.New("nominatim geocode: address must be non-empty")
	}

	endpoint := g.baseURL + "/search"
	resp, err := g.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", address)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", address, ports.ErrAddressNotFound)
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode: parse lon %q: %w", results[0].Lon, err)
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode: parse lat %q: %w", results[0].Lat, err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
