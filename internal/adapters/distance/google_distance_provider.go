package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"net/http"
	"strings"
	"time"
)

const defaultGoogleMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleDistanceProvider implements DistanceMatrixProvider using the Google
// Distance Matrix API. Elements whose status is not OK are left out of the
// result; a non-OK top-level status fails the whole batch.
type GoogleDistanceProvider struct {
	client        *apiClient
	apiKey        string
	baseURL       string
	distanceCache ports.DistanceCache
}

func NewGoogleDistanceProvider(
	apiKey string,
	baseURL string,
	distanceCache ports.DistanceCache,
	ratePerSecond float64,
) (*GoogleDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultGoogleMatrixURL
	}

	return &GoogleDistanceProvider{
		client:        newAPIClient(10*time.Second, ratePerSecond),
		apiKey:        apiKey,
		baseURL:       baseURL,
		distanceCache: distanceCache,
	}, nil
}

func (g *GoogleDistanceProvider) GetDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.DistanceResult, error) {
	results, err := g.GetDistances(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get distances %s -> %s: %w", origin.Key(), destination.Key(), err)
	}

	result, ok := results[destination.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %s -> %s", origin.Key(), destination.Key())
	}
	return result, nil
}

func (g *GoogleDistanceProvider) GetDistances(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "google.GetDistances")(&err)

	return cachedMatrix(ctx, g.distanceCache, origin, destinations, g.fetchMatrixRow)
}

func (g *GoogleDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (map[string]ports.DistanceResult, error) {
	req, err := g.client.newRequest(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		return nil, err
	}

	dests := make([]string, 0, len(destinations))
	for _, d := range destinations {
		dests = append(dests, latLng(d))
	}

	q := req.URL.Query()
	q.Set("origins", latLng(origin))
	q.Set("destinations", strings.Join(dests, "|"))
	q.Set("key", g.apiKey)
	q.Set("mode", "driving")
	q.Set("units", "metric")
	req.URL.RawQuery = q.Encode()

	resp, err := g.client.do(req)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr googleMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if mr.Status != "OK" {
		return nil, fmt.Errorf("google maps api status %s: %s", mr.Status, mr.ErrorMessage)
	}
	if len(mr.Rows) != 1 || len(mr.Rows[0].Elements) != len(destinations) {
		return nil, fmt.Errorf("unexpected matrix shape: rows=%d destinations=%d", len(mr.Rows), len(destinations))
	}

	out := make(map[string]ports.DistanceResult, len(destinations))
	for i, el := range mr.Rows[0].Elements {
		if el.Status != "OK" {
			continue
		}
		out[destinations[i].Key()] = ports.DistanceResult{
			DistanceMeters:  el.Distance.Value,
			DurationSeconds: el.Duration.Value,
		}
	}
	return out, nil
}

func latLng(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
