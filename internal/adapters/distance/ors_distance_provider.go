package distance

import (
	"context"
	"errors"
	"fmt"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"strings"
	"time"
)

// ORSDistanceProvider implements DistanceMatrixProvider using OpenRouteService.
//
// It coordinates:
//   - Persistent distance caching (optional)
//   - A single matrix call for all cache misses
//
// Cells the matrix returns as null are left out of the result so callers
// can fall back for those destinations only. The provider is safe for
// concurrent use.
type ORSDistanceProvider struct {
	client        *apiClient
	apiKey        string
	baseURL       string
	profile       string
	distanceCache ports.DistanceCache
}

type ORSOption func(*ORSDistanceProvider)

// WithORSBaseURL points the provider at another ORS deployment.
func WithORSBaseURL(u string) ORSOption {
	return func(o *ORSDistanceProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithORSRateLimit caps outbound requests per second.
func WithORSRateLimit(perSecond float64) ORSOption {
	return func(o *ORSDistanceProvider) { o.client = newAPIClient(10*time.Second, perSecond) }
}

func NewORSDistanceProvider(
	apiKey string,
	distanceCache ports.DistanceCache,
	opts ...ORSOption,
) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		client:        newAPIClient(10*time.Second, 0),
		apiKey:        apiKey,
		baseURL:       "https://api.openrouteservice.org",
		profile:       "driving-car",
		distanceCache: distanceCache,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// Delegate to batched path to reuse caching and matrix logic.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.DistanceResult, error) {
	results, err := o.GetDistances(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distances %s -> %s: %w",
			origin.Key(), destination.Key(), err,
		)
	}

	result, ok := results[destination.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %s -> %s", origin.Key(), destination.Key())
	}

	return result, nil
}

// Compute distances from a single origin to many destinations.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	return cachedMatrix(ctx, o.distanceCache, origin, destinations, o.fetchMatrixRow)
}

// matrixFetcher returns distances for the given destinations keyed by
// Coordinates.Key(), omitting destinations that failed individually.
type matrixFetcher func(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (map[string]ports.DistanceResult, error)

// cachedMatrix deduplicates destinations, serves what it can from the cache
// and fetches the misses in one call.
func cachedMatrix(
	ctx context.Context,
	distanceCache ports.DistanceCache,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
	fetch matrixFetcher,
) (map[string]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	originKey := origin.Key()

	seen := make(map[string]struct{}, len(destinations))
	destKeys := make([]string, 0, len(destinations))
	destByKey := make(map[string]domain.Coordinates, len(destinations))
	for _, d := range destinations {
		k := d.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		destKeys = append(destKeys, k)
		destByKey[k] = d
	}

	hits := make(map[string]ports.DistanceResult)
	// Check persistent distance cache before issuing external API calls.
	if distanceCache != nil {
		cached, err := distanceCache.GetMany(ctx, originKey, destKeys)
		if err != nil {
			obs.Logf(ctx, "distance cache read failed: %v", err)
		} else {
			hits = cached
		}
	}

	misses := make([]domain.Coordinates, 0, len(destKeys))
	for _, k := range destKeys {
		if _, ok := hits[k]; !ok {
			misses = append(misses, destByKey[k])
		}
	}

	if len(misses) == 0 {
		return hits, nil
	}

	fetched, err := fetch(ctx, origin, misses)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	if distanceCache != nil && len(fetched) > 0 {
		if err := distanceCache.PutMany(ctx, originKey, fetched); err != nil {
			obs.Logf(ctx, "distance cache write failed: %v", err)
		}
	}

	out := make(map[string]ports.DistanceResult, len(hits)+len(fetched))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}

	return out, nil
}
