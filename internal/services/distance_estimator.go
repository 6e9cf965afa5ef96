package services

import (
	"context"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/metrics"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	earthRadiusKm = 6371.0
	// Straight-line distance is multiplied by this to approximate road distance.
	roadFactor = 1.3

	// DefaultProviderTimeout bounds the single external distance call.
	DefaultProviderTimeout = 5 * time.Second

	// Concurrent per-destination lookups when the provider has no matrix endpoint.
	maxParallelLookups = 5
)

// HaversineRoadKm returns the great-circle distance between two points
// multiplied by the road factor, rounded to 2 decimals.
func HaversineRoadKm(from, to domain.Coordinates) float64 {
	dLat := toRad(to.Lat - from.Lat)
	dLon := toRad(to.Lon - from.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(from.Lat))*math.Cos(toRad(to.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return roundTo(earthRadiusKm*c*roadFactor, 2)
}

// EstimateDistances annotates every candidate with a travel distance, in
// input order.
//
// The provider is asked once for the whole batch when it supports matrix
// lookups. Any candidate the provider cannot answer for (global failure,
// timeout, or a missing element) falls back to HaversineRoadKm. It never
// returns an error; the Method field records which path was taken.
// A nil provider means geometric distances only.
func EstimateDistances(
	ctx context.Context,
	source domain.Coordinates,
	candidates []domain.Candidate,
	provider ports.DistanceProvider,
	timeout time.Duration,
) []domain.DistanceResult {
	defer obs.Time(ctx, "services.EstimateDistances")(nil)

	out := make([]domain.DistanceResult, len(candidates))
	for i, c := range candidates {
		out[i] = domain.DistanceResult{
			Candidate:  c,
			Index:      i,
			DistanceKm: HaversineRoadKm(source, c.Location),
			Method:     domain.DistanceHaversine,
		}
	}

	if provider == nil || len(candidates) == 0 {
		countMethods(out)
		return out
	}

	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	road := lookupRoadDistances(ctx, source, candidates, provider)
	for i, r := range road {
		if r == nil {
			continue
		}
		out[i].DistanceKm = float64(r.DistanceMeters) / 1000
		out[i].Method = domain.DistanceRoad
	}

	countMethods(out)
	return out
}

// lookupRoadDistances returns one entry per candidate; nil marks a
// candidate that needs the geometric fallback.
func lookupRoadDistances(
	ctx context.Context,
	source domain.Coordinates,
	candidates []domain.Candidate,
	provider ports.DistanceProvider,
) []*ports.DistanceResult {
	out := make([]*ports.DistanceResult, len(candidates))

	// Prefer a single origin->many lookup when supported to reduce external API calls.
	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		dests := make([]domain.Coordinates, 0, len(candidates))
		for _, c := range candidates {
			dests = append(dests, c.Location)
		}

		results, err := mp.GetDistances(ctx, source, dests)
		if err != nil {
			obs.Logf(ctx, "distance provider degraded, using haversine fallback: %v", err)
			return out
		}

		for i, c := range candidates {
			if r, ok := results[c.Location.Key()]; ok && r.DistanceMeters >= 0 {
				out[i] = &r
			}
		}
		return out
	}

	var (
		mu     sync.Mutex
		failed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for i, c := range candidates {
		g.Go(func() error {
			r, err := provider.GetDistance(gctx, source, c.Location)
			if err != nil || r.DistanceMeters < 0 {
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			out[i] = &r
			return nil
		})
	}
	_ = g.Wait()

	if failed > 0 {
		obs.Logf(ctx, "distance provider degraded for %d/%d destinations, using haversine fallback", failed, len(candidates))
	}
	return out
}

func countMethods(results []domain.DistanceResult) {
	for _, r := range results {
		metrics.DistanceLookups.WithLabelValues(string(r.Method)).Inc()
	}
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

// roundTo rounds half up, so -2.5 becomes -2.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(v*p+0.5) / p
}
