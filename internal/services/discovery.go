package services

import (
	"cmp"
	"fmt"
	"market-route-service/internal/domain"
	"slices"
)

// DefaultFallbackCandidates is how many of the closest markets are used when
// none lie within the maximum distance.
const DefaultFallbackCandidates = 5

// SelectInRange keeps the results within maxKm, preserving input order.
//
// When nothing is in range, the fallbackN closest results are used instead
// (ties keep input order), each tagged OutOfRange with its distance unchanged.
// The returned bool reports whether that fallback was taken. An empty input
// is the only failure and yields ErrNoCandidates.
func SelectInRange(
	results []domain.DistanceResult,
	maxKm float64,
	fallbackN int,
) ([]domain.DistanceResult, bool, error) {
	if len(results) == 0 {
		return nil, false, fmt.Errorf("select in range: %w", domain.ErrNoCandidates)
	}

	inRange := make([]domain.DistanceResult, 0, len(results))
	for _, r := range results {
		if r.DistanceKm <= maxKm {
			inRange = append(inRange, r)
		}
	}
	if len(inRange) > 0 {
		return inRange, false, nil
	}

	if fallbackN <= 0 {
		fallbackN = DefaultFallbackCandidates
	}

	closest := slices.Clone(results)
	slices.SortStableFunc(closest, func(a, b domain.DistanceResult) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
	if len(closest) > fallbackN {
		closest = closest[:fallbackN]
	}

	for i := range closest {
		closest[i].OutOfRange = true
	}

	return closest, true, nil
}
