package ports

import (
	"context"
	"market-route-service/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations, keyed by
	// Coordinates.Key(). A destination missing from the map failed
	// individually; a non-nil error means the whole batch failed.
	GetDistances(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) (map[string]DistanceResult, error)
}

// Persistent origin->destination cache used by road distance providers.
// Keys are Coordinates.Key() strings.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
