package ports

import (
	"context"
	"market-route-service/internal/domain"
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving road distance and duration between two points.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two points.
	GetDistance(ctx context.Context, origin, destination domain.Coordinates) (DistanceResult, error)
}
