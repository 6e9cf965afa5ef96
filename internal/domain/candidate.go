package domain

import "time"

// Provenance tells whether a value came from a live provider or from the
// deterministic local fallback.
type Provenance string

const (
	ProvenanceLive     Provenance = "live"
	ProvenanceFallback Provenance = "fallback"
)

// Candidate is a market under evaluation for a single decision run.
// State and District are display only.
type Candidate struct {
	Name         string
	State        string
	District     string
	Location     Coordinates
	PricePerUnit float64
	Source       Provenance
	UpdatedAt    time.Time
}

// DistanceMethod records how a distance was obtained.
type DistanceMethod string

const (
	DistanceRoad      DistanceMethod = "road"
	DistanceHaversine DistanceMethod = "haversine"
)

// DistanceResult annotates a candidate with its estimated travel distance.
// Index is the candidate's position in the original input and is the
// tie-breaker everywhere ordering matters.
type DistanceResult struct {
	Candidate  Candidate
	Index      int
	DistanceKm float64
	Method     DistanceMethod

	// Set when the candidate only entered the run through the closest-N
	// fallback. DistanceKm is still the true distance.
	OutOfRange bool
}
