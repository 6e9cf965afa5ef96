package services

import (
	"context"
	"errors"
	"fmt"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/metrics"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"math"
	"strings"
	"time"
)

const (
	// DefaultMaxDistanceKm is the in-range limit when the request sets none.
	DefaultMaxDistanceKm = 100.0

	maxQuantity = 1000.0
	minQuantity = 0.1
)

// Engine bundles the read-only tables the decision pipeline runs against.
// It is built once at startup and shared by all requests.
type Engine struct {
	Vehicles        domain.VehicleRates
	Handling        domain.HandlingCharges
	Perishability   domain.PerishabilityTable
	Policy          domain.DecisionPolicy
	MaxDistanceKm   float64
	ProviderTimeout time.Duration
}

// Dependencies are the external collaborators of one optimization run.
// Distances and History may be nil.
type Dependencies struct {
	Prices    ports.PriceQuoteProvider
	Distances ports.DistanceProvider
	History   ports.PriceHistoryRecorder
}

type OptimizeRequest struct {
	Source        domain.Coordinates
	Commodity     string
	Quantity      float64
	Vehicle       domain.RateSource
	MaxDistanceKm float64
}

type OptimizeResult struct {
	Decision           *domain.Decision
	CandidatesAnalyzed int
	UsedRangeFallback  bool
	VehicleRate        float64
	MaxDistanceKm      float64
	DistanceMethods    map[domain.DistanceMethod]int
}

// Validate rejects requests the engine cannot evaluate.
func (r OptimizeRequest) Validate(vehicles domain.VehicleRates) error {
	var errs domain.ValidationErrors

	var srcErrs domain.ValidationErrors
	if errors.As(r.Source.Validate(), &srcErrs) {
		errs = append(errs, srcErrs...)
	}

	c := strings.TrimSpace(r.Commodity)
	if len(c) < 2 || len(c) > 50 {
		errs = append(errs, domain.FieldError{Field: "crop", Message: "crop name must be between 2 and 50 characters"})
	}

	if math.IsNaN(r.Quantity) || r.Quantity < minQuantity || r.Quantity > maxQuantity {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "quantity must be between 0.1 and 1000"})
	}

	if r.Vehicle.IsCustom() {
		if rate := r.Vehicle.PerKm(vehicles); math.IsNaN(rate) || rate <= 0 {
			errs = append(errs, domain.FieldError{Field: "custom_vehicle.rate_per_km", Message: "custom rate must be positive"})
		}
	} else if !vehicles.Has(r.Vehicle.Vehicle()) {
		errs = append(errs, domain.FieldError{
			Field:   "vehicle_type",
			Message: "invalid vehicle type, must be one of: " + strings.Join(vehicles.Types(), ", "),
		})
	}

	if r.MaxDistanceKm < 0 || math.IsNaN(r.MaxDistanceKm) {
		errs = append(errs, domain.FieldError{Field: "max_distance_km", Message: "max distance must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Optimize runs the full pipeline: quotes, distances, range filter,
// scoring and the decision.
func (e *Engine) Optimize(
	ctx context.Context,
	req OptimizeRequest,
	deps Dependencies,
) (_ *OptimizeResult, err error) {
	defer obs.Time(ctx, "services.Optimize")(&err)

	if err := req.Validate(e.Vehicles); err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	commodity := strings.ToLower(strings.TrimSpace(req.Commodity))

	maxKm := req.MaxDistanceKm
	if maxKm == 0 {
		maxKm = e.MaxDistanceKm
	}
	if maxKm <= 0 {
		maxKm = DefaultMaxDistanceKm
	}

	candidates := e.fetchCandidates(ctx, commodity, req.Source, deps.Prices)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("optimize: no markets quote %q: %w", commodity, domain.ErrNoCandidates)
	}

	distances := EstimateDistances(ctx, req.Source, candidates, deps.Distances, e.ProviderTimeout)

	selected, usedFallback, err := SelectInRange(distances, maxKm, e.Policy.FallbackCandidates)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	if usedFallback {
		obs.Logf(ctx, "no markets within %.0fkm, falling back to %d closest", maxKm, len(selected))
	}

	rate := req.Vehicle.PerKm(e.Vehicles)
	scored := ScoreAll(selected, req.Quantity, rate, e.Handling)

	decision, err := Decide(scored, commodity, e.Perishability, e.Policy)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	metrics.Decisions.WithLabelValues(string(decision.RecommendationKind)).Inc()

	if deps.History != nil {
		used := make([]domain.Candidate, 0, len(selected))
		for _, s := range selected {
			used = append(used, s.Candidate)
		}
		if err := deps.History.RecordQuotes(ctx, commodity, used); err != nil {
			obs.Logf(ctx, "price history write failed: %v", err)
		}
	}

	methods := make(map[domain.DistanceMethod]int, 2)
	for _, s := range selected {
		methods[s.Method]++
	}

	return &OptimizeResult{
		Decision:           decision,
		CandidatesAnalyzed: len(scored),
		UsedRangeFallback:  usedFallback,
		VehicleRate:        rate,
		MaxDistanceKm:      maxKm,
		DistanceMethods:    methods,
	}, nil
}

// fetchCandidates asks the price provider for quotes and drops entries the
// engine cannot score. Provider failures are logged and yield no candidates.
func (e *Engine) fetchCandidates(
	ctx context.Context,
	commodity string,
	source domain.Coordinates,
	prices ports.PriceQuoteProvider,
) []domain.Candidate {
	if prices == nil {
		return nil
	}

	quotes, err := prices.GetQuotes(ctx, commodity, source)
	if err != nil {
		obs.Logf(ctx, "price provider failed commodity=%s: %v", commodity, err)
		return nil
	}

	out := make([]domain.Candidate, 0, len(quotes))
	for _, q := range quotes {
		if q.Location.IsZero() || q.Location.Validate() != nil {
			continue
		}
		if math.IsNaN(q.PricePerUnit) || q.PricePerUnit <= 0 {
			continue
		}
		metrics.PriceQuotes.WithLabelValues(string(q.Source)).Inc()
		out = append(out, q)
	}
	return out
}
