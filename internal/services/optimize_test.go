package services

import (
	"context"
	"errors"
	"market-route-service/internal/adapters/prices"
	"market-route-service/internal/domain"
	"testing"
	"time"
)

type recordingHistory struct {
	commodity string
	quotes    []domain.Candidate
	err       error
}

func (h *recordingHistory) RecordQuotes(_ context.Context, commodity string, quotes []domain.Candidate) error {
	h.commodity = commodity
	h.quotes = quotes
	return h.err
}

type staticQuotes []domain.Candidate

func (s staticQuotes) GetQuotes(context.Context, string, domain.Coordinates) ([]domain.Candidate, error) {
	return s, nil
}

func testEngine() *Engine {
	return &Engine{
		Vehicles:        testVehicles,
		Handling:        testHandling,
		Perishability:   testPerishability,
		Policy:          DefaultPolicy(),
		MaxDistanceKm:   DefaultMaxDistanceKm,
		ProviderTimeout: time.Second,
	}
}

func TestEngineOptimize(t *testing.T) {
	history := &recordingHistory{}
	deps := Dependencies{
		Prices:  prices.NewMockPriceProvider(false),
		History: history,
	}

	req := OptimizeRequest{
		Source:    kolkata,
		Commodity: " Onion ",
		Quantity:  20,
		Vehicle:   domain.StandardRate("truck"),
	}

	res, err := testEngine().Optimize(context.Background(), req, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CandidatesAnalyzed != 3 || res.UsedRangeFallback {
		t.Fatalf("analyzed = %d fallback = %t, want 3 in range", res.CandidatesAnalyzed, res.UsedRangeFallback)
	}
	if res.VehicleRate != 25 || res.MaxDistanceKm != 100 {
		t.Fatalf("rate = %v max = %v", res.VehicleRate, res.MaxDistanceKm)
	}
	if res.DistanceMethods[domain.DistanceHaversine] != 3 {
		t.Fatalf("methods = %v, want 3 haversine", res.DistanceMethods)
	}

	d := res.Decision
	if d.Best.Name != "Howrah Mandi" || d.Best.NetProfit != 24855 {
		t.Fatalf("best = %+v, want Howrah Mandi at 24855", d.Best)
	}
	if d.Local.Name != "Kolkata Mandi" || d.Local.NetProfit != 22200 {
		t.Fatalf("local = %+v, want Kolkata Mandi at 22200", d.Local)
	}
	if d.RecommendationKind != domain.RecommendTravel || !d.Worthiness.Worth {
		t.Fatalf("kind = %q worth = %t", d.RecommendationKind, d.Worthiness.Worth)
	}
	if d.Best.Source != domain.ProvenanceFallback {
		t.Fatalf("best source = %q, want fallback", d.Best.Source)
	}
	if d.Best.DistanceMethod != domain.DistanceHaversine || d.Local.DistanceMethod != domain.DistanceHaversine {
		t.Fatalf("distance methods best = %q local = %q, want haversine", d.Best.DistanceMethod, d.Local.DistanceMethod)
	}

	if history.commodity != "onion" || len(history.quotes) != 3 {
		t.Fatalf("history = %q with %d quotes", history.commodity, len(history.quotes))
	}
}

func TestEngineOptimizeOutOfRangeFallback(t *testing.T) {
	delhi := domain.Coordinates{Lat: 28.6139, Lon: 77.2090}
	req := OptimizeRequest{
		Source:    delhi,
		Commodity: "rice",
		Quantity:  10,
		Vehicle:   domain.CustomRate(10),
	}

	res, err := testEngine().Optimize(context.Background(), req, Dependencies{Prices: prices.NewMockPriceProvider(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.UsedRangeFallback || res.CandidatesAnalyzed != DefaultFallbackCandidates {
		t.Fatalf("fallback = %t analyzed = %d", res.UsedRangeFallback, res.CandidatesAnalyzed)
	}
	if res.VehicleRate != 10 {
		t.Fatalf("rate = %v, want custom 10", res.VehicleRate)
	}
	for _, r := range res.Decision.Ranked {
		if !r.OutOfRange {
			t.Fatalf("%s not tagged out of range", r.Candidate.Name)
		}
	}
}

func TestEngineOptimizeDropsUnusableQuotes(t *testing.T) {
	quotes := staticQuotes{
		market("No Location", 1500, domain.Coordinates{}),
		market("No Price", 0, domain.Coordinates{Lat: 22.6, Lon: 88.4}),
		market("Usable", 1200, domain.Coordinates{Lat: 22.6, Lon: 88.4}),
	}

	res, err := testEngine().Optimize(context.Background(), OptimizeRequest{
		Source:    kolkata,
		Commodity: "onion",
		Quantity:  5,
		Vehicle:   domain.StandardRate("tempo"),
	}, Dependencies{Prices: quotes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CandidatesAnalyzed != 1 || res.Decision.Best.Name != "Usable" {
		t.Fatalf("analyzed = %d best = %q", res.CandidatesAnalyzed, res.Decision.Best.Name)
	}
	if res.Decision.RecommendationKind != domain.RecommendBestIsLocal {
		t.Fatalf("kind = %q", res.Decision.RecommendationKind)
	}
}

func TestEngineOptimizeNoCandidates(t *testing.T) {
	_, err := testEngine().Optimize(context.Background(), OptimizeRequest{
		Source:    kolkata,
		Commodity: "onion",
		Quantity:  5,
		Vehicle:   domain.StandardRate("truck"),
	}, Dependencies{Prices: staticQuotes{}})

	if !errors.Is(err, domain.ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
}

func TestOptimizeRequestValidate(t *testing.T) {
	valid := OptimizeRequest{
		Source:    kolkata,
		Commodity: "onion",
		Quantity:  20,
		Vehicle:   domain.StandardRate("truck"),
	}

	tests := []struct {
		name      string
		mutate    func(r *OptimizeRequest)
		wantField string
	}{
		{"valid", func(r *OptimizeRequest) {}, ""},
		{"short crop", func(r *OptimizeRequest) { r.Commodity = "x" }, "crop"},
		{"quantity too small", func(r *OptimizeRequest) { r.Quantity = 0.05 }, "quantity"},
		{"quantity too large", func(r *OptimizeRequest) { r.Quantity = 1000.5 }, "quantity"},
		{"unknown vehicle", func(r *OptimizeRequest) { r.Vehicle = domain.StandardRate("rocket") }, "vehicle_type"},
		{"custom overrides vehicle", func(r *OptimizeRequest) { r.Vehicle = domain.CustomRate(30) }, ""},
		{"negative custom rate", func(r *OptimizeRequest) { r.Vehicle = domain.CustomRate(-1) }, "custom_vehicle.rate_per_km"},
		{"latitude out of range", func(r *OptimizeRequest) { r.Source.Lat = 91 }, "source.lat"},
		{"longitude out of range", func(r *OptimizeRequest) { r.Source.Lon = -181 }, "source.lng"},
		{"negative max distance", func(r *OptimizeRequest) { r.MaxDistanceKm = -5 }, "max_distance_km"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate(testVehicles)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			var verrs domain.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("err is not ValidationErrors: %T", err)
			}
			found := false
			for _, fe := range verrs {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Fatalf("fields = %+v, want %q", verrs, tt.wantField)
			}
		})
	}
}
