package services

import (
	"market-route-service/internal/domain"
	"testing"
)

func TestScoreCandidateSingleMarket(t *testing.T) {
	r := ScoreCandidate(atDistance(0, "Kolkata Mandi", 1200, 10), 20, testVehicles.Rate("truck"), testHandling)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"revenue", r.Revenue, 24000},
		{"transport", r.TransportCost, 250},
		{"handling", r.HandlingCost, 1800},
		{"total", r.TotalCost, 2050},
		{"net", r.NetProfit, 21950},
		{"per unit", r.ProfitPerUnit, 1098},
		{"percentage", r.ProfitPercentage, 91.5},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if r.Breakdown.Loading != 400 || r.Breakdown.Unloading != 400 || r.Breakdown.Commission != 1000 {
		t.Errorf("breakdown = %+v", r.Breakdown)
	}
	if r.HandlingCost != testHandling.PerUnit()*20 {
		t.Errorf("handling = %v, want per-unit charge times quantity", r.HandlingCost)
	}
	if r.DistanceMethod != domain.DistanceHaversine || r.Summary().DistanceMethod != domain.DistanceHaversine {
		t.Errorf("distance method = %q, summary %q", r.DistanceMethod, r.Summary().DistanceMethod)
	}
}

func TestScoreCandidateCostDecomposition(t *testing.T) {
	distances := []float64{0, 3.33, 12.71, 47.5, 99.99, 250.04}
	quantities := []float64{0.1, 1.5, 20, 333.3, 1000}
	rates := []float64{12, 18, 25, 7.77}

	for _, d := range distances {
		for _, q := range quantities {
			for _, rate := range rates {
				r := ScoreCandidate(atDistance(0, "M", 1234.5, d), q, rate, testHandling)
				if !almostEqual(r.TotalCost, r.TransportCost+r.HandlingCost, 1) {
					t.Fatalf("d=%v q=%v rate=%v: total %v != transport %v + handling %v",
						d, q, rate, r.TotalCost, r.TransportCost, r.HandlingCost)
				}
				if !almostEqual(r.NetProfit, r.Revenue-r.TotalCost, 1) {
					t.Fatalf("d=%v q=%v rate=%v: net %v != revenue %v - total %v",
						d, q, rate, r.NetProfit, r.Revenue, r.TotalCost)
				}
			}
		}
	}
}

func TestScoreCandidateMonotonicInDistance(t *testing.T) {
	prev := ScoreCandidate(atDistance(0, "M", 1500, 0), 20, 25, testHandling).NetProfit
	for d := 5.0; d <= 400; d += 5 {
		cur := ScoreCandidate(atDistance(0, "M", 1500, d), 20, 25, testHandling).NetProfit
		if cur >= prev {
			t.Fatalf("net profit did not decrease at %vkm: %v >= %v", d, cur, prev)
		}
		prev = cur
	}
}

func TestScoreCandidateZeroPrice(t *testing.T) {
	r := ScoreCandidate(atDistance(0, "M", 0, 10), 20, 25, testHandling)
	if r.ProfitPercentage != 0 {
		t.Fatalf("percentage = %v, want 0 when revenue is 0", r.ProfitPercentage)
	}
	if r.NetProfit != -2050 {
		t.Fatalf("net = %v, want -2050", r.NetProfit)
	}
}

func TestBreakEvenDistance(t *testing.T) {
	tests := []struct {
		name                         string
		local, distant, rate, amount float64
		want                         float64
	}{
		{"better price", 1200, 1450, 25, 20, 200},
		{"fractional", 1000, 1010, 18, 7, 3.9},
		{"worse price", 1450, 1200, 25, 20, -200},
		{"zero rate", 1200, 1450, 0, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BreakEvenDistance(tt.local, tt.distant, tt.rate, tt.amount); got != tt.want {
				t.Fatalf("BreakEvenDistance = %v, want %v", got, tt.want)
			}
		})
	}
}
