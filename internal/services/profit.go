package services

import (
	"market-route-service/internal/domain"
)

// ScoreCandidate computes the cost and profit breakdown for selling at one
// market. quantity must be > 0; callers validate it before reaching here.
// The rate is the resolved transport cost per km.
func ScoreCandidate(
	dr domain.DistanceResult,
	quantity float64,
	ratePerKm float64,
	handling domain.HandlingCharges,
) domain.ProfitResult {
	price := dr.Candidate.PricePerUnit
	revenue := price * quantity

	transport := dr.DistanceKm * ratePerKm

	loading := handling.Loading * quantity
	unloading := handling.Unloading * quantity
	commission := handling.Commission * quantity
	handlingCost := handling.PerUnit() * quantity

	totalCost := transport + handlingCost
	netProfit := revenue - totalCost

	var pct float64
	if revenue != 0 {
		pct = netProfit / revenue * 100
	}

	return domain.ProfitResult{
		Candidate:        dr.Candidate,
		Index:            dr.Index,
		OutOfRange:       dr.OutOfRange,
		DistanceKm:       roundTo(dr.DistanceKm, 1),
		DistanceMethod:   dr.Method,
		Quantity:         quantity,
		RatePerKm:        ratePerKm,
		Price:            price,
		Revenue:          roundTo(revenue, 0),
		TransportCost:    roundTo(transport, 0),
		HandlingCost:     roundTo(handlingCost, 0),
		TotalCost:        roundTo(totalCost, 0),
		NetProfit:        roundTo(netProfit, 0),
		ProfitPerUnit:    roundTo(netProfit/quantity, 0),
		ProfitPercentage: roundTo(pct, 1),
		Breakdown: domain.CostBreakdown{
			Loading:    loading,
			Unloading:  unloading,
			Commission: commission,
			Transport:  transport,
		},
	}
}

// ScoreAll scores every distance result with the same quantity and rate.
func ScoreAll(
	results []domain.DistanceResult,
	quantity float64,
	ratePerKm float64,
	handling domain.HandlingCharges,
) []domain.ProfitResult {
	out := make([]domain.ProfitResult, 0, len(results))
	for _, r := range results {
		out = append(out, ScoreCandidate(r, quantity, ratePerKm, handling))
	}
	return out
}

// BreakEvenDistance is the extra distance at which a better price stops
// paying for its transport: (distantPrice-localPrice)*quantity/rate,
// rounded to one decimal. A non-positive rate yields 0.
func BreakEvenDistance(localPrice, distantPrice, ratePerKm, quantity float64) float64 {
	if ratePerKm <= 0 {
		return 0
	}
	return roundTo((distantPrice-localPrice)*quantity/ratePerKm, 1)
}
