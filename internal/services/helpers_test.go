package services

import (
	"market-route-service/internal/domain"
	"math"
)

var (
	testVehicles = domain.VehicleRates{
		"tractor":    12,
		"tata-ace":   18,
		"truck":      25,
		"mini-truck": 20,
		"tempo":      15,
	}

	testHandling = domain.HandlingCharges{Loading: 20, Unloading: 20, Commission: 50}

	testPerishability = domain.PerishabilityTable{
		"tomato":  {Level: domain.RiskHigh, SafeDistanceKm: 50, DecayRate: 0.20, ShelfLife: "3-7 days"},
		"onion":   {Level: domain.RiskMedium, SafeDistanceKm: 150, DecayRate: 0.10, ShelfLife: "1-2 months"},
		"rice":    {Level: domain.RiskLow, SafeDistanceKm: 300, DecayRate: 0.02, ShelfLife: "6-12 months"},
		"default": {Level: domain.RiskMedium, SafeDistanceKm: 100, DecayRate: 0.12, ShelfLife: "1-2 weeks"},
	}

	kolkata = domain.Coordinates{Lat: 22.5726, Lon: 88.3639}
)

func market(name string, price float64, loc domain.Coordinates) domain.Candidate {
	return domain.Candidate{Name: name, Location: loc, PricePerUnit: price, Source: domain.ProvenanceFallback}
}

// atDistance builds a distance result without going through the estimator.
func atDistance(index int, name string, price, km float64) domain.DistanceResult {
	return domain.DistanceResult{
		Candidate:  domain.Candidate{Name: name, PricePerUnit: price, Source: domain.ProvenanceFallback},
		Index:      index,
		DistanceKm: km,
		Method:     domain.DistanceHaversine,
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
