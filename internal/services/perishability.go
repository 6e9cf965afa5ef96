package services

import (
	"fmt"
	"market-route-service/internal/domain"
	"math"
	"strings"
)

const (
	// Each decay step covers this many km beyond the safe distance.
	decayStepKm = 50.0
	// Spoilage never exceeds this percentage.
	maxSpoilagePercentage = 50.0

	highRiskPercentage   = 15.0
	mediumRiskPercentage = 5.0
)

// AssessSpoilage estimates spoilage for moving a commodity distanceKm and
// the resulting loss against netProfit.
//
// Within the commodity's safe distance there is no spoilage. Beyond it the
// loss grows linearly by DecayRate per 50 km of excess, capped at 50%.
// This is a commodity-class risk signal, not a physical decay model.
func AssessSpoilage(
	table domain.PerishabilityTable,
	commodity string,
	distanceKm float64,
	netProfit float64,
) domain.SpoilageAssessment {
	rating := table.Rating(commodity)

	if distanceKm <= rating.SafeDistanceKm {
		a := domain.SpoilageAssessment{
			OriginalProfit: netProfit,
			AdjustedProfit: netProfit,
			RiskLevel:      domain.RiskLow,
			IsSafe:         true,
		}
		a.Warning = PerishabilityWarning(commodity, distanceKm, rating, a)
		return a
	}

	excess := distanceKm - rating.SafeDistanceKm
	multiplier := math.Floor(excess / decayStepKm)
	fractional := math.Mod(excess, decayStepKm) / decayStepKm
	pct := math.Min(rating.DecayRate*100*(multiplier+fractional), maxSpoilagePercentage)

	amount := netProfit * pct / 100

	risk := domain.RiskLow
	switch {
	case pct >= highRiskPercentage:
		risk = domain.RiskHigh
	case pct >= mediumRiskPercentage:
		risk = domain.RiskMedium
	}

	a := domain.SpoilageAssessment{
		SpoilagePercentage: roundTo(pct, 1),
		SpoilageAmount:     roundTo(amount, 0),
		OriginalProfit:     netProfit,
		AdjustedProfit:     roundTo(netProfit-amount, 0),
		ExcessDistanceKm:   roundTo(excess, 0),
		RiskLevel:          risk,
		IsSafe:             false,
	}
	a.Warning = PerishabilityWarning(commodity, distanceKm, rating, a)
	return a
}

// PerishabilityWarning turns an assessment into a user-facing warning.
func PerishabilityWarning(
	commodity string,
	distanceKm float64,
	rating domain.PerishabilityRating,
	a domain.SpoilageAssessment,
) domain.PerishabilityWarning {
	name := titleCase(commodity)
	dist := formatKm(distanceKm)

	if a.IsSafe {
		return domain.PerishabilityWarning{
			HasWarning:     false,
			Severity:       domain.SeverityNone,
			Message:        fmt.Sprintf("%s is safe to transport at %skm", name, dist),
			Recommendation: "No special precautions needed.",
		}
	}

	w := domain.PerishabilityWarning{
		HasWarning: true,
		Details: &domain.WarningDetails{
			Commodity:          commodity,
			DistanceKm:         distanceKm,
			SafeDistanceKm:     rating.SafeDistanceKm,
			ExcessDistanceKm:   a.ExcessDistanceKm,
			PerishabilityLevel: rating.Level,
			ShelfLife:          rating.ShelfLife,
		},
	}

	loss := fmt.Sprintf("Expected %s%% spoilage (loss of %s)", formatKm(a.SpoilagePercentage), formatMoney(a.SpoilageAmount))
	switch a.RiskLevel {
	case domain.RiskHigh:
		w.Severity = domain.SeverityHigh
		w.Message = fmt.Sprintf("HIGH SPOILAGE RISK: %s may spoil at %skm distance", name, dist)
		w.Recommendation = loss + ". Consider selling locally or using refrigerated transport."
	case domain.RiskMedium:
		w.Severity = domain.SeverityMedium
		w.Message = fmt.Sprintf("MODERATE SPOILAGE RISK: %s at %skm is beyond its safe range", name, dist)
		w.Recommendation = loss + ". Transport quickly to minimize losses."
	default:
		w.Severity = domain.SeverityLow
		w.Message = fmt.Sprintf("Minor spoilage risk for %s at %skm", strings.ToLower(name), dist)
		w.Recommendation = fmt.Sprintf("Expected %s%% spoilage. Acceptable loss for better prices.", formatKm(a.SpoilagePercentage))
	}

	return w
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatKm prints up to one decimal without a trailing ".0".
func formatKm(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

func formatMoney(v float64) string {
	return fmt.Sprintf("Rs %.0f", v)
}
