package services

import (
	"cmp"
	"errors"
	"fmt"
	"market-route-service/internal/domain"
	"slices"
	"strings"
)

// Default policy thresholds.
const (
	DefaultStrongTravelProfit = 500.0
	DefaultWorthProfitPerKm   = 50.0
)

// DefaultPolicy returns the stock decision thresholds.
func DefaultPolicy() domain.DecisionPolicy {
	return domain.DecisionPolicy{
		StrongTravelProfit: DefaultStrongTravelProfit,
		WorthProfitPerKm:   DefaultWorthProfitPerKm,
		FallbackCandidates: DefaultFallbackCandidates,
	}
}

// Decide ranks scored candidates by net profit and explains the choice
// between the most profitable market and the nearest one.
//
// Ranking is a stable sort on NetProfit descending, so equal profits keep
// input order. The local market is the minimum-distance result of the
// unsorted input (first wins on ties). When commodity is non-empty the
// spoilage risk of both markets is folded in.
func Decide(
	results []domain.ProfitResult,
	commodity string,
	perish domain.PerishabilityTable,
	policy domain.DecisionPolicy,
) (*domain.Decision, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("decide: %w", domain.ErrNoCandidates)
	}

	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b domain.ProfitResult) int {
		return cmp.Compare(b.NetProfit, a.NetProfit)
	})

	best := ranked[0]
	worst := ranked[len(ranked)-1]
	local := nearest(results)

	isLocalBest := local.Index == best.Index
	extraVsLocal := best.NetProfit - local.NetProfit

	worth, err := worthiness(best, local, policy)
	if err != nil {
		return nil, fmt.Errorf("decide: %w", err)
	}

	kind, text := recommend(best, local, extraVsLocal, policy)

	localSummary := local.Summary()
	d := &domain.Decision{
		Best:               best.Summary(),
		Local:              &localSummary,
		ExtraProfitVsLocal: extraVsLocal,
		ExtraProfitVsWorst: best.NetProfit - worst.NetProfit,
		IsLocalBest:        isLocalBest,
		Worthiness:         worth,
		RecommendationKind: kind,
		Recommendation:     text,
		Ranked:             ranked,
	}

	if strings.TrimSpace(commodity) != "" {
		bestRisk := AssessSpoilage(perish, commodity, best.DistanceKm, best.NetProfit)
		localRisk := AssessSpoilage(perish, commodity, local.DistanceKm, local.NetProfit)
		d.Perishability = &domain.PerishabilityAnalysis{
			Best:  bestRisk,
			Local: &localRisk,
			ShouldConsiderLocal: bestRisk.RiskLevel == domain.RiskHigh &&
				localRisk.RiskLevel != domain.RiskHigh,
		}
	}

	return d, nil
}

// TopOptions returns the first n entries of a ranking.
func TopOptions(ranked []domain.ProfitResult, n int) []domain.ProfitResult {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return slices.Clone(ranked[:n])
}

func nearest(results []domain.ProfitResult) domain.ProfitResult {
	local := results[0]
	for _, r := range results[1:] {
		if r.DistanceKm < local.DistanceKm {
			local = r
		}
	}
	return local
}

var errDegenerateDistance = errors.New("best market is nearer than the nearest market")

func worthiness(best, local domain.ProfitResult, policy domain.DecisionPolicy) (domain.Worthiness, error) {
	if best.Index == local.Index {
		return domain.Worthiness{
			Worth:  true,
			Reason: "Best option is also the nearest",
		}, nil
	}

	extraDistance := best.DistanceKm - local.DistanceKm
	extraProfit := best.NetProfit - local.NetProfit

	w := domain.Worthiness{
		ExtraDistanceKm:     roundTo(extraDistance, 1),
		ExtraProfit:         roundTo(extraProfit, 0),
		BreakEvenDistanceKm: BreakEvenDistance(local.Price, best.Price, best.RatePerKm, best.Quantity),
	}

	switch {
	case extraDistance < 0:
		return domain.Worthiness{}, errDegenerateDistance
	case extraDistance == 0:
		// Same distance, different market: only reachable with extraProfit > 0,
		// since equal profit at equal distance resolves to the same index.
		w.Worth = extraProfit > 0
		if w.Worth {
			w.Reason = "Same distance as the nearest market with higher profit"
		} else {
			w.Reason = "Same distance as the nearest market with no extra profit"
		}
		return w, nil
	}

	perKm := extraProfit / extraDistance
	w.ProfitPerExtraKm = roundTo(perKm, 0)
	w.Worth = perKm >= policy.WorthProfitPerKm
	if w.Worth {
		w.Reason = fmt.Sprintf("Gain of %s/km justifies extra distance", formatMoney(perKm))
	} else {
		w.Reason = "Extra distance may not justify the profit gain"
	}
	return w, nil
}

func recommend(
	best, local domain.ProfitResult,
	extraProfit float64,
	policy domain.DecisionPolicy,
) (domain.RecommendationKind, string) {
	switch {
	case best.Index == local.Index:
		return domain.RecommendBestIsLocal, fmt.Sprintf(
			"Your best option is %s, which is also the nearest market. Go ahead with confidence!",
			best.Candidate.Name,
		)
	case extraProfit > policy.StrongTravelProfit:
		return domain.RecommendTravel, fmt.Sprintf(
			"Travel to %s! You'll earn %s more than your local market at %s.",
			best.Candidate.Name, formatMoney(extraProfit), local.Candidate.Name,
		)
	case extraProfit > 0:
		return domain.RecommendMarginal, fmt.Sprintf(
			"%s offers slightly better profit (%s more), but %s is closer. Consider fuel and time costs.",
			best.Candidate.Name, formatMoney(extraProfit), local.Candidate.Name,
		)
	default:
		return domain.RecommendStayLocal, fmt.Sprintf(
			"Stick with %s - it's closer and offers the best profit!",
			local.Candidate.Name,
		)
	}
}
