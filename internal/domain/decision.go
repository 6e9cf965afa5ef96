package domain

// ProfitResult is the cost/revenue breakdown for one candidate.
// Monetary fields are rounded to whole currency units, DistanceKm to one
// decimal and ProfitPercentage to one decimal.
type ProfitResult struct {
	Candidate        Candidate
	Index            int
	OutOfRange       bool
	DistanceKm       float64
	DistanceMethod   DistanceMethod
	Quantity         float64
	RatePerKm        float64
	Price            float64
	Revenue          float64
	TransportCost    float64
	HandlingCost     float64
	TotalCost        float64
	NetProfit        float64
	ProfitPerUnit    float64
	ProfitPercentage float64
	Breakdown        CostBreakdown
}

// CostBreakdown keeps the unrounded cost components.
type CostBreakdown struct {
	Loading    float64
	Unloading  float64
	Commission float64
	Transport  float64
}

// DecisionPolicy holds the fixed thresholds of the decision engine.
type DecisionPolicy struct {
	// Extra profit over the local market above which travelling is strongly recommended.
	StrongTravelProfit float64 `yaml:"strong_travel_profit"`
	// Minimum extra profit per extra km for the farther market to be worth it.
	WorthProfitPerKm float64 `yaml:"worth_profit_per_km"`
	// Number of closest candidates used when none are within range.
	FallbackCandidates int `yaml:"fallback_candidates"`
}

// MarketSummary is the short form of a ProfitResult used in a Decision.
type MarketSummary struct {
	Name             string
	NetProfit        float64
	DistanceKm       float64
	Price            float64
	ProfitPerUnit    float64
	ProfitPercentage float64
	Source           Provenance
	DistanceMethod   DistanceMethod
	OutOfRange       bool
}

// Worthiness is the verdict of the profit-per-extra-km test.
type Worthiness struct {
	Worth               bool
	ProfitPerExtraKm    float64
	ExtraDistanceKm     float64
	ExtraProfit         float64
	BreakEvenDistanceKm float64
	Reason              string
}

// RecommendationKind names the rung of the recommendation ladder that fired.
type RecommendationKind string

const (
	RecommendBestIsLocal RecommendationKind = "best_is_local"
	RecommendTravel      RecommendationKind = "travel"
	RecommendMarginal    RecommendationKind = "marginal"
	RecommendStayLocal   RecommendationKind = "stay_local"
)

// PerishabilityAnalysis folds spoilage risk into the decision.
type PerishabilityAnalysis struct {
	Best                SpoilageAssessment
	Local               *SpoilageAssessment
	ShouldConsiderLocal bool
}

// Decision is the terminal result of one run. It is built once and never
// mutated afterwards.
type Decision struct {
	Best               MarketSummary
	Local              *MarketSummary
	ExtraProfitVsLocal float64
	ExtraProfitVsWorst float64
	IsLocalBest        bool
	Worthiness         Worthiness
	RecommendationKind RecommendationKind
	Recommendation     string
	Perishability      *PerishabilityAnalysis
	Ranked             []ProfitResult
}

// Summary converts a ProfitResult to its summary form.
func (p ProfitResult) Summary() MarketSummary {
	return MarketSummary{
		Name:             p.Candidate.Name,
		NetProfit:        p.NetProfit,
		DistanceKm:       p.DistanceKm,
		Price:            p.Price,
		ProfitPerUnit:    p.ProfitPerUnit,
		ProfitPercentage: p.ProfitPercentage,
		Source:           p.Candidate.Source,
		DistanceMethod:   p.DistanceMethod,
		OutOfRange:       p.OutOfRange,
	}
}
