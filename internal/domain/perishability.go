package domain

// RiskLevel is the spoilage risk tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DefaultCommodity is the perishability table key used for unknown commodities.
const DefaultCommodity = "default"

// PerishabilityRating describes how quickly a commodity class decays in transit.
// DecayRate is the fraction lost per 50 km beyond SafeDistanceKm.
type PerishabilityRating struct {
	Level          RiskLevel `yaml:"level"`
	SafeDistanceKm float64   `yaml:"safe_distance_km"`
	DecayRate      float64   `yaml:"decay_rate"`
	ShelfLife      string    `yaml:"shelf_life"`
}

// PerishabilityTable maps a normalized commodity name to its rating.
// Loaded once at startup and treated as read-only.
type PerishabilityTable map[string]PerishabilityRating

// Rating looks up a commodity case-insensitively and falls back to the
// default rating.
func (t PerishabilityTable) Rating(commodity string) PerishabilityRating {
	if r, ok := t[normalizeKey(commodity)]; ok {
		return r
	}
	return t[DefaultCommodity]
}

// Severity of a perishability warning.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// WarningDetails carries the inputs a warning was derived from.
type WarningDetails struct {
	Commodity          string
	DistanceKm         float64
	SafeDistanceKm     float64
	ExcessDistanceKm   float64
	PerishabilityLevel RiskLevel
	ShelfLife          string
}

// PerishabilityWarning is the human-facing summary of a SpoilageAssessment.
type PerishabilityWarning struct {
	HasWarning     bool
	Severity       Severity
	Message        string
	Recommendation string
	Details        *WarningDetails
}

// SpoilageAssessment is the risk signal for moving a commodity a given distance.
// It is a linear-piecewise estimate, not a physical spoilage forecast.
type SpoilageAssessment struct {
	SpoilagePercentage float64
	SpoilageAmount     float64
	OriginalProfit     float64
	AdjustedProfit     float64
	ExcessDistanceKm   float64
	RiskLevel          RiskLevel
	IsSafe             bool
	Warning            PerishabilityWarning
}
