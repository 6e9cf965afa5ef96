package dto

import "time"

type SourceRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type CustomVehicleRequest struct {
	Name      string  `json:"name"`
	RatePerKm float64 `json:"rate_per_km"`
}

type OptimizeRequest struct {
	Crop          string                `json:"crop"`
	Quantity      float64               `json:"quantity"`
	VehicleType   string                `json:"vehicle_type"`
	CustomVehicle *CustomVehicleRequest `json:"custom_vehicle"`
	Source        *SourceRequest        `json:"source"`
	MaxDistanceKm *float64              `json:"max_distance_km"`
}

type QueryResponse struct {
	Crop          string  `json:"crop"`
	Quantity      float64 `json:"quantity"`
	Vehicle       string  `json:"vehicle"`
	VehicleRate   float64 `json:"vehicle_rate_per_km"`
	CustomVehicle bool    `json:"custom_vehicle"`
	SourceLat     float64 `json:"source_lat"`
	SourceLng     float64 `json:"source_lng"`
	MaxDistanceKm float64 `json:"max_distance_km"`
}

type MarketSummaryResponse struct {
	Name             string  `json:"name"`
	NetProfit        float64 `json:"net_profit"`
	DistanceKm       float64 `json:"distance_km"`
	Price            float64 `json:"price"`
	ProfitPerUnit    float64 `json:"profit_per_unit"`
	ProfitPercentage float64 `json:"profit_percentage"`
	Source           string  `json:"source"`
	DistanceMethod   string  `json:"distance_method"`
	OutOfRange       bool    `json:"out_of_range,omitempty"`
}

type WorthinessResponse struct {
	Worth               bool    `json:"worth"`
	ProfitPerExtraKm    float64 `json:"profit_per_extra_km"`
	ExtraDistanceKm     float64 `json:"extra_distance_km"`
	ExtraProfit         float64 `json:"extra_profit"`
	BreakEvenDistanceKm float64 `json:"break_even_distance_km,omitempty"`
	Reason              string  `json:"reason"`
}

type WarningDetailsResponse struct {
	Crop               string  `json:"crop"`
	DistanceKm         float64 `json:"distance_km"`
	SafeDistanceKm     float64 `json:"safe_distance_km"`
	ExcessDistanceKm   float64 `json:"excess_distance_km"`
	PerishabilityLevel string  `json:"perishability_level"`
	ShelfLife          string  `json:"shelf_life"`
}

type WarningResponse struct {
	HasWarning     bool                    `json:"has_warning"`
	Severity       string                  `json:"severity"`
	Message        string                  `json:"message,omitempty"`
	Recommendation string                  `json:"recommendation,omitempty"`
	Details        *WarningDetailsResponse `json:"details,omitempty"`
}

type SpoilageResponse struct {
	SpoilagePercentage float64         `json:"spoilage_percentage"`
	SpoilageAmount     float64         `json:"spoilage_amount"`
	OriginalProfit     float64         `json:"original_profit"`
	AdjustedProfit     float64         `json:"adjusted_profit"`
	ExcessDistanceKm   float64         `json:"excess_distance_km"`
	RiskLevel          string          `json:"risk_level"`
	IsSafe             bool            `json:"is_safe"`
	Warning            WarningResponse `json:"warning"`
}

type PerishabilityResponse struct {
	Best                SpoilageResponse  `json:"best_market"`
	Local               *SpoilageResponse `json:"local_market,omitempty"`
	ShouldConsiderLocal bool              `json:"should_consider_local"`
}

type OptimizationResponse struct {
	BestMarket         MarketSummaryResponse  `json:"best_market"`
	LocalMarket        *MarketSummaryResponse `json:"local_market"`
	ExtraProfitVsLocal float64                `json:"extra_profit_vs_local"`
	ExtraProfitVsWorst float64                `json:"extra_profit_vs_worst"`
	IsLocalBest        bool                   `json:"is_local_best"`
	Worthiness         WorthinessResponse     `json:"worthiness"`
	RecommendationKind string                 `json:"recommendation_kind"`
	Recommendation     string                 `json:"recommendation"`
	Perishability      *PerishabilityResponse `json:"perishability,omitempty"`
}

type CostBreakdownResponse struct {
	Loading    float64 `json:"loading"`
	Unloading  float64 `json:"unloading"`
	Commission float64 `json:"commission"`
	Transport  float64 `json:"transport"`
}

type MarketResultResponse struct {
	Market           string                `json:"market"`
	State            string                `json:"state"`
	District         string                `json:"district"`
	Lat              float64               `json:"lat"`
	Lng              float64               `json:"lng"`
	Source           string                `json:"source"`
	UpdatedAt        *time.Time            `json:"updated_at,omitempty"`
	OutOfRange       bool                  `json:"out_of_range,omitempty"`
	DistanceKm       float64               `json:"distance_km"`
	DistanceMethod   string                `json:"distance_method"`
	Price            float64               `json:"price"`
	Revenue          float64               `json:"revenue"`
	TransportCost    float64               `json:"transport_cost"`
	HandlingCost     float64               `json:"handling_cost"`
	TotalCost        float64               `json:"total_cost"`
	NetProfit        float64               `json:"net_profit"`
	ProfitPerUnit    float64               `json:"profit_per_unit"`
	ProfitPercentage float64               `json:"profit_percentage"`
	Breakdown        CostBreakdownResponse `json:"breakdown"`
}

type MetadataResponse struct {
	CandidatesAnalyzed int            `json:"candidates_analyzed"`
	UsedRangeFallback  bool           `json:"used_range_fallback"`
	DistanceMethods    map[string]int `json:"distance_methods"`
	UsingMockData      bool           `json:"using_mock_data"`
	Timestamp          time.Time      `json:"timestamp"`
}

type OptimizeResponse struct {
	Query        QueryResponse          `json:"query"`
	Optimization OptimizationResponse   `json:"optimization"`
	Results      []MarketResultResponse `json:"results"`
	TopOptions   []MarketResultResponse `json:"top_options"`
	Metadata     MetadataResponse       `json:"metadata"`
}

type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error   string               `json:"error"`
	Details []FieldErrorResponse `json:"details"`
}
