package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"market-route-service/internal/api/dto"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/services"
	"net/http"
	"strings"
	"time"
)

// topOptionsCount is the size of the short list returned next to the full ranking.
const topOptionsCount = 3

type OptimizeHandler struct {
	Engine        *services.Engine
	Deps          services.Dependencies
	UsingMockData bool
}

// Optimize decodes a market-selection request, runs the decision pipeline
// and renders the ranked result.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	svcReq, fieldErrs := toServiceRequest(req)
	if len(fieldErrs) > 0 {
		var rest domain.ValidationErrors
		if errors.As(svcReq.Validate(h.Engine.Vehicles), &rest) {
			fieldErrs = append(fieldErrs, rest...)
		}
		writeValidationError(w, r, fieldErrs)
		return
	}

	res, err := h.Engine.Optimize(r.Context(), svcReq, h.Deps)
	if err != nil {
		var verrs domain.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeValidationError(w, r, verrs)
		case errors.Is(err, domain.ErrNoCandidates):
			writeError(w, r, http.StatusNotFound, "no markets found for crop: "+svcReq.Commodity)
		default:
			obs.Logf(r.Context(), "optimize failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, h.toResponse(req, svcReq, res))
}

// toServiceRequest maps the wire request and reports fields the service
// request cannot express, such as a missing source.
func toServiceRequest(req dto.OptimizeRequest) (services.OptimizeRequest, domain.ValidationErrors) {
	var errs domain.ValidationErrors

	out := services.OptimizeRequest{
		Commodity: strings.ToLower(strings.TrimSpace(req.Crop)),
		Quantity:  req.Quantity,
		Vehicle:   domain.StandardRate(req.VehicleType),
	}
	if req.CustomVehicle != nil && req.CustomVehicle.RatePerKm != 0 {
		out.Vehicle = domain.CustomRate(req.CustomVehicle.RatePerKm)
	}

	switch {
	case req.Source == nil:
		errs = append(errs, domain.FieldError{Field: "source", Message: "source location is required"})
	default:
		if req.Source.Lat == nil {
			errs = append(errs, domain.FieldError{Field: "source.lat", Message: "latitude is required"})
		} else {
			out.Source.Lat = *req.Source.Lat
		}
		if req.Source.Lng == nil {
			errs = append(errs, domain.FieldError{Field: "source.lng", Message: "longitude is required"})
		} else {
			out.Source.Lon = *req.Source.Lng
		}
	}

	if req.MaxDistanceKm != nil {
		if *req.MaxDistanceKm <= 0 {
			errs = append(errs, domain.FieldError{Field: "max_distance_km", Message: "max distance must be positive"})
		} else {
			out.MaxDistanceKm = *req.MaxDistanceKm
		}
	}

	return out, errs
}

func (h *OptimizeHandler) toResponse(
	req dto.OptimizeRequest,
	svcReq services.OptimizeRequest,
	res *services.OptimizeResult,
) dto.OptimizeResponse {
	d := res.Decision

	vehicle := svcReq.Vehicle.Vehicle()
	if svcReq.Vehicle.IsCustom() {
		vehicle = "custom"
		if name := strings.TrimSpace(req.CustomVehicle.Name); name != "" {
			vehicle = name
		}
	}

	opt := dto.OptimizationResponse{
		BestMarket:         toSummary(d.Best),
		ExtraProfitVsLocal: d.ExtraProfitVsLocal,
		ExtraProfitVsWorst: d.ExtraProfitVsWorst,
		IsLocalBest:        d.IsLocalBest,
		Worthiness: dto.WorthinessResponse{
			Worth:               d.Worthiness.Worth,
			ProfitPerExtraKm:    d.Worthiness.ProfitPerExtraKm,
			ExtraDistanceKm:     d.Worthiness.ExtraDistanceKm,
			ExtraProfit:         d.Worthiness.ExtraProfit,
			BreakEvenDistanceKm: d.Worthiness.BreakEvenDistanceKm,
			Reason:              d.Worthiness.Reason,
		},
		RecommendationKind: string(d.RecommendationKind),
		Recommendation:     d.Recommendation,
	}
	if d.Local != nil {
		local := toSummary(*d.Local)
		opt.LocalMarket = &local
	}
	if p := d.Perishability; p != nil {
		opt.Perishability = &dto.PerishabilityResponse{
			Best:                toSpoilage(p.Best),
			ShouldConsiderLocal: p.ShouldConsiderLocal,
		}
		if p.Local != nil {
			local := toSpoilage(*p.Local)
			opt.Perishability.Local = &local
		}
	}

	results := make([]dto.MarketResultResponse, 0, len(d.Ranked))
	for _, pr := range d.Ranked {
		results = append(results, toMarketResult(pr))
	}
	top := make([]dto.MarketResultResponse, 0, topOptionsCount)
	for _, pr := range services.TopOptions(d.Ranked, topOptionsCount) {
		top = append(top, toMarketResult(pr))
	}

	methods := make(map[string]int, len(res.DistanceMethods))
	for m, n := range res.DistanceMethods {
		methods[string(m)] = n
	}

	return dto.OptimizeResponse{
		Query: dto.QueryResponse{
			Crop:          svcReq.Commodity,
			Quantity:      svcReq.Quantity,
			Vehicle:       vehicle,
			VehicleRate:   res.VehicleRate,
			CustomVehicle: svcReq.Vehicle.IsCustom(),
			SourceLat:     svcReq.Source.Lat,
			SourceLng:     svcReq.Source.Lon,
			MaxDistanceKm: res.MaxDistanceKm,
		},
		Optimization: opt,
		Results:      results,
		TopOptions:   top,
		Metadata: dto.MetadataResponse{
			CandidatesAnalyzed: res.CandidatesAnalyzed,
			UsedRangeFallback:  res.UsedRangeFallback,
			DistanceMethods:    methods,
			UsingMockData:      h.UsingMockData,
			Timestamp:          time.Now().UTC(),
		},
	}
}

func toSummary(m domain.MarketSummary) dto.MarketSummaryResponse {
	return dto.MarketSummaryResponse{
		Name:             m.Name,
		NetProfit:        m.NetProfit,
		DistanceKm:       m.DistanceKm,
		Price:            m.Price,
		ProfitPerUnit:    m.ProfitPerUnit,
		ProfitPercentage: m.ProfitPercentage,
		Source:           string(m.Source),
		DistanceMethod:   string(m.DistanceMethod),
		OutOfRange:       m.OutOfRange,
	}
}

func toSpoilage(a domain.SpoilageAssessment) dto.SpoilageResponse {
	out := dto.SpoilageResponse{
		SpoilagePercentage: a.SpoilagePercentage,
		SpoilageAmount:     a.SpoilageAmount,
		OriginalProfit:     a.OriginalProfit,
		AdjustedProfit:     a.AdjustedProfit,
		ExcessDistanceKm:   a.ExcessDistanceKm,
		RiskLevel:          string(a.RiskLevel),
		IsSafe:             a.IsSafe,
		Warning: dto.WarningResponse{
			HasWarning:     a.Warning.HasWarning,
			Severity:       string(a.Warning.Severity),
			Message:        a.Warning.Message,
			Recommendation: a.Warning.Recommendation,
		},
	}
	if det := a.Warning.Details; det != nil {
		out.Warning.Details = &dto.WarningDetailsResponse{
			Crop:               det.Commodity,
			DistanceKm:         det.DistanceKm,
			SafeDistanceKm:     det.SafeDistanceKm,
			ExcessDistanceKm:   det.ExcessDistanceKm,
			PerishabilityLevel: string(det.PerishabilityLevel),
			ShelfLife:          det.ShelfLife,
		}
	}
	return out
}

func toMarketResult(pr domain.ProfitResult) dto.MarketResultResponse {
	c := pr.Candidate
	out := dto.MarketResultResponse{
		Market:           c.Name,
		State:            c.State,
		District:         c.District,
		Lat:              c.Location.Lat,
		Lng:              c.Location.Lon,
		Source:           string(c.Source),
		OutOfRange:       pr.OutOfRange,
		DistanceKm:       pr.DistanceKm,
		DistanceMethod:   string(pr.DistanceMethod),
		Price:            pr.Price,
		Revenue:          pr.Revenue,
		TransportCost:    pr.TransportCost,
		HandlingCost:     pr.HandlingCost,
		TotalCost:        pr.TotalCost,
		NetProfit:        pr.NetProfit,
		ProfitPerUnit:    pr.ProfitPerUnit,
		ProfitPercentage: pr.ProfitPercentage,
		Breakdown: dto.CostBreakdownResponse{
			Loading:    pr.Breakdown.Loading,
			Unloading:  pr.Breakdown.Unloading,
			Commission: pr.Breakdown.Commission,
			Transport:  pr.Breakdown.Transport,
		},
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
