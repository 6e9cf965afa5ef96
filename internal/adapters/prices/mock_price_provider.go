package prices

import (
	"context"
	"market-route-service/internal/domain"
	"slices"
	"strings"
	"time"
)

// defaultMockPrice is quoted for commodities a mock market does not list.
const defaultMockPrice = 1000

type mockMarket struct {
	name     string
	state    string
	district string
	loc      domain.Coordinates
	prices   map[string]float64
}

var mockMarkets = []mockMarket{
	{"Kolkata Mandi", "West Bengal", "Kolkata", domain.Coordinates{Lat: 22.5726, Lon: 88.3639},
		map[string]float64{"onion": 1200, "potato": 800, "tomato": 1500, "rice": 2200, "wheat": 2000}},
	{"Howrah Mandi", "West Bengal", "Howrah", domain.Coordinates{Lat: 22.5958, Lon: 88.2636},
		map[string]float64{"onion": 1350, "potato": 850, "tomato": 1600, "rice": 2300, "wheat": 2100}},
	{"Barasat Mandi", "West Bengal", "North 24 Parganas", domain.Coordinates{Lat: 22.7212, Lon: 88.4826},
		map[string]float64{"onion": 1100, "potato": 750, "tomato": 1400, "rice": 2100, "wheat": 1900}},
	{"Durgapur Mandi", "West Bengal", "Paschim Bardhaman", domain.Coordinates{Lat: 23.5204, Lon: 87.3119},
		map[string]float64{"onion": 1250, "potato": 820, "tomato": 1550, "rice": 2250, "wheat": 2050}},
	{"Siliguri Mandi", "West Bengal", "Darjeeling", domain.Coordinates{Lat: 26.7271, Lon: 88.3953},
		map[string]float64{"onion": 1180, "potato": 800, "tomato": 1480, "rice": 2180, "wheat": 1980}},
	{"Asansol Mandi", "West Bengal", "Paschim Bardhaman", domain.Coordinates{Lat: 23.6739, Lon: 86.9524},
		map[string]float64{"onion": 1220, "potato": 810, "tomato": 1520, "rice": 2220, "wheat": 2020}},
}

// localMarket is placed at a fixed offset from the requested point so demo
// runs always have nearby options.
type localMarket struct {
	name     string
	district string
	dLat     float64
	dLon     float64
	price    float64
}

var localMarkets = []localMarket{
	{"Regional Trading Center", "Neighboring District", 0.45, -0.45, 1450},
	{"District Main Mandi", "Local District", -0.25, 0.25, 1320},
	{"Local Market (Nearby)", "Local District", 0.08, 0.08, 1250},
}

// MockPriceProvider serves a fixed market catalog. Every quote is tagged
// with fallback provenance. With IncludeLocal set, three synthetic markets
// around the requested point are prepended.
type MockPriceProvider struct {
	IncludeLocal bool
	Now          func() time.Time
}

func NewMockPriceProvider(includeLocal bool) *MockPriceProvider {
	return &MockPriceProvider{IncludeLocal: includeLocal, Now: time.Now}
}

func (p *MockPriceProvider) GetQuotes(
	ctx context.Context,
	commodity string,
	near domain.Coordinates,
) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strings.ToLower(strings.TrimSpace(commodity))
	now := p.now()

	out := make([]domain.Candidate, 0, len(localMarkets)+len(mockMarkets))
	if p.IncludeLocal && !near.IsZero() {
		for _, m := range localMarkets {
			out = append(out, domain.Candidate{
				Name:         m.name,
				State:        "Your State",
				District:     m.district,
				Location:     domain.Coordinates{Lat: near.Lat + m.dLat, Lon: near.Lon + m.dLon},
				PricePerUnit: m.price,
				Source:       domain.ProvenanceFallback,
				UpdatedAt:    now,
			})
		}
	}

	for _, m := range mockMarkets {
		price, ok := m.prices[key]
		if !ok {
			price = defaultMockPrice
		}
		out = append(out, domain.Candidate{
			Name:         m.name,
			State:        m.state,
			District:     m.district,
			Location:     m.loc,
			PricePerUnit: price,
			Source:       domain.ProvenanceFallback,
			UpdatedAt:    now,
		})
	}

	return out, nil
}

// Commodities lists the commodities the mock catalog prices explicitly.
func (p *MockPriceProvider) Commodities(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(mockMarkets[0].prices))
	for k := range mockMarkets[0].prices {
		out = append(out, k)
	}
	slices.Sort(out)
	return out, nil
}

func (p *MockPriceProvider) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
