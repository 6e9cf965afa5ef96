package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadTablesDefaults(t *testing.T) {
	tables, err := LoadTables("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tables.Vehicles.Rate("tata-ace"); got != 18 {
		t.Fatalf("tata-ace rate = %v, want 18", got)
	}
	if len(tables.Vehicles) != 5 {
		t.Fatalf("vehicles = %v", tables.Vehicles)
	}
	if tables.Handling.PerUnit() != 90 {
		t.Fatalf("handling = %+v", tables.Handling)
	}
	if r := tables.Perishability.Rating("lettuce"); r.SafeDistanceKm != 30 || r.DecayRate != 0.25 {
		t.Fatalf("lettuce = %+v", r)
	}
	if r := tables.Perishability.Rating("unlisted"); r.ShelfLife != "1-2 weeks" {
		t.Fatalf("default rating = %+v", r)
	}
	if p := tables.Policy; p.StrongTravelProfit != 500 || p.WorthProfitPerKm != 50 || p.FallbackCandidates != 5 {
		t.Fatalf("policy = %+v", p)
	}
}

func TestParseTablesValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing truck",
			yaml: `
vehicles: {tempo: 15}
perishability: {default: {level: medium, safe_distance_km: 100, decay_rate: 0.1}}`,
			wantErr: `"truck" rate is required`,
		},
		{
			name: "non-positive rate",
			yaml: `
vehicles: {truck: 25, tempo: 0}
perishability: {default: {level: medium, safe_distance_km: 100, decay_rate: 0.1}}`,
			wantErr: "must be positive",
		},
		{
			name: "missing default rating",
			yaml: `
vehicles: {truck: 25}
perishability: {tomato: {level: high, safe_distance_km: 50, decay_rate: 0.2}}`,
			wantErr: `"default" rating is required`,
		},
		{
			name: "unknown level",
			yaml: `
vehicles: {truck: 25}
perishability: {default: {level: extreme, safe_distance_km: 100, decay_rate: 0.1}}`,
			wantErr: "unknown level",
		},
		{
			name:    "unknown key",
			yaml:    "vehicles: {truck: 25}\nsurcharge: 10\n",
			wantErr: "parse yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTables([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseTablesFillsPolicyDefaults(t *testing.T) {
	tables, err := ParseTables([]byte(`
vehicles: {Truck: 30}
perishability: {DEFAULT: {level: low, safe_distance_km: 200, decay_rate: 0.05}}
policy: {worth_profit_per_km: 80}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tables.Vehicles.Rate("truck") != 30 {
		t.Fatalf("vehicle keys are not normalized: %v", tables.Vehicles)
	}
	if p := tables.Policy; p.WorthProfitPerKm != 80 || p.StrongTravelProfit != 500 || p.FallbackCandidates != 5 {
		t.Fatalf("policy = %+v", p)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ORS_API_KEY", "ors-key")
	t.Setenv("DISTANCE_TIMEOUT", "3s")
	t.Setenv("MAX_MARKET_DISTANCE_KM", "150")
	t.Setenv("SEED_PATH", "testdata/markets.json")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "9090" || c.DistanceProvider != ProviderORS {
		t.Fatalf("config = %+v", c)
	}
	if c.DistanceTimeout != 3*time.Second || c.MaxMarketDistanceKm != 150 {
		t.Fatalf("timeout = %v max = %v", c.DistanceTimeout, c.MaxMarketDistanceKm)
	}
	if !c.UseMockData {
		t.Fatalf("UseMockData = false without agmarknet credentials")
	}
	if c.SeedPath != "testdata/markets.json" {
		t.Fatalf("SeedPath = %q", c.SeedPath)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"provider without key": {"DISTANCE_PROVIDER", "google"},
		"unknown provider":     {"DISTANCE_PROVIDER", "osrm"},
		"bad duration":         {"DISTANCE_TIMEOUT", "soon"},
		"bad distance":         {"MAX_MARKET_DISTANCE_KM", "-1"},
		"bad bool":             {"USE_MOCK_DATA", "maybe"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("ORS_API_KEY", "")
			t.Setenv("GOOGLE_MAPS_API_KEY", "")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
