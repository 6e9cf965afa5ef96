package domain

import (
	"errors"
	"slices"
	"testing"
)

func TestRateSource(t *testing.T) {
	rates := VehicleRates{"truck": 25, "tempo": 15, "tata-ace": 18}

	tests := []struct {
		name   string
		source RateSource
		want   float64
		custom bool
	}{
		{"standard", StandardRate("tempo"), 15, false},
		{"standard normalized", StandardRate("  Tata-Ace "), 18, false},
		{"unknown falls back to truck", StandardRate("bullock-cart"), 25, false},
		{"custom ignores table", CustomRate(9.5), 9.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.source.PerKm(rates); got != tt.want {
				t.Fatalf("PerKm = %v, want %v", got, tt.want)
			}
			if tt.source.IsCustom() != tt.custom {
				t.Fatalf("IsCustom = %t, want %t", tt.source.IsCustom(), tt.custom)
			}
		})
	}

	if !rates.Has("TRUCK") || rates.Has("rocket") {
		t.Fatalf("Has lookups are wrong")
	}
	if got := rates.Types(); !slices.Equal(got, []string{"tata-ace", "tempo", "truck"}) {
		t.Fatalf("Types = %v", got)
	}
}

func TestDisplayName(t *testing.T) {
	for in, want := range map[string]string{
		"tata-ace":   "Tata Ace",
		"mini-truck": "Mini Truck",
		"onion":      "Onion",
		"":           "",
	} {
		if got := DisplayName(in); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandlingPerUnit(t *testing.T) {
	h := HandlingCharges{Loading: 20, Unloading: 20, Commission: 50}
	if got := h.PerUnit(); got != 90 {
		t.Fatalf("PerUnit = %v, want 90", got)
	}
}

func TestPerishabilityTableRating(t *testing.T) {
	table := PerishabilityTable{
		"tomato":         {Level: RiskHigh, SafeDistanceKm: 50},
		DefaultCommodity: {Level: RiskMedium, SafeDistanceKm: 100},
	}

	if r := table.Rating(" Tomato"); r.Level != RiskHigh {
		t.Fatalf("tomato level = %q, want high", r.Level)
	}
	if r := table.Rating("dragonfruit"); r.SafeDistanceKm != 100 {
		t.Fatalf("unknown commodity safe distance = %v, want default 100", r.SafeDistanceKm)
	}
}

func TestCoordinatesValidate(t *testing.T) {
	if err := (Coordinates{Lat: 22.57, Lon: 88.36}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Coordinates{Lat: -91, Lon: 181}.Validate()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 2 {
		t.Fatalf("want two field errors, got %v", err)
	}
	if verrs.Error() != "invalid input: source.lat: latitude must be between -90 and 90; source.lng: longitude must be between -180 and 180" {
		t.Fatalf("Error() = %q", verrs.Error())
	}

	if got := (Coordinates{Lat: 22.5726, Lon: 88.3639}).Key(); got != "22.57260,88.36390" {
		t.Fatalf("Key = %q", got)
	}
}
