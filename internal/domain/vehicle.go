package domain

import (
	"slices"
	"strings"
)

// DefaultVehicle is the table entry used for unrecognized vehicle types.
const DefaultVehicle = "truck"

// VehicleRates maps a vehicle type to its transport cost per km.
// Loaded once at startup and treated as read-only.
type VehicleRates map[string]float64

// Rate returns the per-km rate for a vehicle type, falling back to the
// truck rate for unknown types.
func (v VehicleRates) Rate(vehicle string) float64 {
	if r, ok := v[normalizeKey(vehicle)]; ok {
		return r
	}
	return v[DefaultVehicle]
}

// Has reports whether the vehicle type is a table entry.
func (v VehicleRates) Has(vehicle string) bool {
	_, ok := v[normalizeKey(vehicle)]
	return ok
}

// Types returns the vehicle types in sorted order.
func (v VehicleRates) Types() []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// HandlingCharges are fixed per-unit charges added on top of transport.
type HandlingCharges struct {
	Loading    float64 `yaml:"loading"`
	Unloading  float64 `yaml:"unloading"`
	Commission float64 `yaml:"commission"`
}

// PerUnit is the combined handling charge for one unit of mass.
func (h HandlingCharges) PerUnit() float64 {
	return h.Loading + h.Unloading + h.Commission
}

type rateKind int

const (
	rateStandard rateKind = iota
	rateCustom
)

// RateSource is either a named vehicle from the rate table or an explicit
// custom rate per km. A custom rate always takes precedence.
type RateSource struct {
	kind    rateKind
	vehicle string
	perKm   float64
}

// StandardRate selects a vehicle type from the rate table.
func StandardRate(vehicle string) RateSource {
	return RateSource{kind: rateStandard, vehicle: normalizeKey(vehicle)}
}

// CustomRate uses an explicit rate per km, ignoring the table.
func CustomRate(perKm float64) RateSource {
	return RateSource{kind: rateCustom, perKm: perKm}
}

func (r RateSource) IsCustom() bool { return r.kind == rateCustom }

// Vehicle returns the named vehicle type; empty for custom rates.
func (r RateSource) Vehicle() string { return r.vehicle }

// PerKm resolves the rate against the table.
func (r RateSource) PerKm(table VehicleRates) float64 {
	if r.kind == rateCustom {
		return r.perKm
	}
	return table.Rate(r.vehicle)
}

// DisplayName turns "tata-ace" into "Tata Ace".
func DisplayName(key string) string {
	parts := strings.Split(key, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
