package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"market-route-service/internal/domain"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// Tables are the read-only lookup tables the decision engine runs on.
type Tables struct {
	Vehicles      domain.VehicleRates       `yaml:"vehicles"`
	Handling      domain.HandlingCharges    `yaml:"handling"`
	Perishability domain.PerishabilityTable `yaml:"perishability"`
	Policy        domain.DecisionPolicy     `yaml:"policy"`
}

// LoadTables reads the tables from path, or the built-in defaults when
// path is empty.
func LoadTables(path string) (Tables, error) {
	raw := defaultTables
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Tables{}, fmt.Errorf("load tables: read %q: %w", path, err)
		}
		raw = b
	}
	return ParseTables(raw)
}

// ParseTables decodes and validates a YAML table document. Unknown keys
// are rejected.
func ParseTables(raw []byte) (Tables, error) {
	var t Tables
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Tables{}, fmt.Errorf("load tables: parse yaml: %w", err)
	}

	t.normalize()
	if err := t.validate(); err != nil {
		return Tables{}, fmt.Errorf("load tables: %w", err)
	}
	return t, nil
}

func (t *Tables) normalize() {
	vehicles := make(domain.VehicleRates, len(t.Vehicles))
	for k, v := range t.Vehicles {
		vehicles[strings.ToLower(strings.TrimSpace(k))] = v
	}
	t.Vehicles = vehicles

	ratings := make(domain.PerishabilityTable, len(t.Perishability))
	for k, r := range t.Perishability {
		ratings[strings.ToLower(strings.TrimSpace(k))] = r
	}
	t.Perishability = ratings

	if t.Policy.StrongTravelProfit == 0 {
		t.Policy.StrongTravelProfit = 500
	}
	if t.Policy.WorthProfitPerKm == 0 {
		t.Policy.WorthProfitPerKm = 50
	}
	if t.Policy.FallbackCandidates == 0 {
		t.Policy.FallbackCandidates = 5
	}
}

func (t Tables) validate() error {
	var errs []error

	if _, ok := t.Vehicles[domain.DefaultVehicle]; !ok {
		errs = append(errs, fmt.Errorf("vehicles: %q rate is required", domain.DefaultVehicle))
	}
	for k, v := range t.Vehicles {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("vehicles: %q rate must be positive, got %v", k, v))
		}
	}

	if t.Handling.Loading < 0 || t.Handling.Unloading < 0 || t.Handling.Commission < 0 {
		errs = append(errs, errors.New("handling: charges cannot be negative"))
	}

	if _, ok := t.Perishability[domain.DefaultCommodity]; !ok {
		errs = append(errs, fmt.Errorf("perishability: %q rating is required", domain.DefaultCommodity))
	}
	for k, r := range t.Perishability {
		switch r.Level {
		case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
		default:
			errs = append(errs, fmt.Errorf("perishability: %q has unknown level %q", k, r.Level))
		}
		if r.SafeDistanceKm < 0 || r.DecayRate < 0 {
			errs = append(errs, fmt.Errorf("perishability: %q values cannot be negative", k))
		}
	}

	if t.Policy.StrongTravelProfit < 0 || t.Policy.WorthProfitPerKm < 0 || t.Policy.FallbackCandidates < 0 {
		errs = append(errs, errors.New("policy: thresholds cannot be negative"))
	}

	return errors.Join(errs...)
}
