package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Distance provider names accepted by DISTANCE_PROVIDER.
const (
	ProviderORS    = "ors"
	ProviderGoogle = "google"
	ProviderNone   = "none"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	DistanceProvider   string
	ORSAPIKey          string
	GoogleMapsAPIKey   string
	GoogleMapsBaseURL  string
	DistanceTimeout    time.Duration
	DistanceRatePerSec float64
	DistanceCacheTTL   time.Duration

	AgmarknetAPIKey  string
	AgmarknetBaseURL string
	UseMockData      bool

	MaxMarketDistanceKm float64
	TablesPath          string
	SeedPath            string
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the service configuration from the environment.
func Load() (Config, error) {
	c := Config{
		Port:              Get("PORT", "8080"),
		DatabaseURL:       Get("DATABASE_URL", ""),
		RedisURL:          Get("REDIS_URL", ""),
		ORSAPIKey:         Get("ORS_API_KEY", ""),
		GoogleMapsAPIKey:  Get("GOOGLE_MAPS_API_KEY", ""),
		GoogleMapsBaseURL: Get("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api/distancematrix/json"),
		AgmarknetAPIKey:   Get("AGMARKNET_API_KEY", ""),
		AgmarknetBaseURL:  Get("AGMARKNET_BASE_URL", ""),
		TablesPath:        Get("TABLES_PATH", ""),
		SeedPath:          Get("SEED_PATH", "data/seeds/markets.json"),
	}

	var err error
	if c.UseMockData, err = getBool("USE_MOCK_DATA", c.AgmarknetAPIKey == "" || c.AgmarknetBaseURL == ""); err != nil {
		return Config{}, err
	}
	if c.MaxMarketDistanceKm, err = getFloat("MAX_MARKET_DISTANCE_KM", 100); err != nil {
		return Config{}, err
	}
	if c.MaxMarketDistanceKm <= 0 {
		return Config{}, fmt.Errorf("config: MAX_MARKET_DISTANCE_KM must be positive, got %v", c.MaxMarketDistanceKm)
	}
	if c.DistanceTimeout, err = getDuration("DISTANCE_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if c.DistanceRatePerSec, err = getFloat("DISTANCE_RATE_PER_SEC", 0); err != nil {
		return Config{}, err
	}
	if c.DistanceCacheTTL, err = getDuration("DISTANCE_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}

	c.DistanceProvider = strings.ToLower(Get("DISTANCE_PROVIDER", defaultProvider(c)))
	switch c.DistanceProvider {
	case ProviderORS:
		if c.ORSAPIKey == "" {
			return Config{}, fmt.Errorf("config: DISTANCE_PROVIDER=%s requires ORS_API_KEY", ProviderORS)
		}
	case ProviderGoogle:
		if c.GoogleMapsAPIKey == "" {
			return Config{}, fmt.Errorf("config: DISTANCE_PROVIDER=%s requires GOOGLE_MAPS_API_KEY", ProviderGoogle)
		}
	case ProviderNone:
	default:
		return Config{}, fmt.Errorf("config: unknown DISTANCE_PROVIDER %q", c.DistanceProvider)
	}

	return c, nil
}

// defaultProvider picks the first provider with a key configured.
func defaultProvider(c Config) string {
	switch {
	case c.ORSAPIKey != "":
		return ProviderORS
	case c.GoogleMapsAPIKey != "":
		return ProviderGoogle
	default:
		return ProviderNone
	}
}

func getBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return b, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return d, nil
}
