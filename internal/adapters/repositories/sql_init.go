package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createMarketsQuery := `
	CREATE TABLE IF NOT EXISTS markets (
		market_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		state TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createMarketPricesQuery := `
	CREATE TABLE IF NOT EXISTS market_prices (
		market_id INTEGER NOT NULL REFERENCES markets(market_id) ON DELETE CASCADE,
		commodity TEXT NOT NULL,
		price_per_unit DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (market_id, commodity)
	);
	`

	createPriceHistoryQuery := `
	CREATE TABLE IF NOT EXISTS price_history (
		id BIGSERIAL PRIMARY KEY,
		market_name TEXT NOT NULL,
		commodity TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		source TEXT NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQueries := `
	CREATE INDEX IF NOT EXISTS idx_market_prices_commodity ON market_prices(commodity);
	CREATE INDEX IF NOT EXISTS idx_price_history_commodity_date ON price_history(commodity, recorded_at DESC);
	`

	statements := []string{
		createMarketsQuery,
		createMarketPricesQuery,
		createPriceHistoryQuery,
		createDistanceCacheQuery,
		createIndexQueries,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type MarketSeed struct {
	Name     string             `json:"name"`
	State    string             `json:"state"`
	District string             `json:"district"`
	Lat      float64            `json:"lat"`
	Lng      float64            `json:"lng"`
	Prices   map[string]float64 `json:"prices"`
}

// ParseMarketSeeds reads and validates market seed data from a JSON file.
func ParseMarketSeeds(jsonPath string) ([]MarketSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed markets: read %q: %w", jsonPath, err)
	}

	var data []MarketSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed markets: parse json: %w", err)
	}

	rows := make([]MarketSeed, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("seed markets: item at index %d: name cannot be empty", i+1)
		}
		if math.Abs(item.Lat) > 90 || math.Abs(item.Lng) > 180 || (item.Lat == 0 && item.Lng == 0) {
			return nil, fmt.Errorf("seed markets: %q: invalid location (%v, %v)", name, item.Lat, item.Lng)
		}

		prices := make(map[string]float64, len(item.Prices))
		for crop, p := range item.Prices {
			crop = strings.ToLower(strings.TrimSpace(crop))
			if crop == "" || p <= 0 {
				return nil, fmt.Errorf("seed markets: %q: invalid price entry %q=%v", name, crop, p)
			}
			prices[crop] = p
		}

		item.Name = name
		item.Prices = prices
		rows = append(rows, item)
	}

	return rows, nil
}

// Populate the database with market and price data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := ParseMarketSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed markets: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range rows {
		var id int
		err := tx.QueryRowContext(ctx, `
		INSERT INTO markets (name, state, district, lat, lon)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET state = EXCLUDED.state,
			district = EXCLUDED.district,
			lat = EXCLUDED.lat,
			lon = EXCLUDED.lon
		RETURNING market_id;
		`, m.Name, m.State, m.District, m.Lat, m.Lng).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed markets: upsert %q: %w", m.Name, err)
		}

		for crop, price := range m.Prices {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO market_prices (market_id, commodity, price_per_unit, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (market_id, commodity) DO UPDATE
			SET price_per_unit = EXCLUDED.price_per_unit,
				updated_at = EXCLUDED.updated_at;
			`, id, crop, price); err != nil {
				return fmt.Errorf("seed markets: price %q/%q: %w", m.Name, crop, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed markets: commit tx: %w", err)
	}

	return nil
}
