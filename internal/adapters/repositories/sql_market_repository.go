package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLMarketRepository serves stored market quotes and records the quotes
// each decision used. It implements PriceQuoteProvider, CommodityCatalog
// and PriceHistoryRecorder.
type SQLMarketRepository struct{ DB *sql.DB }

func NewSQLMarketRepository(db *sql.DB) *SQLMarketRepository {
	return &SQLMarketRepository{DB: db}
}

// Return every stored market quoting the commodity. Stored prices carry
// fallback provenance since they are not live.
func (s *SQLMarketRepository) GetQuotes(
	ctx context.Context,
	commodity string,
	_ domain.Coordinates,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "markets.GetQuotes")(&err)

	if s.DB == nil {
		return nil, errors.New("sql market repository: DB is nil")
	}

	query := `
	SELECT
		m.name,
		m.state,
		m.district,
		m.lat,
		m.lon,
		p.price_per_unit,
		p.updated_at
	FROM markets m
	JOIN market_prices p ON p.market_id = m.market_id
	WHERE p.commodity = $1
	ORDER BY m.market_id;
	`
	rows, err := s.DB.QueryContext(ctx, query, strings.ToLower(strings.TrimSpace(commodity)))
	if err != nil {
		return nil, fmt.Errorf("get quotes: query markets: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Candidate, 0, 16)
	for rows.Next() {
		var (
			c       domain.Candidate
			updated time.Time
		)
		if err := rows.Scan(&c.Name, &c.State, &c.District, &c.Location.Lat, &c.Location.Lon, &c.PricePerUnit, &updated); err != nil {
			return nil, fmt.Errorf("get quotes: scan row: %w", err)
		}
		c.Source = domain.ProvenanceFallback
		c.UpdatedAt = updated
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get quotes: row iteration: %w", err)
	}

	return out, nil
}

// Return the distinct commodities with at least one stored price.
func (s *SQLMarketRepository) Commodities(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, errors.New("sql market repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT DISTINCT commodity FROM market_prices ORDER BY commodity;`)
	if err != nil {
		return nil, fmt.Errorf("list commodities: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("list commodities: scan row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list commodities: row iteration: %w", err)
	}
	return out, nil
}

// Append the quotes used by a decision to price_history.
func (s *SQLMarketRepository) RecordQuotes(
	ctx context.Context,
	commodity string,
	quotes []domain.Candidate,
) (err error) {
	defer obs.Time(ctx, "markets.RecordQuotes")(&err)

	if s.DB == nil {
		return errors.New("sql market repository: DB is nil")
	}
	if len(quotes) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record quotes: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO price_history (market_name, commodity, price, source)
	VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return fmt.Errorf("record quotes: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range quotes {
		if _, err := stmt.ExecContext(ctx, q.Name, commodity, q.PricePerUnit, string(q.Source)); err != nil {
			return fmt.Errorf("record quotes: insert %q: %w", q.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record quotes: commit tx: %w", err)
	}
	return nil
}
