package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"strings"
	"time"
)

// SQLDistanceCache is a Postgres-backed cache for origin->destination road
// distances. Keys are Coordinates.Key() strings. Rows older than MaxAge are
// ignored on read; zero MaxAge keeps rows forever.
type SQLDistanceCache struct {
	DB     *sql.DB
	MaxAge time.Duration
}

func NewSQLDistanceCache(db *sql.DB, maxAge time.Duration) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db, MaxAge: maxAge}
}

// Fetch cached distances for one origin and multiple destinations.
func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	// A zero cutoff matches every row.
	var cutoff time.Time
	if s.MaxAge > 0 {
		cutoff = time.Now().Add(-s.MaxAge)
	}

	q := `
	SELECT destination, distance_meters, duration_seconds
    FROM distance_cache
    WHERE origin = $1
        AND destination = ANY($2::text[])
        AND updated_at >= $3;
	`

	rows, err := s.DB.QueryContext(ctx, q, origin, uniq, cutoff)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(uniq))
	for rows.Next() {
		var dest string
		var r ports.DistanceResult
		if err := rows.Scan(&dest, &r.DistanceMeters, &r.DurationSeconds); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		out[dest] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.sql.PutMany")(&err)

	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distance cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO distance_cache (origin, destination, distance_meters, duration_seconds, updated_at)
    VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		updated_at = EXCLUDED.updated_at;
	`)
	if err != nil {
		return fmt.Errorf("insert distance cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		if _, err := stmt.ExecContext(ctx, origin, dest, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert distance cache dest=%q: %w", dest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distance cache commit: %w", err)
	}
	return nil
}
