package ports

import (
	"context"
	"market-route-service/internal/domain"
)

// Port: a source of market price quotes for a commodity.
type PriceQuoteProvider interface {
	// Return candidate markets quoting the commodity, near the given point
	// when the source supports locality.
	GetQuotes(ctx context.Context, commodity string, near domain.Coordinates) ([]domain.Candidate, error)
}

// Optional extension of PriceQuoteProvider that can list known commodities.
type CommodityCatalog interface {
	Commodities(ctx context.Context) ([]string, error)
}

// Port: persistence of the quotes a decision was made on.
type PriceHistoryRecorder interface {
	RecordQuotes(ctx context.Context, commodity string, quotes []domain.Candidate) error
}
