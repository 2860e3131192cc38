package ports

import (
	"context"
	"time"

	"swingbot/internal/domain"
)

// MarketDataClient defines the interface for retrieving historical market data.
// Retrieval is a collaborator of the simulation: the engine itself only ever
// sees an already-loaded, immutable kline series.
type MarketDataClient interface {
	// GetKlines retrieves up to limit most recent klines for the symbol.
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Kline, error)
	// GetKlinesRange fetches all klines for a symbol/interval between start and end time.
	GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error)
	// Ping checks connectivity to the data provider.
	Ping(ctx context.Context) error
}
