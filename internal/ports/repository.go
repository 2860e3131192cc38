package ports

import (
	"context"

	"swingbot/internal/domain"
)

// ResultRepository defines the interface for storing and retrieving backtest results.
type ResultRepository interface {
	// SaveRun persists a run with its summary and trades, returning the run ID.
	SaveRun(ctx context.Context, run *domain.BacktestRun) (int64, error)
	// FindRuns retrieves stored runs (without trades), newest first.
	FindRuns(ctx context.Context) ([]*domain.BacktestRun, error)
	// FindTradesByRun retrieves the trades of one run in entry-time order.
	FindTradesByRun(ctx context.Context, runID int64) ([]*domain.Trade, error)
}
