package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingbot/internal/domain"
	"swingbot/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(Config{
		DBPath: filepath.Join(t.TempDir(), "backtests.db"),
		Logger: nopLogger{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleRun(asset string, createdAt time.Time) *domain.BacktestRun {
	entry := createdAt.Add(-24 * time.Hour)
	return &domain.BacktestRun{
		Asset:     asset,
		CreatedAt: createdAt,
		Summary: domain.PerformanceSummary{
			InitialCapital: 10000,
			FinalEquity:    10500,
			TotalReturn:    0.05,
			TotalTrades:    2,
			WinningTrades:  1,
			LosingTrades:   1,
			WinRate:        0.5,
			GrossProfit:    700,
			GrossLoss:      200,
			ProfitFactor:   3.5,
			AverageWin:     700,
			AverageLoss:    200,
			MaxDrawdown:    0.02,
			SharpeLike:     0.8,
		},
		Trades: []*domain.Trade{
			{
				PositionID: 1, Symbol: asset,
				EntryTime: entry, ExitTime: entry.Add(2 * time.Hour),
				EntryPrice: 100, ExitPrice: 107, Quantity: 100,
				PNL: 700, PNLPct: 0.07, CloseReason: domain.CloseReasonTakeProfit,
			},
			{
				PositionID: 2, Symbol: asset,
				EntryTime: entry.Add(4 * time.Hour), ExitTime: entry.Add(6 * time.Hour),
				EntryPrice: 107, ExitPrice: 105, Quantity: 100,
				PNL: -200, PNLPct: -0.019, CloseReason: domain.CloseReasonStopLoss,
			},
		},
	}
}

func TestNewRepositoryRequiresLogger(t *testing.T) {
	_, err := NewRepository(Config{DBPath: filepath.Join(t.TempDir(), "x.db")})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestSaveRunRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := sampleRun("PETR4", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	id, err := repo.SaveRun(ctx, run)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, run.ID)

	runs, err := repo.FindRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "PETR4", runs[0].Asset)
	assert.InDelta(t, 0.05, runs[0].Summary.TotalReturn, 1e-9)
	assert.Equal(t, 2, runs[0].Summary.TotalTrades)
	assert.Empty(t, runs[0].Trades, "FindRuns does not hydrate trades")

	trades, err := repo.FindTradesByRun(ctx, id)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, domain.CloseReasonTakeProfit, trades[0].CloseReason)
	assert.Equal(t, domain.CloseReasonStopLoss, trades[1].CloseReason)
	assert.True(t, trades[0].EntryTime.Before(trades[1].EntryTime))
}

func TestFindRunsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := sampleRun("PETR4", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	newer := sampleRun("VALE3", time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))
	_, err := repo.SaveRun(ctx, older)
	require.NoError(t, err)
	_, err = repo.SaveRun(ctx, newer)
	require.NoError(t, err)

	runs, err := repo.FindRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "VALE3", runs[0].Asset)
	assert.Equal(t, "PETR4", runs[1].Asset)
}

func TestFindTradesByRunUnknownID(t *testing.T) {
	repo := newTestRepo(t)

	trades, err := repo.FindTradesByRun(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, trades)
}
