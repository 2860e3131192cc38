package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingbot/config"
	"swingbot/internal/adapters/logger"
	"swingbot/internal/domain"
	"swingbot/internal/marketdata/csvstore"
	"swingbot/internal/ports"
)

type memoryRepo struct {
	mu   sync.Mutex
	runs []*domain.BacktestRun
}

func (m *memoryRepo) SaveRun(_ context.Context, run *domain.BacktestRun) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, run)
	return run.ID, nil
}

func (m *memoryRepo) FindRuns(context.Context) ([]*domain.BacktestRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs, nil
}

func (m *memoryRepo) FindTradesByRun(_ context.Context, runID int64) ([]*domain.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.ID == runID {
			return r.Trades, nil
		}
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		InitialCapital:      10000,
		FeeRate:             0.001,
		StopLossPct:         0.05,
		TakeProfitPct:       0.10,
		MaxPositions:        2,
		ConfidenceThreshold: 0.6,
		WarmupWindow:        2,
		ZigzagDeviationPct:  3.0,
		SignalFastPeriod:    3,
		SignalSlowPeriod:    8,
		SignalRSIPeriod:     5,
		SignalRSIOverbought: 70,
		SignalRSIOversold:   30,
		Workers:             2,
	}
}

// writeSeries writes a sawtooth price file with enough swings to exercise
// pivots and trades.
func writeSeries(t *testing.T, dir, name string, n int) string {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	klines := make([]*domain.Kline, n)
	price := 100.0
	for i := range klines {
		if i%8 < 4 {
			price *= 1.02
		} else {
			price *= 0.98
		}
		klines[i] = &domain.Kline{
			OpenTime:  start.Add(time.Duration(i) * time.Hour),
			CloseTime: start.Add(time.Duration(i+1)*time.Hour - time.Millisecond),
			Symbol:    name,
			Interval:  "1h",
			Open:      price, High: price, Low: price, Close: price,
			Volume: 1000,
		}
	}
	path := filepath.Join(dir, name+".csv")
	require.NoError(t, csvstore.WriteKlines(klines, path))
	return path
}

func newTestService(t *testing.T, repo ports.ResultRepository) *BatchService {
	t.Helper()
	svc, err := NewBatchService(testConfig(), logger.NewStdLogger(logger.LevelError), repo)
	require.NoError(t, err)
	return svc
}

func TestNewBatchServiceValidation(t *testing.T) {
	log := logger.NewStdLogger(logger.LevelError)

	_, err := NewBatchService(nil, log, nil)
	assert.Error(t, err)
	_, err = NewBatchService(testConfig(), nil, nil)
	assert.Error(t, err)
	_, err = NewBatchService(testConfig(), log, nil)
	assert.NoError(t, err, "repository is optional")
}

func TestRunBatchPersistsResults(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "PETR4", 80)
	writeSeries(t, dir, "VALE3", 80)

	repo := &memoryRepo{}
	svc := newTestService(t, repo)

	scenario := &config.Scenario{
		Name: "two assets",
		Assets: []config.ScenarioAsset{
			{Name: "PETR4", DataFile: filepath.Join(dir, "PETR4.csv")},
			{Name: "VALE3", DataFile: filepath.Join(dir, "VALE3.csv"), Signal: config.SignalCrossover},
		},
	}

	report, err := svc.Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, report.Results, 2)

	// Results keep scenario order regardless of worker completion order.
	assert.Equal(t, "PETR4", report.Results[0].Asset)
	assert.Equal(t, "VALE3", report.Results[1].Asset)

	runs, err := repo.FindRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, 10000.0, run.Summary.InitialCapital)
		assert.False(t, run.CreatedAt.IsZero())
	}
}

func TestRunBatchSkipsBadAsset(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "PETR4", 80)

	repo := &memoryRepo{}
	svc := newTestService(t, repo)

	scenario := &config.Scenario{
		Assets: []config.ScenarioAsset{
			{Name: "PETR4", DataFile: filepath.Join(dir, "PETR4.csv")},
			{Name: "GHOST", DataFile: filepath.Join(dir, "missing.csv")},
		},
	}

	report, err := svc.Run(context.Background(), scenario)
	require.NoError(t, err, "a bad asset must not fail the batch")
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Skipped)
	assert.Error(t, report.Results[1].Err)
	assert.Nil(t, report.Results[1].Run)
}

func TestRunBatchEmptyScenario(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Run(context.Background(), &config.Scenario{})
	assert.Error(t, err)
}

func TestRunBatchWithoutRepository(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "PETR4", 80)

	svc := newTestService(t, nil)
	scenario := &config.Scenario{
		Assets: []config.ScenarioAsset{
			{Name: "PETR4", DataFile: filepath.Join(dir, "PETR4.csv")},
		},
	}

	report, err := svc.Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.NotNil(t, report.Results[0].Run)
}
