// Package app wires the batch runner: it fans a scenario's assets over a
// worker pool, runs one simulation per asset, summarizes each run and hands
// the results to the repository.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"swingbot/config"
	"swingbot/internal/domain"
	"swingbot/internal/marketdata/csvstore"
	"swingbot/internal/ports"
	"swingbot/internal/strategy/analytics"
	"swingbot/internal/strategy/backtesting"
	"swingbot/internal/strategy/signals"
)

// BatchService orchestrates a multi-asset backtest batch.
type BatchService struct {
	cfg    *config.Config
	logger ports.Logger
	repo   ports.ResultRepository // Optional; nil disables persistence
}

// AssetResult is the per-asset outcome of a batch. Exactly one of Run or Err
// is set: a skipped asset carries the error that excluded it.
type AssetResult struct {
	Asset string
	Run   *domain.BacktestRun
	Err   error
}

// BatchReport summarizes one completed batch.
type BatchReport struct {
	Results   []AssetResult
	Succeeded int
	Skipped   int
}

// NewBatchService creates the batch runner. The repository may be nil when
// results only need to be reported, not stored.
func NewBatchService(cfg *config.Config, logger ports.Logger, repo ports.ResultRepository) (*BatchService, error) {
	if cfg == nil || logger == nil {
		return nil, fmt.Errorf("%w: missing required dependencies for BatchService", ports.ErrConfigurationError)
	}
	return &BatchService{cfg: cfg, logger: logger, repo: repo}, nil
}

// Run executes the scenario: every asset is loaded, simulated and summarized
// on a bounded worker pool. Bad input data skips that asset and the batch
// continues; a configuration error is fatal because it would invalidate
// every run the same way. Results come back in scenario order.
func (s *BatchService) Run(ctx context.Context, scenario *config.Scenario) (*BatchReport, error) {
	if scenario == nil || len(scenario.Assets) == 0 {
		return nil, fmt.Errorf("%w: scenario has no assets", ports.ErrConfigurationError)
	}

	workers := s.cfg.Workers
	if scenario.Workers > 0 {
		workers = scenario.Workers
	}
	if workers > len(scenario.Assets) {
		workers = len(scenario.Assets)
	}

	s.logger.Info(ctx, "Starting batch", map[string]interface{}{
		"scenario": scenario.Name, "assets": len(scenario.Assets), "workers": workers,
	})

	type job struct {
		index int
		asset config.ScenarioAsset
	}
	jobs := make(chan job)
	results := make([]AssetResult, len(scenario.Assets))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				run, err := s.runAsset(ctx, j.asset)
				results[j.index] = AssetResult{Asset: j.asset.Name, Run: run, Err: err}
			}
		}()
	}

	for i, asset := range scenario.Assets {
		select {
		case jobs <- job{index: i, asset: asset}:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
	}

	report := &BatchReport{Results: results}
	for _, res := range results {
		if res.Err != nil {
			// Configuration errors would fail every asset identically, so the
			// first one aborts the batch instead of producing a wall of skips.
			if errors.Is(res.Err, ports.ErrConfigurationError) {
				return nil, res.Err
			}
			report.Skipped++
			s.logger.Warn(ctx, "Asset skipped", map[string]interface{}{
				"asset": res.Asset, "reason": res.Err.Error(),
			})
			continue
		}
		report.Succeeded++
	}

	s.logger.Info(ctx, "Batch finished", map[string]interface{}{
		"scenario": scenario.Name, "succeeded": report.Succeeded, "skipped": report.Skipped,
	})
	return report, nil
}

// runAsset loads, simulates, summarizes and optionally persists one asset.
func (s *BatchService) runAsset(ctx context.Context, asset config.ScenarioAsset) (*domain.BacktestRun, error) {
	klines, err := csvstore.ReadKlines(asset.DataFile)
	if err != nil {
		return nil, fmt.Errorf("loading data for %s: %w", asset.Name, err)
	}

	src, err := s.buildSignalSource(asset)
	if err != nil {
		return nil, err
	}

	engineCfg := backtesting.Config{
		Symbol:              asset.Name,
		InitialCapital:      s.cfg.InitialCapital,
		FeeRate:             s.cfg.FeeRate,
		StopLossPct:         s.cfg.StopLossPct,
		TakeProfitPct:       s.cfg.TakeProfitPct,
		MaxPositions:        s.cfg.MaxPositions,
		ConfidenceThreshold: s.cfg.ConfidenceThreshold,
		WarmupWindow:        s.cfg.WarmupWindow,
	}

	res, err := backtesting.Run(ctx, engineCfg, klines, src, s.logger)
	if err != nil {
		return nil, fmt.Errorf("simulating %s: %w", asset.Name, err)
	}

	summary := analytics.Summarize(s.cfg.InitialCapital, res.Trades, res.EquityCurve)
	run := &domain.BacktestRun{
		Asset:     asset.Name,
		CreatedAt: time.Now().UTC(),
		Summary:   *summary,
		Trades:    res.Trades,
	}

	if s.repo != nil {
		if _, err := s.repo.SaveRun(ctx, run); err != nil {
			// Persistence failure should not discard a computed result.
			s.logger.Error(ctx, err, "Failed to persist run", map[string]interface{}{"asset": asset.Name})
		}
	}
	return run, nil
}

func (s *BatchService) buildSignalSource(asset config.ScenarioAsset) (ports.SignalSource, error) {
	switch asset.SignalName() {
	case config.SignalLabelReplay:
		return signals.NewLabelReplay(s.cfg.ZigzagDeviationPct, 2)
	case config.SignalCrossover:
		return signals.NewCrossover(signals.CrossoverConfig{
			FastPeriod:    s.cfg.SignalFastPeriod,
			SlowPeriod:    s.cfg.SignalSlowPeriod,
			RSIPeriod:     s.cfg.SignalRSIPeriod,
			RSIOverbought: s.cfg.SignalRSIOverbought,
			RSIOversold:   s.cfg.SignalRSIOversold,
		}, s.logger)
	default:
		return nil, fmt.Errorf("%w: unknown signal source %q for asset %s",
			ports.ErrConfigurationError, asset.Signal, asset.Name)
	}
}
