// Package optimization sweeps simulation parameters over a grid and ranks
// the runs by a configurable score.
package optimization

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"swingbot/internal/domain"
	"swingbot/internal/ports"
	"swingbot/internal/strategy/analytics"
	"swingbot/internal/strategy/backtesting"
	"swingbot/internal/strategy/signals"
)

// ParameterRange defines one axis of the sweep grid.
type ParameterRange struct {
	Name string
	Min  float64
	Max  float64
	Step float64
}

// Grid parameter names understood by the sweep.
const (
	ParamDeviationPct  = "deviation_pct"
	ParamStopLossPct   = "stop_loss_pct"
	ParamTakeProfitPct = "take_profit_pct"
)

// Result holds one grid point's outcome.
type Result struct {
	Parameters map[string]float64
	Summary    *domain.PerformanceSummary
	Score      float64
}

// Config holds configuration for a sweep. Base is the simulation config the
// grid points mutate; Workers caps the number of concurrent runs.
type Config struct {
	Ranges  []ParameterRange
	Base    backtesting.Config
	Workers int
	Score   func(*domain.PerformanceSummary) float64
}

// Optimizer runs the sweep.
type Optimizer struct {
	cfg    Config
	logger ports.Logger
}

func NewOptimizer(cfg Config, logger ports.Logger) (*Optimizer, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger is required", ports.ErrConfigurationError)
	}
	if len(cfg.Ranges) == 0 {
		return nil, fmt.Errorf("%w: at least one parameter range is required", ports.ErrConfigurationError)
	}
	for _, r := range cfg.Ranges {
		if r.Step <= 0 || r.Max < r.Min {
			return nil, fmt.Errorf("%w: malformed range %q", ports.ErrConfigurationError, r.Name)
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Score == nil {
		cfg.Score = DefaultScore
	}
	return &Optimizer{cfg: cfg, logger: logger}, nil
}

// Sweep evaluates every grid point against the kline series and returns the
// results sorted by score, best first. Each grid point runs its own isolated
// simulation; a point whose run fails is logged and skipped rather than
// failing the whole sweep.
func (o *Optimizer) Sweep(ctx context.Context, klines []*domain.Kline) ([]Result, error) {
	points := o.expandGrid()
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: grid expands to zero points", ports.ErrConfigurationError)
	}

	jobs := make(chan map[string]float64)
	resultChan := make(chan Result, len(points))
	var wg sync.WaitGroup

	for w := 0; w < o.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				res, err := o.evaluate(ctx, params, klines)
				if err != nil {
					o.logger.Warn(ctx, "Grid point failed, skipping", map[string]interface{}{
						"params": params, "error": err.Error(),
					})
					continue
				}
				resultChan <- res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range points {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, 0, len(points))
	for res := range resultChan {
		results = append(results, res)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

func (o *Optimizer) evaluate(ctx context.Context, params map[string]float64, klines []*domain.Kline) (Result, error) {
	cfg := o.cfg.Base
	deviation := 3.0
	if v, ok := params[ParamDeviationPct]; ok {
		deviation = v
	}
	if v, ok := params[ParamStopLossPct]; ok {
		cfg.StopLossPct = v
	}
	if v, ok := params[ParamTakeProfitPct]; ok {
		cfg.TakeProfitPct = v
	}

	src, err := signals.NewLabelReplay(deviation, 2)
	if err != nil {
		return Result{}, err
	}

	run, err := backtesting.Run(ctx, cfg, klines, src, o.logger)
	if err != nil {
		return Result{}, err
	}

	summary := analytics.Summarize(cfg.InitialCapital, run.Trades, run.EquityCurve)
	return Result{
		Parameters: params,
		Summary:    summary,
		Score:      o.cfg.Score(summary),
	}, nil
}

// expandGrid produces the cartesian product of all parameter ranges.
func (o *Optimizer) expandGrid() []map[string]float64 {
	var points []map[string]float64
	current := make(map[string]float64)

	var generate func(int)
	generate = func(idx int) {
		if idx == len(o.cfg.Ranges) {
			point := make(map[string]float64, len(current))
			for k, v := range current {
				point[k] = v
			}
			points = append(points, point)
			return
		}
		r := o.cfg.Ranges[idx]
		// Half-step epsilon absorbs float drift at the upper bound.
		for v := r.Min; v <= r.Max+r.Step/2; v += r.Step {
			current[r.Name] = v
			generate(idx + 1)
		}
	}
	generate(0)
	return points
}

// DefaultScore balances return against drawdown and consistency. A run with
// no trades scores zero so empty grids never outrank real activity.
func DefaultScore(s *domain.PerformanceSummary) float64 {
	if s.TotalTrades == 0 {
		return 0
	}
	pf := s.ProfitFactor
	if math.IsInf(pf, 1) {
		pf = 10
	}
	return s.TotalReturn*0.4 + s.WinRate*0.3 + pf*0.1 + (1-s.MaxDrawdown)*0.2
}
