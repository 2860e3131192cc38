package backtesting

import (
	"context"
	"fmt"

	"swingbot/internal/domain"
	"swingbot/internal/portfolio"
	"swingbot/internal/ports"
)

// Config holds configuration for one simulation run.
type Config struct {
	Symbol              string
	InitialCapital      float64
	FeeRate             float64
	StopLossPct         float64
	TakeProfitPct       float64
	MaxPositions        int
	ConfidenceThreshold float64 // Entry requires confidence strictly above this
	WarmupWindow        int     // Steps before the signal source is consulted
}

func (c Config) validate() error {
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence threshold must be in (0, 1]", ports.ErrConfigurationError)
	}
	if c.WarmupWindow < 0 {
		return fmt.Errorf("%w: warm-up window cannot be negative", ports.ErrConfigurationError)
	}
	return nil
}

// Result holds the output of one simulation run.
type Result struct {
	Trades         []*domain.Trade
	EquityCurve    []domain.EquitySample
	AcceptedOpens  int
	RejectedOpens  int
	SignalFailures int // Steps where the signal source failed and was treated as Neutral
}

// Run drives one asset's simulation over the kline series.
//
// Each step resolves exits before entries, so a position can never open and
// close in the same step off the same signal. After the warm-up window the
// signal source is consulted; an Up prediction above the confidence threshold
// opens a long, a Down prediction is deliberately a no-op (long-only policy),
// and a failed prediction degrades that step to Neutral without aborting the
// run. Every step appends one equity sample; the last step force-closes all
// remaining positions before sampling.
//
// Steps are strictly sequential: ledger state at step i+1 depends on step i.
func Run(ctx context.Context, cfg Config, klines []*domain.Kline, src ports.SignalSource, logger ports.Logger) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(klines) < 2 {
		return nil, fmt.Errorf("%w: got %d klines", ports.ErrInsufficientData, len(klines))
	}
	for i := 1; i < len(klines); i++ {
		if !klines[i].OpenTime.After(klines[i-1].OpenTime) {
			return nil, fmt.Errorf("%w: step %d not after step %d", ports.ErrUnorderedSeries, i, i-1)
		}
	}

	ledger, err := portfolio.NewLedger(portfolio.Config{
		Symbol:         cfg.Symbol,
		InitialCapital: cfg.InitialCapital,
		FeeRate:        cfg.FeeRate,
		StopLossPct:    cfg.StopLossPct,
		TakeProfitPct:  cfg.TakeProfitPct,
		MaxPositions:   cfg.MaxPositions,
	})
	if err != nil {
		return nil, err
	}

	warmup := cfg.WarmupWindow
	if src != nil && src.RequiredDataPoints() > warmup {
		warmup = src.RequiredDataPoints()
	}

	res := &Result{
		EquityCurve: make([]domain.EquitySample, 0, len(klines)),
	}
	last := len(klines) - 1

	for i, k := range klines {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
		}
		price := k.Close
		ts := k.OpenTime

		if i >= warmup {
			// Exits first.
			res.Trades = append(res.Trades, ledger.MarkAndManage(ts, price)...)

			pred := predict(ctx, src, klines[:i+1], res, logger)
			if pred.Class == domain.SignalUp && pred.Confidence > cfg.ConfidenceThreshold && i != last {
				if pos, reject := ledger.Open(ts, price); reject == portfolio.RejectNone {
					res.AcceptedOpens++
					logger.Debug(ctx, "Opened position", map[string]interface{}{
						"symbol": cfg.Symbol, "step": i, "price": price, "positionID": pos.ID,
					})
				} else {
					res.RejectedOpens++
				}
			}
		}

		if i == last {
			res.Trades = append(res.Trades, ledger.CloseAll(ts, price)...)
		}

		res.EquityCurve = append(res.EquityCurve, domain.EquitySample{
			Time:  ts,
			Value: ledger.Equity(price),
		})
	}

	logger.Info(ctx, "Simulation finished", map[string]interface{}{
		"symbol":         cfg.Symbol,
		"steps":          len(klines),
		"trades":         len(res.Trades),
		"acceptedOpens":  res.AcceptedOpens,
		"rejectedOpens":  res.RejectedOpens,
		"signalFailures": res.SignalFailures,
		"finalEquity":    res.EquityCurve[len(res.EquityCurve)-1].Value,
	})

	return res, nil
}

// predict consults the signal source for the last step of the window. A nil
// source and a failing source both degrade to Neutral; failures are counted
// for observability but never abort the run.
func predict(ctx context.Context, src ports.SignalSource, window []*domain.Kline, res *Result, logger ports.Logger) domain.Prediction {
	if src == nil {
		return domain.Prediction{Class: domain.SignalNeutral}
	}
	pred, err := src.Predict(ctx, window)
	if err != nil {
		res.SignalFailures++
		logger.Warn(ctx, "Signal source failed, treating step as neutral", map[string]interface{}{
			"source": src.Name(), "step": len(window) - 1, "error": err.Error(),
		})
		return domain.Prediction{Class: domain.SignalNeutral}
	}
	return pred
}
