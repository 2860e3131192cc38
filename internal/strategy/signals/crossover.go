package signals

import (
	"context"
	"fmt"
	"math"

	"swingbot/internal/domain"
	"swingbot/internal/ports"
	"swingbot/internal/strategy/indicators"
)

// CrossoverConfig holds configuration for the rule-based crossover source.
type CrossoverConfig struct {
	FastPeriod    int     // Fast SMA period (e.g., 8)
	SlowPeriod    int     // Slow SMA period (e.g., 21)
	RSIPeriod     int     // RSI period for the confirmation gate (e.g., 14)
	RSIOverbought float64 // Entries are suppressed above this level (e.g., 70)
	RSIOversold   float64 // Down calls are suppressed below this level (e.g., 30)
}

// Crossover is a rule-based signal source: a fast/slow moving-average spread
// sets the direction, an RSI gate suppresses calls at exhaustion levels, and
// confidence scales with how far the fast average sits from the slow one.
type Crossover struct {
	cfg    CrossoverConfig
	logger ports.Logger
}

// NewCrossover validates the configuration and builds the source.
func NewCrossover(cfg CrossoverConfig, logger ports.Logger) (*Crossover, error) {
	if logger == nil {
		return nil, fmt.Errorf("%w: logger is required", ports.ErrConfigurationError)
	}
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 || cfg.RSIPeriod <= 0 {
		return nil, fmt.Errorf("%w: indicator periods must be positive", ports.ErrConfigurationError)
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("%w: fast period must be less than slow period", ports.ErrConfigurationError)
	}
	if cfg.RSIOverbought <= cfg.RSIOversold {
		return nil, fmt.Errorf("%w: RSI overbought must exceed oversold", ports.ErrConfigurationError)
	}
	return &Crossover{cfg: cfg, logger: logger}, nil
}

func (s *Crossover) Name() string { return "sma-crossover" }

func (s *Crossover) RequiredDataPoints() int {
	required := s.cfg.SlowPeriod
	if s.cfg.RSIPeriod+1 > required {
		required = s.cfg.RSIPeriod + 1
	}
	return required
}

func (s *Crossover) Predict(ctx context.Context, window []*domain.Kline) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
	}
	if len(window) < s.RequiredDataPoints() {
		return domain.Prediction{}, fmt.Errorf("%w: got %d klines, need %d",
			ports.ErrInsufficientData, len(window), s.RequiredDataPoints())
	}

	closes := indicators.Closes(window)
	last := len(closes) - 1

	fast := indicators.SMA(closes, s.cfg.FastPeriod)[last]
	slow := indicators.SMA(closes, s.cfg.SlowPeriod)[last]
	rsi := indicators.RSI(closes, s.cfg.RSIPeriod)[last]
	if math.IsNaN(fast) || math.IsNaN(slow) || math.IsNaN(rsi) {
		return domain.Prediction{}, fmt.Errorf("%w: indicators still warming up", ports.ErrInsufficientData)
	}

	// Spread of the fast average over the slow one, as a fraction of price.
	spread := (fast - slow) / slow

	pred := domain.Prediction{Class: domain.SignalNeutral}
	switch {
	case spread > 0 && rsi < s.cfg.RSIOverbought:
		pred.Class = domain.SignalUp
	case spread < 0 && rsi > s.cfg.RSIOversold:
		pred.Class = domain.SignalDown
	}
	if pred.Class != domain.SignalNeutral {
		// Saturates at 1% spread; a hairline crossover barely clears zero.
		pred.Confidence = math.Min(math.Abs(spread)/0.01, 1)
	}

	s.logger.Debug(ctx, "Crossover evaluation", map[string]interface{}{
		"fastMA":     fast,
		"slowMA":     slow,
		"rsi":        rsi,
		"spread":     spread,
		"class":      pred.Class.String(),
		"confidence": pred.Confidence,
	})
	return pred, nil
}
