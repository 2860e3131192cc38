// Package signals provides the built-in signal sources. A signal source maps
// a growing kline window to a class prediction; the simulation engine only
// ever sees the ports.SignalSource interface, so sources can be swapped per
// scenario without touching the engine.
package signals

import (
	"context"
	"fmt"

	"swingbot/internal/domain"
	"swingbot/internal/ports"
	"swingbot/internal/strategy/pivots"
)

// LabelReplay derives signals by running pivot detection over the visible
// window and replaying the structural label of the newest step. Because the
// pivots are recomputed per window, the label at the window's end only ever
// reflects data up to that step.
type LabelReplay struct {
	detector *pivots.Detector
	minBars  int
}

// NewLabelReplay builds a replay source around a zigzag detector with the
// given reversal threshold in percent.
func NewLabelReplay(deviationPct float64, minBars int) (*LabelReplay, error) {
	det, err := pivots.NewDetector(deviationPct)
	if err != nil {
		return nil, err
	}
	if minBars < 2 {
		minBars = 2
	}
	return &LabelReplay{detector: det, minBars: minBars}, nil
}

func (s *LabelReplay) Name() string { return "label-replay" }

// RequiredDataPoints is the minimum window before any label can exist: the
// labeler needs at least three pivots, which needs a handful of bars.
func (s *LabelReplay) RequiredDataPoints() int { return s.minBars }

func (s *LabelReplay) Predict(ctx context.Context, window []*domain.Kline) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
	}
	if len(window) < s.minBars {
		return domain.Prediction{}, fmt.Errorf("%w: got %d klines, need %d",
			ports.ErrInsufficientData, len(window), s.minBars)
	}

	pvts := s.detector.Detect(window)
	labels := pivots.LabelSeries(window, pvts)

	last := labels[len(labels)-1]
	pred := domain.Prediction{Class: domain.SignalNeutral, Confidence: 1}
	switch last {
	case domain.LabelImpulseUp:
		pred.Class = domain.SignalUp
	case domain.LabelImpulseDown:
		pred.Class = domain.SignalDown
	}
	return pred, nil
}
