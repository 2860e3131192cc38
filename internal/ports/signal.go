package ports

import (
	"context"

	"swingbot/internal/domain"
)

// SignalSource produces a per-step trading signal. The window holds the klines
// up to and including the current step; implementations must not use any
// information beyond the last element (no lookahead). The simulation loop
// enforces a warm-up period before the source is consulted.
//
// A failed prediction for one step is recovered by the caller: the step is
// treated as Neutral and the run continues.
type SignalSource interface {
	// Name returns a short identifier for reporting.
	Name() string

	// RequiredDataPoints returns the minimum window length the source needs
	// before its predictions are meaningful.
	RequiredDataPoints() int

	// Predict classifies the last step of the window.
	Predict(ctx context.Context, window []*domain.Kline) (domain.Prediction, error)
}
