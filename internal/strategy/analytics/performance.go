package analytics

import (
	"math"

	"swingbot/internal/domain"
)

// Summarize aggregates the closed trades and equity curve of one run into a
// PerformanceSummary.
//
// ProfitFactor is gross profit over gross loss: +Inf when there are winners
// but no losers, 0 when there are no trades at all. MaxDrawdown is the
// deepest (peak - value)/peak over the equity curve, with the running peak
// seeded at the initial capital. SharpeLike divides the mean of per-trade
// percentage returns by their standard deviation; it is a per-trade ratio and
// must not be read as an annualized Sharpe ratio.
func Summarize(initialCapital float64, trades []*domain.Trade, equity []domain.EquitySample) *domain.PerformanceSummary {
	s := &domain.PerformanceSummary{
		InitialCapital: initialCapital,
		FinalEquity:    initialCapital,
	}

	if len(equity) > 0 {
		s.FinalEquity = equity[len(equity)-1].Value
	}
	if initialCapital > 0 {
		s.TotalReturn = (s.FinalEquity - initialCapital) / initialCapital
	}
	s.MaxDrawdown = maxDrawdown(initialCapital, equity)

	if len(trades) == 0 {
		return s
	}

	for _, tr := range trades {
		s.TotalTrades++
		if tr.PNL > 0 {
			s.WinningTrades++
			s.GrossProfit += tr.PNL
		} else {
			s.LosingTrades++
			s.GrossLoss += -tr.PNL
		}
	}

	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades)
	if s.WinningTrades > 0 {
		s.AverageWin = s.GrossProfit / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AverageLoss = -s.GrossLoss / float64(s.LosingTrades)
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	} else if s.GrossProfit > 0 {
		s.ProfitFactor = math.Inf(1)
	}

	s.SharpeLike = sharpeLike(trades)

	return s
}

// maxDrawdown runs a single forward pass over the equity curve tracking the
// running peak. A monotonically non-decreasing curve yields 0.
func maxDrawdown(initialCapital float64, equity []domain.EquitySample) float64 {
	peak := initialCapital
	var worst float64
	for _, e := range equity {
		if e.Value > peak {
			peak = e.Value
		}
		if peak > 0 {
			if dd := (peak - e.Value) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// sharpeLike is mean over population standard deviation of per-trade
// percentage returns; 0 with fewer than 2 trades or zero variance.
func sharpeLike(trades []*domain.Trade) float64 {
	if len(trades) < 2 {
		return 0
	}

	var sum float64
	for _, tr := range trades {
		sum += tr.PNLPct
	}
	mean := sum / float64(len(trades))

	var variance float64
	for _, tr := range trades {
		d := tr.PNLPct - mean
		variance += d * d
	}
	variance /= float64(len(trades))

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std
}
