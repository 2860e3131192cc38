package analytics

import (
	"math"
	"testing"
	"time"

	"swingbot/internal/domain"
)

func sample(offset int, value float64) domain.EquitySample {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.EquitySample{Time: base.Add(time.Duration(offset) * time.Hour), Value: value}
}

func trade(pnl, pnlPct float64) *domain.Trade {
	return &domain.Trade{PNL: pnl, PNLPct: pnlPct}
}

func TestSummarizeEmptyTrades(t *testing.T) {
	s := Summarize(10000, nil, []domain.EquitySample{sample(0, 10000), sample(1, 10000)})

	if s.TotalTrades != 0 || s.WinRate != 0 || s.ProfitFactor != 0 {
		t.Errorf("expected zeroed rates with no trades, got %+v", s)
	}
	if s.MaxDrawdown != 0 {
		t.Errorf("expected 0 drawdown for flat curve, got %f", s.MaxDrawdown)
	}
	if s.TotalReturn != 0 {
		t.Errorf("expected 0 return for unchanged capital, got %f", s.TotalReturn)
	}
}

func TestSummarizeBasicMetrics(t *testing.T) {
	trades := []*domain.Trade{
		trade(500, 0.10),
		trade(-250, -0.05),
		trade(300, 0.06),
	}
	equity := []domain.EquitySample{
		sample(0, 10000),
		sample(1, 10500),
		sample(2, 10250),
		sample(3, 10550),
	}

	s := Summarize(10000, trades, equity)

	if s.TotalTrades != 3 || s.WinningTrades != 2 || s.LosingTrades != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if math.Abs(s.WinRate-2.0/3.0) > 1e-9 {
		t.Errorf("expected win rate 2/3, got %f", s.WinRate)
	}
	if math.Abs(s.ProfitFactor-800.0/250.0) > 1e-9 {
		t.Errorf("expected profit factor 3.2, got %f", s.ProfitFactor)
	}
	if math.Abs(s.TotalReturn-0.055) > 1e-9 {
		t.Errorf("expected total return 0.055, got %f", s.TotalReturn)
	}
	if math.Abs(s.AverageWin-400) > 1e-9 || math.Abs(s.AverageLoss-(-250)) > 1e-9 {
		t.Errorf("unexpected averages: win %f loss %f", s.AverageWin, s.AverageLoss)
	}
}

func TestSummarizeProfitFactorNoLosers(t *testing.T) {
	s := Summarize(10000, []*domain.Trade{trade(100, 0.02), trade(50, 0.01)}, nil)
	if !math.IsInf(s.ProfitFactor, 1) {
		t.Errorf("expected +Inf profit factor with no losers, got %f", s.ProfitFactor)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"monotonic rise", []float64{10000, 10100, 10200}, 0},
		{"single dip", []float64{10000, 11000, 8800, 10500}, 0.2},
		{"dip below initial", []float64{9000, 9500, 9800}, 0.1},
		{"empty curve", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equity := make([]domain.EquitySample, len(tt.values))
			for i, v := range tt.values {
				equity[i] = sample(i, v)
			}
			got := maxDrawdown(10000, equity)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected drawdown %f, got %f", tt.want, got)
			}
		})
	}
}

func TestSharpeLike(t *testing.T) {
	tests := []struct {
		name   string
		pcts   []float64
		want   float64
		within float64
	}{
		{"fewer than two trades", []float64{0.1}, 0, 0},
		{"zero variance", []float64{0.05, 0.05, 0.05}, 0, 0},
		// mean 0.05, population std sqrt(2/3)*0.05... values -0.05, 0.05, 0.15:
		// mean 0.05, std 0.0816496581.
		{"mixed returns", []float64{-0.05, 0.05, 0.15}, 0.6123724357, 1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades := make([]*domain.Trade, len(tt.pcts))
			for i, p := range tt.pcts {
				trades[i] = trade(p*1000, p)
			}
			got := sharpeLike(trades)
			if math.Abs(got-tt.want) > tt.within+1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
