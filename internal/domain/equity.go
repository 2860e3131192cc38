package domain

import "time"

// EquitySample is one point on the equity curve: cash plus the mark-to-market
// value of all open positions at that step. Append-only, one per simulated step.
type EquitySample struct {
	Time  time.Time
	Value float64
}

// PerformanceSummary is the read-only aggregate computed over the closed
// trades and equity curve of one backtest run.
//
// SharpeLike is the mean of per-trade percentage returns over their standard
// deviation. It is a per-trade ratio, not an annualized Sharpe ratio: no
// risk-free rate is subtracted and no time scaling is applied.
type PerformanceSummary struct {
	InitialCapital float64
	FinalEquity    float64
	TotalReturn    float64 // (FinalEquity - InitialCapital) / InitialCapital
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64 // Winning / total, 0 when no trades
	GrossProfit    float64 // Sum of positive PNL
	GrossLoss      float64 // Absolute sum of negative PNL
	ProfitFactor   float64 // GrossProfit / GrossLoss, +Inf when no losers, 0 when no trades
	AverageWin     float64
	AverageLoss    float64
	MaxDrawdown    float64 // Deepest peak-to-trough decline of the equity curve
	SharpeLike     float64
}

// BacktestRun ties a performance summary and its trades to one asset run, for
// persistence and reporting.
type BacktestRun struct {
	ID        int64
	Asset     string
	CreatedAt time.Time
	Summary   PerformanceSummary
	Trades    []*Trade
}
