package domain

import "time"

// Trade is the immutable record produced when a position closes.
type Trade struct {
	ID          int64       // Unique identifier for the trade (usually from DB)
	PositionID  int64       // Ledger ID of the position this trade closed
	Symbol      string      // Trading symbol
	EntryTime   time.Time   // Timestamp when the position was entered
	ExitTime    time.Time   // Timestamp when the position was exited
	EntryPrice  float64     // Price at which the position was entered
	ExitPrice   float64     // Price at which the position was exited
	Quantity    float64     // Size of the position traded
	PNL         float64     // Net proceeds minus entry cost, fees included on both legs
	PNLPct      float64     // PNL relative to entry cost
	CloseReason CloseReason // Reason why the position was closed (SL, TP, end of series)
}
