package domain

import "time"

// Position represents an open simulated position. Positions are owned by a
// portfolio ledger: they are created on an accepted entry, keyed by a
// monotonically increasing ID, and destroyed when the closing Trade is emitted.
type Position struct {
	ID         int64          // Ledger-assigned identifier, increases monotonically per run
	Symbol     string         // Trading symbol (e.g., "PETR4.SA")
	Side       Side           // Always SideLong
	EntryTime  time.Time      // Timestamp of the entry step
	EntryPrice float64        // Price at which the position was entered
	Quantity   float64        // Whole units bought (floor of slice / price)
	EntryCost  float64        // Quantity * EntryPrice * (1 + fee), already debited from cash
	StopLoss   float64        // EntryPrice * (1 - stopLossPct)
	TakeProfit float64        // EntryPrice * (1 + takeProfitPct)
	Status     PositionStatus // Current status (open, closed)
}

// IsOpen checks if the position status is open.
func (p *Position) IsOpen() bool {
	return p.Status == StatusOpen
}
