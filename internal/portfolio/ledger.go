package portfolio

import (
	"fmt"
	"math"
	"sort"
	"time"

	"swingbot/internal/domain"
	"swingbot/internal/ports"
)

// Config holds the capital and risk parameters of one ledger.
type Config struct {
	Symbol         string
	InitialCapital float64 // Starting cash
	FeeRate        float64 // Per-side brokerage fee (0.001 = 0.1%)
	StopLossPct    float64 // Fraction below entry (0.05 = 5%)
	TakeProfitPct  float64 // Fraction above entry (0.10 = 10%)
	MaxPositions   int     // Concurrent open position cap, also the allocation divisor
}

func (c Config) validate() error {
	var problems []string
	if c.InitialCapital <= 0 {
		problems = append(problems, "initial capital must be positive")
	}
	if c.FeeRate < 0 {
		problems = append(problems, "fee rate cannot be negative")
	}
	if c.StopLossPct <= 0 || c.StopLossPct >= 1 {
		problems = append(problems, "stop loss must be between 0 and 1 (exclusive)")
	}
	if c.TakeProfitPct <= 0 || c.TakeProfitPct >= 1 {
		problems = append(problems, "take profit must be between 0 and 1 (exclusive)")
	}
	if c.MaxPositions < 1 {
		problems = append(problems, "max positions must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", ports.ErrConfigurationError, problems)
	}
	return nil
}

// RejectReason explains why an entry was declined. Rejections are ordinary
// business outcomes, not errors: the caller skips the entry and moves on.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectMaxPositions
	RejectZeroQuantity
	RejectInsufficientCash
)

// String returns the string representation of the RejectReason.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectMaxPositions:
		return "position cap reached"
	case RejectZeroQuantity:
		return "allocation slice buys zero units"
	case RejectInsufficientCash:
		return "insufficient cash for entry cost"
	default:
		return "unknown"
	}
}

// Ledger owns the portfolio state of one asset for one run: cash, the open
// position arena and the realized trade history. It is not safe for
// concurrent use; a simulation drives it strictly sequentially.
type Ledger struct {
	cfg    Config
	cash   float64
	nextID int64
	open   map[int64]*domain.Position
	trades []*domain.Trade
}

// NewLedger creates a ledger with the configured starting cash. Configuration
// problems are fatal and reported before any simulation begins.
func NewLedger(cfg Config) (*Ledger, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Ledger{
		cfg:  cfg,
		cash: cfg.InitialCapital,
		open: make(map[int64]*domain.Position),
	}, nil
}

// assertPrice guards against malformed input. A non-positive price is a
// programming error in the caller, not a business condition.
func assertPrice(price float64) {
	if price <= 0 || math.IsNaN(price) {
		panic(fmt.Sprintf("portfolio: non-positive price %f", price))
	}
}

// Open tries to enter a long position at the given price. The position size is
// a fixed slice of available cash: floor((cash / maxPositions) / price) whole
// units. The entry is rejected, without error, when the position cap is
// reached, the slice buys zero units, or the fee-inclusive cost exceeds cash.
//
// On success cash is debited by the entry cost and the position carries its
// stop-loss and take-profit levels derived from the entry price.
func (l *Ledger) Open(t time.Time, price float64) (*domain.Position, RejectReason) {
	assertPrice(price)

	if len(l.open) >= l.cfg.MaxPositions {
		return nil, RejectMaxPositions
	}

	slice := l.cash / float64(l.cfg.MaxPositions)
	quantity := math.Floor(slice / price)
	if quantity <= 0 {
		return nil, RejectZeroQuantity
	}

	cost := quantity * price * (1 + l.cfg.FeeRate)
	if cost > l.cash {
		return nil, RejectInsufficientCash
	}

	l.cash -= cost
	l.nextID++
	pos := &domain.Position{
		ID:         l.nextID,
		Symbol:     l.cfg.Symbol,
		Side:       domain.SideLong,
		EntryTime:  t,
		EntryPrice: price,
		Quantity:   quantity,
		EntryCost:  cost,
		StopLoss:   price * (1 - l.cfg.StopLossPct),
		TakeProfit: price * (1 + l.cfg.TakeProfitPct),
		Status:     domain.StatusOpen,
	}
	l.open[pos.ID] = pos
	return pos, RejectNone
}

// MarkAndManage checks every open position against the current price and
// closes the ones whose stop-loss or take-profit level is hit. When one price
// satisfies both levels the stop-loss wins: the loss is realized first.
// Returns the trades closed at this step, in position-ID order.
func (l *Ledger) MarkAndManage(t time.Time, price float64) []*domain.Trade {
	assertPrice(price)

	var closed []*domain.Trade
	for _, id := range l.openIDs() {
		pos := l.open[id]
		switch {
		case price <= pos.StopLoss:
			closed = append(closed, l.close(pos, t, price, domain.CloseReasonStopLoss))
		case price >= pos.TakeProfit:
			closed = append(closed, l.close(pos, t, price, domain.CloseReasonTakeProfit))
		}
	}
	return closed
}

// CloseAll force-closes every remaining open position, used at series end.
func (l *Ledger) CloseAll(t time.Time, price float64) []*domain.Trade {
	assertPrice(price)

	var closed []*domain.Trade
	for _, id := range l.openIDs() {
		closed = append(closed, l.close(l.open[id], t, price, domain.CloseReasonEndOfSeries))
	}
	return closed
}

// close settles one position: credits the fee-adjusted proceeds, removes the
// position from the open arena and records the trade.
func (l *Ledger) close(pos *domain.Position, t time.Time, price float64, reason domain.CloseReason) *domain.Trade {
	proceeds := pos.Quantity * price * (1 - l.cfg.FeeRate)
	pnl := proceeds - pos.EntryCost

	l.cash += proceeds
	pos.Status = domain.StatusClosed
	delete(l.open, pos.ID)

	trade := &domain.Trade{
		PositionID:  pos.ID,
		Symbol:      pos.Symbol,
		EntryTime:   pos.EntryTime,
		ExitTime:    t,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   price,
		Quantity:    pos.Quantity,
		PNL:         pnl,
		PNLPct:      pnl / pos.EntryCost,
		CloseReason: reason,
	}
	l.trades = append(l.trades, trade)
	return trade
}

// MarkToMarket values the open positions at the given price. Pure: repeated
// calls never mutate ledger state.
func (l *Ledger) MarkToMarket(price float64) float64 {
	assertPrice(price)

	var value float64
	for _, pos := range l.open {
		value += pos.Quantity * price
	}
	return value
}

// Equity is cash plus the mark-to-market value of open positions.
func (l *Ledger) Equity(price float64) float64 {
	return l.cash + l.MarkToMarket(price)
}

// Cash returns the current free cash balance.
func (l *Ledger) Cash() float64 { return l.cash }

// OpenCount returns the number of currently open positions.
func (l *Ledger) OpenCount() int { return len(l.open) }

// Trades returns the realized trade history in close order.
func (l *Ledger) Trades() []*domain.Trade { return l.trades }

// openIDs returns the open position IDs in ascending order so that iteration
// over the arena map stays deterministic.
func (l *Ledger) openIDs() []int64 {
	ids := make([]int64, 0, len(l.open))
	for id := range l.open {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
