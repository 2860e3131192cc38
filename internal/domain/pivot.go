package domain

import "time"

// TrendDirection is the state of the pivot scan between two turning points.
type TrendDirection int

const (
	TrendNone TrendDirection = iota
	TrendUp
	TrendDown
)

// String returns the string representation of the TrendDirection.
func (d TrendDirection) String() string {
	switch d {
	case TrendUp:
		return "UP"
	case TrendDown:
		return "DOWN"
	default:
		return "NONE"
	}
}

// Pivot is a confirmed local price extreme. A pivot emitted while the scan was
// trending up is a local maximum, one emitted while trending down a local
// minimum. Direction is TrendNone only for the degenerate case where no trend
// was ever established and the initial anchor is emitted alone.
type Pivot struct {
	Index     int            // Offset into the source kline series
	Time      time.Time      // OpenTime of the kline holding the extreme
	Price     float64        // The extreme price (high for up-legs, low for down-legs)
	Direction TrendDirection // Trend that produced this pivot
	Confirmed bool           // False for the final anchor emitted at series end
}

// Label is the categorical trend assigned to a single time step.
type Label int

const (
	LabelUndefined   Label = 0
	LabelImpulseUp   Label = 1
	LabelImpulseDown Label = 2
)

// String returns the string representation of the Label.
func (l Label) String() string {
	switch l {
	case LabelImpulseUp:
		return "IMPULSE_UP"
	case LabelImpulseDown:
		return "IMPULSE_DOWN"
	default:
		return "UNDEFINED"
	}
}
