package domain

// Side represents the direction of a position. Only long positions are
// supported: a down signal never opens a short, it only withholds buying.
type Side string

const (
	SideLong Side = "LONG"
)

// PositionStatus represents the status of a simulated position.
type PositionStatus string

const (
	StatusOpen   PositionStatus = "open"
	StatusClosed PositionStatus = "closed"
)

// CloseReason indicates why a position was closed.
type CloseReason string

const (
	CloseReasonStopLoss    CloseReason = "STOP_LOSS"
	CloseReasonTakeProfit  CloseReason = "TAKE_PROFIT"
	CloseReasonEndOfSeries CloseReason = "END_OF_SERIES"
	CloseReasonUnknown     CloseReason = "UNKNOWN"
)

// SignalClass is the categorical output of a signal source.
type SignalClass int

const (
	SignalNeutral SignalClass = iota
	SignalUp
	SignalDown
)

// String returns the string representation of the SignalClass.
func (s SignalClass) String() string {
	switch s {
	case SignalNeutral:
		return "NEUTRAL"
	case SignalUp:
		return "UP"
	case SignalDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// Prediction is a per-step classification with an associated confidence in [0,1].
type Prediction struct {
	Class      SignalClass
	Confidence float64
}
