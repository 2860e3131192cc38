package pivots

import (
	"fmt"

	"swingbot/internal/domain"
)

// Detector finds confirmed turning points (ZigZag pivots) in a kline series.
// The scan is a single forward pass and never looks ahead of the current
// index, so pivots can be used to label historical data without lookahead
// bias. DeviationPct is expressed in percent units (3.0 means 3%).
type Detector struct {
	DeviationPct float64
}

// NewDetector creates a pivot detector. The deviation threshold must be positive.
func NewDetector(deviationPct float64) (*Detector, error) {
	if deviationPct <= 0 {
		return nil, fmt.Errorf("deviation threshold must be positive, got %f", deviationPct)
	}
	return &Detector{DeviationPct: deviationPct}, nil
}

// Detect scans the series once and returns the pivot sequence.
//
// The scan keeps a trailing anchor: while trending up the anchor follows every
// new high without emitting anything; only a retracement of at least
// DeviationPct from the anchor confirms the anchor as a pivot and flips the
// trend. The down trend is the mirror image. Before any trend is established,
// whichever threshold is crossed first wins; if both are crossed at the same
// index, up wins.
//
// The current anchor is always emitted at series end, marked unconfirmed,
// even when no reversal has validated it. Fewer than 2 input points yields no
// pivots.
func (d *Detector) Detect(klines []*domain.Kline) []domain.Pivot {
	if len(klines) < 2 {
		return nil
	}

	var pivots []domain.Pivot

	trend := domain.TrendNone
	anchorIdx := 0
	anchorPrice := klines[0].Close

	emit := func(confirmed bool) {
		pivots = append(pivots, domain.Pivot{
			Index:     anchorIdx,
			Time:      klines[anchorIdx].OpenTime,
			Price:     anchorPrice,
			Direction: trend,
			Confirmed: confirmed,
		})
	}

	for i := 1; i < len(klines); i++ {
		high := klines[i].High
		low := klines[i].Low

		highChange := (high - anchorPrice) / anchorPrice * 100
		lowChange := (low - anchorPrice) / anchorPrice * 100

		switch trend {
		case domain.TrendNone:
			if highChange >= d.DeviationPct {
				emit(true)
				trend = domain.TrendUp
				anchorIdx, anchorPrice = i, high
			} else if lowChange <= -d.DeviationPct {
				emit(true)
				trend = domain.TrendDown
				anchorIdx, anchorPrice = i, low
			}

		case domain.TrendUp:
			if high > anchorPrice {
				// New high extends the trailing anchor, nothing is emitted yet.
				anchorIdx, anchorPrice = i, high
			} else if lowChange <= -d.DeviationPct {
				emit(true)
				trend = domain.TrendDown
				anchorIdx, anchorPrice = i, low
			}

		case domain.TrendDown:
			if low < anchorPrice {
				anchorIdx, anchorPrice = i, low
			} else if highChange >= d.DeviationPct {
				emit(true)
				trend = domain.TrendUp
				anchorIdx, anchorPrice = i, high
			}
		}
	}

	// The last anchor closes the sequence even without threshold confirmation.
	emit(false)

	return pivots
}
