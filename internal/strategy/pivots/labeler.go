package pivots

import "swingbot/internal/domain"

// LabelSeries assigns a trend label to every kline based on the pivot legs
// that contain it. For each consecutive pivot pair, every step in the closed
// interval [P_i, P_i+1] is labeled ImpulseUp when the leg rises and
// ImpulseDown when it falls. Boundary steps belong to both adjacent legs;
// processing in pivot order makes the later leg win deterministically.
//
// Steps before the first pivot stay Undefined. With fewer than 3 pivots the
// structure is too sparse to trust and the whole series is Undefined.
func LabelSeries(klines []*domain.Kline, pivots []domain.Pivot) []domain.Label {
	labels := make([]domain.Label, len(klines))

	if len(pivots) < 3 {
		return labels
	}

	for i := 0; i < len(pivots)-1; i++ {
		from, to := pivots[i], pivots[i+1]

		leg := domain.LabelImpulseDown
		if to.Price > from.Price {
			leg = domain.LabelImpulseUp
		}

		for j := from.Index; j <= to.Index && j < len(labels); j++ {
			labels[j] = leg
		}
	}

	return labels
}
