package pivots

import (
	"testing"

	"swingbot/internal/domain"
)

func TestLabelSeriesTooFewPivots(t *testing.T) {
	klines := seriesFromPrices([]float64{100, 101, 102, 103})
	pivots := []domain.Pivot{
		{Index: 0, Price: 100},
		{Index: 3, Price: 103},
	}

	labels := LabelSeries(klines, pivots)

	if len(labels) != len(klines) {
		t.Fatalf("expected %d labels, got %d", len(klines), len(labels))
	}
	for i, l := range labels {
		if l != domain.LabelUndefined {
			t.Errorf("step %d: expected Undefined with sparse pivots, got %s", i, l)
		}
	}
}

func TestLabelSeriesSegments(t *testing.T) {
	klines := seriesFromPrices([]float64{100, 103, 107, 104, 99, 95, 98, 104})
	pivots := []domain.Pivot{
		{Index: 1, Price: 100},
		{Index: 2, Price: 107, Direction: domain.TrendUp},
		{Index: 5, Price: 95, Direction: domain.TrendDown},
		{Index: 7, Price: 104, Direction: domain.TrendUp},
	}

	labels := LabelSeries(klines, pivots)

	want := []domain.Label{
		domain.LabelUndefined,   // before the first pivot
		domain.LabelImpulseUp,   // leg 100 -> 107
		domain.LabelImpulseDown, // boundary: down leg overwrites the up leg end
		domain.LabelImpulseDown,
		domain.LabelImpulseDown,
		domain.LabelImpulseUp, // boundary: up leg overwrites the down leg end
		domain.LabelImpulseUp,
		domain.LabelImpulseUp,
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], labels[i])
		}
	}
}

// Every step gets exactly one label, and Undefined appears only ahead of the
// first pivot once three or more pivots exist.
func TestLabelSeriesCoverage(t *testing.T) {
	prices := []float64{
		100, 103, 107, 104, 99, 95, 98, 104, 110, 108,
		101, 96, 92, 97, 103, 109, 115, 111, 105, 100,
	}
	klines := seriesFromPrices(prices)
	d, _ := NewDetector(4.0)
	pivots := d.Detect(klines)
	if len(pivots) < 3 {
		t.Fatalf("test series produced only %d pivots", len(pivots))
	}

	labels := LabelSeries(klines, pivots)
	if len(labels) != len(klines) {
		t.Fatalf("expected %d labels, got %d", len(klines), len(labels))
	}

	first := pivots[0].Index
	last := pivots[len(pivots)-1].Index
	for i, l := range labels {
		if i >= first && i <= last && l == domain.LabelUndefined {
			t.Errorf("step %d inside the pivot span is Undefined", i)
		}
		if i < first && l != domain.LabelUndefined {
			t.Errorf("step %d before the first pivot has label %s", i, l)
		}
	}
}
