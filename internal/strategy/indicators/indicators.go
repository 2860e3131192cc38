// Package indicators computes technical-indicator series from kline data.
// All functions are pure and aligned 1:1 with their input: positions that
// fall inside an indicator's warm-up window hold NaN. A value at index i only
// depends on klines up to and including i, so the series are safe to consume
// step by step without lookahead.
package indicators

import (
	"math"

	"swingbot/internal/domain"
)

// Closes extracts the close prices of a kline series.
func Closes(klines []*domain.Kline) []float64 {
	out := make([]float64, len(klines))
	for i, k := range klines {
		out[i] = k.Close
	}
	return out
}

// PctReturn is the one-period percentage change of the input series.
func PctReturn(values []float64) []float64 {
	out := nanSlice(len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			out[i] = (values[i] - values[i-1]) / values[i-1]
		}
	}
	return out
}

// SMA is the simple moving average over the given period. Windows containing
// NaN (another indicator's warm-up values) stay NaN instead of contaminating
// the rest of the series.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		var sum float64
		valid := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				valid = false
				break
			}
			sum += values[j]
		}
		if valid {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA is the exponential moving average seeded with the first value, using
// the standard 2/(period+1) smoothing factor.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = (values[i]-ema)*alpha + ema
		out[i] = ema
	}
	return out
}

// RSI is the Relative Strength Index over simple rolling averages of gains
// and losses. 100 when there are no losses in the window, 0 when no gains.
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i >= period {
			avgGain := gainSum / float64(period)
			avgLoss := lossSum / float64(period)
			switch {
			case avgLoss == 0 && avgGain == 0:
				out[i] = 50
			case avgLoss == 0:
				out[i] = 100
			default:
				rs := avgGain / avgLoss
				out[i] = 100 - 100/(1+rs)
			}
		}
	}
	return out
}

// MACD returns the MACD line, signal line and histogram for the classic
// fast/slow/signal EMA construction.
func MACD(values []float64, fast, slow, signal int) (macd, signalLine, histogram []float64) {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)

	macd = nanSlice(len(values))
	for i := range values {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signalLine = EMA(macd, signal)

	histogram = nanSlice(len(values))
	for i := range values {
		histogram[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, histogram
}

// Bollinger returns the upper band, middle (SMA) and lower band using the
// rolling standard deviation scaled by stdDev.
func Bollinger(values []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	middle = SMA(values, period)
	upper = nanSlice(len(values))
	lower = nanSlice(len(values))

	for i := period - 1; i < len(values); i++ {
		mean := middle[i]
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}
		// Sample deviation over the window, matching the usual band definition.
		sd := math.Sqrt(variance / float64(period-1))
		upper[i] = mean + sd*stdDev
		lower[i] = mean - sd*stdDev
	}
	return upper, middle, lower
}

// Stochastic returns the %K and %D lines of the stochastic oscillator.
func Stochastic(klines []*domain.Kline, kPeriod, dPeriod int) (percentK, percentD []float64) {
	percentK = nanSlice(len(klines))
	for i := kPeriod - 1; i < len(klines); i++ {
		lowest := math.Inf(1)
		highest := math.Inf(-1)
		for j := i - kPeriod + 1; j <= i; j++ {
			lowest = math.Min(lowest, klines[j].Low)
			highest = math.Max(highest, klines[j].High)
		}
		if highest > lowest {
			percentK[i] = 100 * (klines[i].Close - lowest) / (highest - lowest)
		} else {
			percentK[i] = 50
		}
	}
	percentD = SMA(percentK, dPeriod)
	return percentK, percentD
}

// ATR is the rolling simple average of the true range.
func ATR(klines []*domain.Kline, period int) []float64 {
	out := nanSlice(len(klines))
	if period <= 0 || len(klines) < period {
		return out
	}

	tr := make([]float64, len(klines))
	for i, k := range klines {
		if i == 0 {
			tr[i] = k.High - k.Low
			continue
		}
		prevClose := klines[i-1].Close
		tr[i] = math.Max(k.High-k.Low,
			math.Max(math.Abs(k.High-prevClose), math.Abs(k.Low-prevClose)))
	}

	var sum float64
	for i, v := range tr {
		sum += v
		if i >= period {
			sum -= tr[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// VolumeDelta is the signed volume per step: positive for an up candle
// (close above open), negative otherwise.
func VolumeDelta(klines []*domain.Kline) []float64 {
	out := make([]float64, len(klines))
	for i, k := range klines {
		if k.Close > k.Open {
			out[i] = k.Volume
		} else {
			out[i] = -k.Volume
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
