package indicators

import (
	"math"

	"swingbot/internal/domain"
)

// FeatureConfig holds the indicator periods used to build feature vectors.
type FeatureConfig struct {
	SMAShortPeriod  int
	SMALongPeriod   int
	RSIPeriod       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerPeriod int
	BollingerStdDev float64
	StochKPeriod    int
	StochDPeriod    int
	ATRPeriod       int
}

// DefaultFeatureConfig mirrors the common parameterization: SMA 20/50,
// RSI 14, MACD 12/26/9, Bollinger 20/2, Stochastic 14/3, ATR 14.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		SMAShortPeriod:  20,
		SMALongPeriod:   50,
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerStdDev: 2,
		StochKPeriod:    14,
		StochDPeriod:    3,
		ATRPeriod:       14,
	}
}

// FeatureVector is the per-step input handed to a signal source. Complete is
// false while any underlying indicator is still warming up.
type FeatureVector struct {
	PctReturn     float64
	SMAShort      float64
	SMALong       float64
	RSI           float64
	MACD          float64
	MACDSignal    float64
	MACDHistogram float64
	VolumeDelta   float64
	BBUpper       float64
	BBMiddle      float64
	BBLower       float64
	StochK        float64
	StochD        float64
	ATR           float64
	Complete      bool
}

// BuildFeatures computes the full feature matrix for a kline series, one
// vector per step. Each vector only depends on klines up to its own index.
func BuildFeatures(klines []*domain.Kline, cfg FeatureConfig) []FeatureVector {
	closes := Closes(klines)

	pct := PctReturn(closes)
	smaShort := SMA(closes, cfg.SMAShortPeriod)
	smaLong := SMA(closes, cfg.SMALongPeriod)
	rsi := RSI(closes, cfg.RSIPeriod)
	macd, macdSignal, macdHist := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	volDelta := VolumeDelta(klines)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, cfg.BollingerPeriod, cfg.BollingerStdDev)
	stochK, stochD := Stochastic(klines, cfg.StochKPeriod, cfg.StochDPeriod)
	atr := ATR(klines, cfg.ATRPeriod)

	features := make([]FeatureVector, len(klines))
	for i := range klines {
		f := FeatureVector{
			PctReturn:     pct[i],
			SMAShort:      smaShort[i],
			SMALong:       smaLong[i],
			RSI:           rsi[i],
			MACD:          macd[i],
			MACDSignal:    macdSignal[i],
			MACDHistogram: macdHist[i],
			VolumeDelta:   volDelta[i],
			BBUpper:       bbUpper[i],
			BBMiddle:      bbMiddle[i],
			BBLower:       bbLower[i],
			StochK:        stochK[i],
			StochD:        stochD[i],
			ATR:           atr[i],
		}
		f.Complete = !anyNaN(
			f.PctReturn, f.SMAShort, f.SMALong, f.RSI,
			f.MACD, f.MACDSignal, f.MACDHistogram,
			f.BBUpper, f.BBMiddle, f.BBLower,
			f.StochK, f.StochD, f.ATR,
		)
		features[i] = f
	}
	return features
}

// WarmupSteps is a conservative count of leading steps to discard before
// feature vectors for the given configuration are complete.
func WarmupSteps(cfg FeatureConfig) int {
	warmup := cfg.SMALongPeriod
	if cfg.BollingerPeriod > warmup {
		warmup = cfg.BollingerPeriod
	}
	if v := cfg.StochKPeriod + cfg.StochDPeriod - 1; v > warmup {
		warmup = v
	}
	if cfg.RSIPeriod+1 > warmup {
		warmup = cfg.RSIPeriod + 1
	}
	if cfg.ATRPeriod > warmup {
		warmup = cfg.ATRPeriod
	}
	return warmup
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
