package indicators

import (
	"TradePilot/internal/domain/models"
)

const (
	rsiPeriod  = 14
	maFast     = 7
	maSlow     = 25
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	baseConfidence     = 50
	degradedConfidence = 30
	maxConfidence      = 95
)

// Calculator derives a technical SubSignal from a candle series.
type Calculator struct {
	macdMode MACDMode
}

// NewCalculator creates a technical calculator. mode selects the MACD
// signal-line computation (compat or strict).
func NewCalculator(mode MACDMode) *Calculator {
	if mode != MACDStrict {
		mode = MACDCompat
	}
	return &Calculator{macdMode: mode}
}

// Analyze computes RSI, moving averages, and MACD for the series and maps
// them to a categorical signal with a confidence score. A series shorter
// than the RSI lookback degrades to NEUTRAL/30 instead of failing; the
// caller keeps processing sibling coins.
func (c *Calculator) Analyze(series models.CandleSeries) models.SubSignal {
	closes := series.Closes()
	if len(closes) < rsiPeriod {
		return models.SubSignal{
			Coin:       series.Coin,
			Source:     models.SourceTechnical,
			Signal:     models.Neutral,
			Confidence: degradedConfidence,
			Err:        "insufficient price data",
		}
	}

	rsi := RSI(closes, rsiPeriod)
	ma7 := SMA(closes, maFast)
	ma25 := SMA(closes, maSlow)
	macd := MACD(closes, macdFast, macdSlow, macdSignal, c.macdMode)

	signal := models.Neutral
	confidence := float64(baseConfidence)

	switch {
	case rsi < 30:
		signal = models.StrongBuy
		confidence += 20
	case rsi < 40:
		signal = models.Buy
		confidence += 10
	case rsi > 70:
		signal = models.StrongSell
		confidence += 20
	case rsi > 60:
		signal = models.Sell
		confidence += 10
	}

	// MA crossover agreement
	if ma7 > ma25 && !signal.IsBearish() {
		confidence += 10
	} else if ma7 < ma25 && !signal.IsBullish() {
		confidence += 10
	}

	// MACD confirmation
	if macd.Histogram > 0 && signal.IsBullish() {
		confidence += 15
	} else if macd.Histogram < 0 && signal.IsBearish() {
		confidence += 15
	}

	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return models.SubSignal{
		Coin:       series.Coin,
		Source:     models.SourceTechnical,
		Signal:     signal,
		Confidence: confidence,
		Evidence: models.Evidence{
			RSI:      rsi,
			MA7:      ma7,
			MA25:     ma25,
			MACD:     macd.MACD,
			MACDHist: macd.Histogram,
		},
	}
}
