package indicators

import (
	"testing"

	"TradePilot/internal/domain/models"
)

func series(closes ...float64) models.CandleSeries {
	s := models.CandleSeries{Coin: "BTC", Interval: "1h"}
	for _, c := range closes {
		s.Candles = append(s.Candles, models.Candle{Close: c})
	}
	return s
}

func TestAnalyzeDegradesOnShortSeries(t *testing.T) {
	got := NewCalculator(MACDCompat).Analyze(series(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	if !got.Degraded() {
		t.Fatalf("expected degraded signal")
	}
	if got.Signal != models.Neutral {
		t.Fatalf("expected NEUTRAL, got %s", got.Signal)
	}
	if got.Confidence != 30 {
		t.Fatalf("expected confidence 30, got %v", got.Confidence)
	}
	if got.Source != models.SourceTechnical {
		t.Fatalf("expected technical source, got %s", got.Source)
	}
}

func TestAnalyzeOversoldStrongBuy(t *testing.T) {
	// steady decline pushes RSI to 0
	closes := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		closes = append(closes, 100-float64(i))
	}
	got := NewCalculator(MACDCompat).Analyze(series(closes...))
	if got.Degraded() {
		t.Fatalf("unexpected degraded: %s", got.Err)
	}
	if got.Signal != models.StrongBuy {
		t.Fatalf("expected STRONG_BUY, got %s", got.Signal)
	}
	if got.Evidence.RSI != 0 {
		t.Fatalf("expected RSI 0, got %v", got.Evidence.RSI)
	}
	// base 50 + 20 oversold; the falling MA cross contradicts, MACD compat
	// histogram is always 0
	if got.Confidence != 70 {
		t.Fatalf("expected confidence 70, got %v", got.Confidence)
	}
}

func TestAnalyzeOverboughtStrongSell(t *testing.T) {
	closes := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		closes = append(closes, 100+float64(i))
	}
	got := NewCalculator(MACDCompat).Analyze(series(closes...))
	if got.Signal != models.StrongSell {
		t.Fatalf("expected STRONG_SELL, got %s", got.Signal)
	}
	if got.Evidence.RSI != 100 {
		t.Fatalf("expected RSI 100, got %v", got.Evidence.RSI)
	}
}

func TestAnalyzeConfidenceCapped(t *testing.T) {
	closes := make([]float64, 0, 40)
	for i := 0; i < 40; i++ {
		closes = append(closes, 100-float64(i)*3)
	}
	got := NewCalculator(MACDStrict).Analyze(series(closes...))
	if got.Confidence > 95 {
		t.Fatalf("confidence %v exceeds cap", got.Confidence)
	}
}

func TestAnalyzeNeutralMidRange(t *testing.T) {
	// alternating series keeps RSI near 50
	closes := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			closes = append(closes, 100)
		} else {
			closes = append(closes, 101)
		}
	}
	got := NewCalculator(MACDCompat).Analyze(series(closes...))
	if got.Signal != models.Neutral {
		t.Fatalf("expected NEUTRAL, got %s (rsi=%v)", got.Signal, got.Evidence.RSI)
	}
}
