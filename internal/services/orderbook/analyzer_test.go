package orderbook

import (
	"math"
	"testing"

	"TradePilot/internal/domain/models"
)

func level(price, size float64) models.BookLevel {
	return models.BookLevel{Price: price, Size: size}
}

func TestAnalyzeDegradesOnEmptySide(t *testing.T) {
	book := models.OrderbookSnapshot{
		Coin: "BTC",
		Bids: []models.BookLevel{level(100, 1)},
	}
	got := NewAnalyzer().Analyze(book)
	if !got.Degraded() {
		t.Fatalf("expected degraded signal")
	}
	if got.Signal != models.Neutral || got.Confidence != 30 {
		t.Fatalf("expected NEUTRAL/30, got %s/%v", got.Signal, got.Confidence)
	}
}

func TestAnalyzeBalancedBookIsNeutral(t *testing.T) {
	book := models.OrderbookSnapshot{
		Coin: "ETH",
		Bids: []models.BookLevel{level(99, 5), level(98, 5)},
		Asks: []models.BookLevel{level(101, 5), level(102, 5)},
	}
	got := NewAnalyzer().Analyze(book)
	if got.Degraded() {
		t.Fatalf("unexpected degraded: %s", got.Err)
	}
	if got.Signal != models.Neutral {
		t.Fatalf("expected NEUTRAL, got %s", got.Signal)
	}
	if got.Evidence.Imbalance != 0 {
		t.Fatalf("expected zero imbalance, got %v", got.Evidence.Imbalance)
	}
	if got.Confidence != 50 {
		t.Fatalf("expected confidence 50, got %v", got.Confidence)
	}
}

func TestAnalyzeBidHeavyBook(t *testing.T) {
	// bids 30, asks 10: imbalance +50%
	book := models.OrderbookSnapshot{
		Coin: "BTC",
		Bids: []models.BookLevel{level(100, 20), level(99, 10)},
		Asks: []models.BookLevel{level(101, 10)},
	}
	got := NewAnalyzer().Analyze(book)
	if got.Signal != models.StrongBuy {
		t.Fatalf("expected STRONG_BUY, got %s", got.Signal)
	}
	if math.Abs(got.Evidence.Imbalance-50) > 1e-9 {
		t.Fatalf("expected imbalance 50, got %v", got.Evidence.Imbalance)
	}
	// 50 + 50*2 caps at 95
	if got.Confidence != 95 {
		t.Fatalf("expected confidence 95, got %v", got.Confidence)
	}
}

func TestAnalyzeAskHeavyBook(t *testing.T) {
	// bids 9, asks 11: imbalance -10%
	book := models.OrderbookSnapshot{
		Coin: "SOL",
		Bids: []models.BookLevel{level(100, 9)},
		Asks: []models.BookLevel{level(101, 11)},
	}
	got := NewAnalyzer().Analyze(book)
	if got.Signal != models.Sell {
		t.Fatalf("expected SELL, got %s", got.Signal)
	}
	if got.Confidence != 70 {
		t.Fatalf("expected confidence 70, got %v", got.Confidence)
	}
}

func TestAnalyzeSpreadAndWhales(t *testing.T) {
	// total volume 100: whale threshold is 1
	book := models.OrderbookSnapshot{
		Coin: "BTC",
		Bids: []models.BookLevel{level(100, 50), level(99, 0.5)},
		Asks: []models.BookLevel{level(102, 49), level(103, 0.5)},
	}
	got := NewAnalyzer().Analyze(book)
	if got.Evidence.WhaleBids != 1 || got.Evidence.WhaleAsks != 1 {
		t.Fatalf("expected one whale per side, got %d/%d", got.Evidence.WhaleBids, got.Evidence.WhaleAsks)
	}
	want := (102.0 - 100.0) / 100.0 * 100
	if math.Abs(got.Evidence.Spread-want) > 1e-9 {
		t.Fatalf("expected spread %v, got %v", want, got.Evidence.Spread)
	}
}
