package usecase

import (
	"errors"
	"math"
	"strings"
	"testing"

	"TradePilot/internal/domain/models"
)

func sub(src models.Source, sig models.Signal, conf float64) models.SubSignal {
	return models.SubSignal{Coin: "BTC", Source: src, Signal: sig, Confidence: conf}
}

func TestFuseWeightedDecision(t *testing.T) {
	news := sub(models.SourceNews, models.Buy, 70)
	news.Evidence.Sentiment = "positive"
	book := sub(models.SourceOrderbook, models.StrongBuy, 90)
	book.Evidence.Imbalance = 25
	tech := sub(models.SourceTechnical, models.Buy, 80)
	tech.Evidence.RSI = 35

	got, err := NewSignalFusion().Fuse("BTC", news, book, tech)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(got.WeightedScore-85) > 1e-9 {
		t.Fatalf("expected weighted score 85, got %v", got.WeightedScore)
	}
	if got.Signal != models.StrongBuy {
		t.Fatalf("expected STRONG_BUY, got %s", got.Signal)
	}
	if math.Abs(got.Confidence-81.5) > 1e-9 {
		t.Fatalf("expected confidence 81.5, got %v", got.Confidence)
	}
	if got.Action != models.OpenLong {
		t.Fatalf("expected OPEN_LONG, got %s", got.Action)
	}
}

func TestFuseBreakdownSumsToScore(t *testing.T) {
	got, err := NewSignalFusion().Fuse("BTC",
		sub(models.SourceNews, models.Sell, 60),
		sub(models.SourceOrderbook, models.Neutral, 50),
		sub(models.SourceTechnical, models.StrongSell, 80),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := got.Breakdown.News.Contribution +
		got.Breakdown.Orderbook.Contribution +
		got.Breakdown.Technical.Contribution
	if math.Abs(sum-got.WeightedScore) > 1e-9 {
		t.Fatalf("breakdown sum %v != weighted score %v", sum, got.WeightedScore)
	}
}

func TestFuseConfidenceGateHolds(t *testing.T) {
	// bullish direction but weak confidence everywhere
	got, err := NewSignalFusion().Fuse("BTC",
		sub(models.SourceNews, models.StrongBuy, 40),
		sub(models.SourceOrderbook, models.StrongBuy, 50),
		sub(models.SourceTechnical, models.StrongBuy, 45),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Signal.IsBullish() {
		t.Fatalf("expected bullish signal, got %s", got.Signal)
	}
	if got.Action != models.Hold {
		t.Fatalf("expected HOLD below confidence gate, got %s", got.Action)
	}
}

func TestFuseBearishOpensShort(t *testing.T) {
	got, err := NewSignalFusion().Fuse("BTC",
		sub(models.SourceNews, models.StrongSell, 80),
		sub(models.SourceOrderbook, models.StrongSell, 90),
		sub(models.SourceTechnical, models.Sell, 75),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != models.OpenShort {
		t.Fatalf("expected OPEN_SHORT, got %s", got.Action)
	}
}

func TestFuseRejectsWrongSource(t *testing.T) {
	_, err := NewSignalFusion().Fuse("BTC",
		sub(models.SourceOrderbook, models.Buy, 70),
		sub(models.SourceOrderbook, models.Buy, 70),
		sub(models.SourceTechnical, models.Buy, 70),
	)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFuseRejectsConfidenceOutOfRange(t *testing.T) {
	_, err := NewSignalFusion().Fuse("BTC",
		sub(models.SourceNews, models.Buy, 101),
		sub(models.SourceOrderbook, models.Buy, 70),
		sub(models.SourceTechnical, models.Buy, 70),
	)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Source != models.SourceNews {
		t.Fatalf("expected news source in error, got %s", verr.Source)
	}
}

func TestFuseUnknownSignalScoresNeutral(t *testing.T) {
	got, err := NewSignalFusion().Fuse("BTC",
		sub(models.SourceNews, models.Signal("SIDEWAYS"), 50),
		sub(models.SourceOrderbook, models.Neutral, 50),
		sub(models.SourceTechnical, models.Neutral, 50),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeightedScore != 50 {
		t.Fatalf("expected neutral score 50, got %v", got.WeightedScore)
	}
}

func TestFuseAllNeutralReasoning(t *testing.T) {
	got, err := NewSignalFusion().Fuse("BTC",
		sub(models.SourceNews, models.Neutral, 50),
		sub(models.SourceOrderbook, models.Neutral, 50),
		sub(models.SourceTechnical, models.Neutral, 50),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Signal != models.Neutral || got.Action != models.Hold {
		t.Fatalf("expected NEUTRAL/HOLD, got %s/%s", got.Signal, got.Action)
	}
	if !strings.Contains(got.Reasoning, "no clear direction") {
		t.Fatalf("unexpected reasoning: %q", got.Reasoning)
	}
}

func TestFuseReasoningMentionsNonNeutralSources(t *testing.T) {
	news := sub(models.SourceNews, models.Buy, 70)
	news.Evidence.Sentiment = "positive"
	book := sub(models.SourceOrderbook, models.Neutral, 50)
	tech := sub(models.SourceTechnical, models.Sell, 65)
	tech.Evidence.RSI = 65.5

	got, err := NewSignalFusion().Fuse("BTC", news, book, tech)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.Reasoning, "News sentiment is positive") {
		t.Fatalf("missing news sentence: %q", got.Reasoning)
	}
	if strings.Contains(got.Reasoning, "Orderbook") {
		t.Fatalf("neutral orderbook should be omitted: %q", got.Reasoning)
	}
	if !strings.Contains(got.Reasoning, "RSI 65.50") {
		t.Fatalf("missing technical sentence: %q", got.Reasoning)
	}
}
