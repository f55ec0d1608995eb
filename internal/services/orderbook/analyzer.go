package orderbook

import (
	"math"

	"TradePilot/internal/domain/models"
)

const (
	whaleShare         = 0.01 // level size above 1% of total visible volume
	degradedConfidence = 30
	maxConfidence      = 95
)

// Analyzer derives an orderbook SubSignal from an L2 snapshot.
type Analyzer struct{}

// NewAnalyzer creates an orderbook analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze computes bid/ask imbalance, spread, and whale counts, and maps
// the imbalance onto a categorical signal. A book with fewer than two
// levels in total degrades to NEUTRAL/30.
func (a *Analyzer) Analyze(book models.OrderbookSnapshot) models.SubSignal {
	if len(book.Bids) == 0 || len(book.Asks) == 0 || len(book.Bids)+len(book.Asks) < 2 {
		return models.SubSignal{
			Coin:       book.Coin,
			Source:     models.SourceOrderbook,
			Signal:     models.Neutral,
			Confidence: degradedConfidence,
			Err:        "insufficient orderbook data",
		}
	}

	bidVolume := sumSizes(book.Bids)
	askVolume := sumSizes(book.Asks)
	totalVolume := bidVolume + askVolume

	imbalance := (bidVolume - askVolume) / totalVolume * 100

	whaleThreshold := totalVolume * whaleShare
	whaleBids := countAbove(book.Bids, whaleThreshold)
	whaleAsks := countAbove(book.Asks, whaleThreshold)

	bestBid := book.Bids[0].Price
	bestAsk := book.Asks[0].Price
	spread := (bestAsk - bestBid) / bestBid * 100

	signal := models.Neutral
	switch {
	case imbalance > 15:
		signal = models.StrongBuy
	case imbalance > 5:
		signal = models.Buy
	case imbalance < -15:
		signal = models.StrongSell
	case imbalance < -5:
		signal = models.Sell
	}

	confidence := math.Min(50+math.Abs(imbalance)*2, maxConfidence)

	return models.SubSignal{
		Coin:       book.Coin,
		Source:     models.SourceOrderbook,
		Signal:     signal,
		Confidence: confidence,
		Evidence: models.Evidence{
			Imbalance: imbalance,
			Spread:    spread,
			WhaleBids: whaleBids,
			WhaleAsks: whaleAsks,
		},
	}
}

func sumSizes(levels []models.BookLevel) float64 {
	sum := 0.0
	for _, l := range levels {
		sum += l.Size
	}
	return sum
}

func countAbove(levels []models.BookLevel, threshold float64) int {
	n := 0
	for _, l := range levels {
		if l.Size > threshold {
			n++
		}
	}
	return n
}
