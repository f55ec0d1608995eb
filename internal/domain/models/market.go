package models

import "time"

// Candle represents an OHLCV record for one interval.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// CandleSeries is a chronological candle history for one coin.
type CandleSeries struct {
	Coin     string
	Interval string
	Candles  []Candle
}

// Closes returns the close prices in chronological order.
func (s CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// BookLevel is one price level of an L2 orderbook.
type BookLevel struct {
	Price float64
	Size  float64
}

// OrderbookSnapshot is an L2 snapshot with levels ordered best-first.
type OrderbookSnapshot struct {
	Coin      string
	Timestamp time.Time
	Bids      []BookLevel
	Asks      []BookLevel
}
