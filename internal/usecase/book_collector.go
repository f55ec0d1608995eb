package usecase

import (
	"context"
	"sync"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
)

// BookCollector consumes the live L2 stream and keeps the latest snapshot
// per coin, so the pipeline reads a fresh book instead of re-fetching over
// HTTP on every run.
type BookCollector struct {
	stream  drepo.BookStream
	metrics drepo.Metrics

	mu       sync.RWMutex
	latest   map[string]models.OrderbookSnapshot
	maxAge   time.Duration
	stopOnce sync.Once
}

// NewBookCollector creates a collector. maxAge bounds snapshot staleness;
// older entries are treated as missing.
func NewBookCollector(stream drepo.BookStream, metrics drepo.Metrics, maxAge time.Duration) *BookCollector {
	if maxAge <= 0 {
		maxAge = time.Minute
	}
	return &BookCollector{
		stream:  stream,
		metrics: metrics,
		latest:  make(map[string]models.OrderbookSnapshot),
		maxAge:  maxAge,
	}
}

// Start connects, subscribes, and consumes until ctx is done.
func (c *BookCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	books, errs := c.stream.Read(ctx)
	go c.consume(ctx, books, errs)
	return nil
}

func (c *BookCollector) consume(ctx context.Context, books <-chan models.OrderbookSnapshot, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				c.metrics.RecordError("book_stream")
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					return
				}
				// old channels are dead after reconnect
				books, errs = c.stream.Read(ctx)
			}
		case b, ok := <-books:
			if !ok {
				return
			}
			c.mu.Lock()
			c.latest[b.Coin] = b
			c.mu.Unlock()
		}
	}
}

// Stop closes the underlying stream.
func (c *BookCollector) Stop() {
	c.stopOnce.Do(func() { _ = c.stream.Close() })
}

// Latest returns the freshest snapshot for coin, if one is recent enough.
func (c *BookCollector) Latest(coin string) (models.OrderbookSnapshot, bool) {
	c.mu.RLock()
	b, ok := c.latest[coin]
	c.mu.RUnlock()
	if !ok || time.Since(b.Timestamp) > c.maxAge {
		return models.OrderbookSnapshot{}, false
	}
	return b, true
}

// IsConnected reports stream health.
func (c *BookCollector) IsConnected() bool { return c.stream.IsConnected() }

// StreamMarketData is a MarketData that serves orderbooks from the live
// collector when fresh, falling back to the HTTP provider otherwise.
type StreamMarketData struct {
	collector *BookCollector
	fallback  drepo.MarketData
}

// NewStreamMarketData composes the collector cache over fallback.
func NewStreamMarketData(collector *BookCollector, fallback drepo.MarketData) *StreamMarketData {
	return &StreamMarketData{collector: collector, fallback: fallback}
}

func (m *StreamMarketData) Candles(ctx context.Context, coin string, interval drepo.Interval, lookbackHours int) (models.CandleSeries, error) {
	return m.fallback.Candles(ctx, coin, interval, lookbackHours)
}

func (m *StreamMarketData) Orderbook(ctx context.Context, coin string) (models.OrderbookSnapshot, error) {
	if m.collector != nil {
		if b, ok := m.collector.Latest(coin); ok {
			return b, nil
		}
	}
	return m.fallback.Orderbook(ctx, coin)
}

// Shutdown closes the stream.
func (c *BookCollector) Shutdown() error {
	var err error
	c.stopOnce.Do(func() { err = c.stream.Close() })
	return err
}
