package repository

import (
	"context"

	"TradePilot/internal/domain/models"
)

// MarketData provides fresh market data for one coin. Implementations must
// honor ctx deadlines; callers degrade to a NEUTRAL SubSignal on failure.
type MarketData interface {
	Candles(ctx context.Context, coin string, interval Interval, lookbackHours int) (models.CandleSeries, error)
	Orderbook(ctx context.Context, coin string) (models.OrderbookSnapshot, error)
}

// BookStream is a live L2 orderbook subscription.
type BookStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan models.OrderbookSnapshot, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// NewsProvider supplies the externally produced news SubSignal for a coin.
type NewsProvider interface {
	Sentiment(ctx context.Context, coin string) (models.SubSignal, error)
}

// TradeRepository reads a user's trade history.
type TradeRepository interface {
	TradesForMonth(ctx context.Context, userID int64, month string) ([]models.Trade, error)
	Health(ctx context.Context) error
}

// ReportStore persists monthly reports. Upsert replaces any prior report
// for the same (userID, month).
type ReportStore interface {
	UpsertReport(ctx context.Context, r models.MonthlyReport) error
}

// SignalStore persists fused signal history.
type SignalStore interface {
	SaveSignal(ctx context.Context, s models.MasterSignal) error
	SignalHistory(ctx context.Context, coin string, limit int) ([]models.MasterSignal, error)
	Close() error
}

// SignalPublisher hands fused decisions to the external execution layer.
type SignalPublisher interface {
	Publish(ctx context.Context, s models.MasterSignal) error
	PublishBatch(ctx context.Context, signals []models.MasterSignal) error
	Close() error
}

// Metrics records operational counters for the pipeline.
type Metrics interface {
	RecordSignal(coin string, action string)
	RecordDegraded(coin string, source string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
