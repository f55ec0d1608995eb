package cache

import (
	"context"
	"time"

	"TradePilot/internal/domain/models"
)

// SignalCache stores recently fused signals per coin with a TTL, so the
// API can serve repeated requests without re-running the pipeline.
type SignalCache interface {
	Get(ctx context.Context, coin string) (models.MasterSignal, bool, error)
	Set(ctx context.Context, coin string, s models.MasterSignal, ttl time.Duration) error
	Close() error
}
