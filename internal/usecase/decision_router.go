package usecase

import (
	"context"
	"fmt"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
)

// DecisionRouter hands fused signals to the configured backend: Kafka for
// the external execution layer, ClickHouse for signal history, or both.
type DecisionRouter struct {
	pub     drepo.SignalPublisher
	store   drepo.SignalStore
	metrics drepo.Metrics
	backend string
}

// NewDecisionRouter creates a router. backend is "kafka", "clickhouse",
// or "both".
func NewDecisionRouter(pub drepo.SignalPublisher, store drepo.SignalStore, metrics drepo.Metrics, backend string) *DecisionRouter {
	return &DecisionRouter{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Route sends one decision to the configured backend.
func (r *DecisionRouter) Route(ctx context.Context, s models.MasterSignal) error {
	start := time.Now()
	var err error

	switch r.backend {
	case "kafka":
		err = r.pub.Publish(ctx, s)
	case "clickhouse":
		err = r.store.SaveSignal(ctx, s)
	case "both":
		if err = r.pub.Publish(ctx, s); err == nil {
			err = r.store.SaveSignal(ctx, s)
		}
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		r.metrics.RecordError("route")
		return fmt.Errorf("route decision: %w", err)
	}

	r.metrics.RecordLatency("route", time.Since(start).Seconds())
	return nil
}

// RouteBatch sends a batch of decisions.
func (r *DecisionRouter) RouteBatch(ctx context.Context, signals []models.MasterSignal) error {
	if len(signals) == 0 {
		return nil
	}

	switch r.backend {
	case "kafka":
		if err := r.pub.PublishBatch(ctx, signals); err != nil {
			r.metrics.RecordError("route_batch")
			return fmt.Errorf("route batch: %w", err)
		}
		return nil
	default:
		for _, s := range signals {
			if err := r.Route(ctx, s); err != nil {
				return err
			}
		}
		return nil
	}
}

// Close closes underlying resources if available.
func (r *DecisionRouter) Close() {
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}
