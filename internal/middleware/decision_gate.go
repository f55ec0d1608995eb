package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
)

// Router is the minimal downstream interface the gate needs.
type Router interface {
	Route(ctx context.Context, s models.MasterSignal) error
}

// DecisionGate sits between fusion and the decision backend and enforces
// at-most-once delivery per key within a cooldown window. Publication and
// order placement are the only non-idempotent steps downstream of the pure
// pipeline, so duplicates are dropped and counted, never queued.
type DecisionGate struct {
	router  Router
	metrics drepo.Metrics

	cooldown time.Duration
	mu       sync.Mutex
	inflight map[string]struct{}
	lastSent map[string]time.Time
}

// GateOption configures the gate.
type GateOption func(*DecisionGate)

// WithCooldown sets the minimum interval between decisions for one key.
func WithCooldown(d time.Duration) GateOption {
	return func(g *DecisionGate) {
		if d > 0 {
			g.cooldown = d
		}
	}
}

// NewDecisionGate creates a gate in front of router.
func NewDecisionGate(router Router, metrics drepo.Metrics, opts ...GateOption) *DecisionGate {
	g := &DecisionGate{
		router:   router,
		metrics:  metrics,
		cooldown: 5 * time.Minute,
		inflight: make(map[string]struct{}),
		lastSent: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Deliver validates and forwards one decision for key (typically
// "user:coin"). A decision already in flight, or one inside the cooldown
// window, is dropped silently with a counter bump.
func (g *DecisionGate) Deliver(ctx context.Context, key string, s models.MasterSignal) error {
	if err := validateDecision(s); err != nil {
		g.metrics.RecordError("gate_validate")
		return err
	}

	g.mu.Lock()
	if _, busy := g.inflight[key]; busy {
		g.mu.Unlock()
		g.metrics.RecordError("gate_inflight_drop")
		return nil
	}
	if last, ok := g.lastSent[key]; ok && time.Since(last) < g.cooldown {
		g.mu.Unlock()
		g.metrics.RecordError("gate_cooldown_drop")
		return nil
	}
	g.inflight[key] = struct{}{}
	g.mu.Unlock()

	err := g.router.Route(ctx, s)

	g.mu.Lock()
	delete(g.inflight, key)
	if err == nil {
		g.lastSent[key] = time.Now()
	}
	g.mu.Unlock()

	if err != nil {
		g.metrics.RecordError("gate_route")
		return fmt.Errorf("gate deliver: %w", err)
	}
	return nil
}

func validateDecision(s models.MasterSignal) error {
	if s.Coin == "" {
		return fmt.Errorf("coin empty")
	}
	if s.Confidence < 0 || s.Confidence > 100 {
		return fmt.Errorf("confidence out of range: %.1f", s.Confidence)
	}
	if s.Action != models.Hold && s.Confidence < 65 {
		return fmt.Errorf("action %s below confidence gate", s.Action)
	}
	return nil
}
