package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"TradePilot/internal/domain/models"
)

type recordingRouter struct {
	mu     sync.Mutex
	routed []models.MasterSignal
	err    error
	block  chan struct{}
}

func (r *recordingRouter) Route(_ context.Context, s models.MasterSignal) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.routed = append(r.routed, s)
	r.mu.Unlock()
	return r.err
}

func (r *recordingRouter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.routed)
}

type nopMetrics struct{}

func (nopMetrics) RecordSignal(string, string)   {}
func (nopMetrics) RecordDegraded(string, string) {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func decision(coin string, action models.Action, confidence float64) models.MasterSignal {
	return models.MasterSignal{
		Coin:       coin,
		Signal:     models.StrongBuy,
		Action:     action,
		Confidence: confidence,
	}
}

func TestDeliverForwardsValidDecision(t *testing.T) {
	r := &recordingRouter{}
	g := NewDecisionGate(r, nopMetrics{})

	if err := g.Deliver(context.Background(), "7:BTC", decision("BTC", models.OpenLong, 80)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.count() != 1 {
		t.Fatalf("expected 1 routed decision, got %d", r.count())
	}
}

func TestDeliverRejectsLowConfidenceAction(t *testing.T) {
	r := &recordingRouter{}
	g := NewDecisionGate(r, nopMetrics{})

	if err := g.Deliver(context.Background(), "7:BTC", decision("BTC", models.OpenLong, 60)); err == nil {
		t.Fatalf("expected validation error")
	}
	if r.count() != 0 {
		t.Fatalf("invalid decision must not be routed")
	}
}

func TestDeliverAllowsLowConfidenceHold(t *testing.T) {
	r := &recordingRouter{}
	g := NewDecisionGate(r, nopMetrics{})

	if err := g.Deliver(context.Background(), "7:BTC", decision("BTC", models.Hold, 40)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeliverCooldownDropsDuplicates(t *testing.T) {
	r := &recordingRouter{}
	g := NewDecisionGate(r, nopMetrics{}, WithCooldown(time.Hour))

	d := decision("BTC", models.OpenLong, 80)
	for i := 0; i < 3; i++ {
		if err := g.Deliver(context.Background(), "7:BTC", d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if r.count() != 1 {
		t.Fatalf("expected 1 delivery within cooldown, got %d", r.count())
	}

	// another key is independent
	if err := g.Deliver(context.Background(), "8:BTC", d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.count() != 2 {
		t.Fatalf("expected independent key to deliver, got %d", r.count())
	}
}

func TestDeliverInflightDrop(t *testing.T) {
	r := &recordingRouter{block: make(chan struct{})}
	g := NewDecisionGate(r, nopMetrics{}, WithCooldown(time.Millisecond))

	d := decision("BTC", models.OpenLong, 80)
	done := make(chan error, 1)
	go func() { done <- g.Deliver(context.Background(), "7:BTC", d) }()

	// wait until the first delivery is parked inside the router
	time.Sleep(20 * time.Millisecond)
	if err := g.Deliver(context.Background(), "7:BTC", d); err != nil {
		t.Fatalf("in-flight duplicate must be dropped silently: %v", err)
	}

	close(r.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.count() != 1 {
		t.Fatalf("expected exactly one delivery, got %d", r.count())
	}
}

func TestDeliverRouteErrorDoesNotStartCooldown(t *testing.T) {
	r := &recordingRouter{err: fmt.Errorf("kafka down")}
	g := NewDecisionGate(r, nopMetrics{}, WithCooldown(time.Hour))

	d := decision("BTC", models.OpenLong, 80)
	if err := g.Deliver(context.Background(), "7:BTC", d); err == nil {
		t.Fatalf("expected route error")
	}

	// failed delivery must not consume the cooldown window
	r.err = nil
	if err := g.Deliver(context.Background(), "7:BTC", d); err != nil {
		t.Fatalf("retry after failure should deliver: %v", err)
	}
	if r.count() != 2 {
		t.Fatalf("expected 2 route attempts, got %d", r.count())
	}
}
