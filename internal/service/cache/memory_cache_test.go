package cache

import (
	"context"
	"testing"
	"time"

	"TradePilot/internal/domain/models"
)

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemorySignalCache()
	_, ok, err := c.Get(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemorySignalCache()
	want := models.MasterSignal{Coin: "BTC", Signal: models.Buy, Confidence: 70}
	if err := c.Set(context.Background(), "BTC", want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(context.Background(), "BTC")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if got.Coin != want.Coin || got.Signal != want.Signal || got.Confidence != want.Confidence {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemorySignalCache()
	if err := c.Set(context.Background(), "BTC", models.MasterSignal{Coin: "BTC"}, time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	_, ok, err := c.Get(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewMemorySignalCache()
	if err := c.Set(context.Background(), "ETH", models.MasterSignal{Coin: "ETH"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, ok, err := c.Get(context.Background(), "ETH")
	if err != nil || !ok {
		t.Fatalf("expected hit for zero-TTL entry, ok=%v err=%v", ok, err)
	}
}
