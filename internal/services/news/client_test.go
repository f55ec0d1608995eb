package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TradePilot/internal/domain/models"
)

func TestParseSignal(t *testing.T) {
	cases := []struct {
		in   string
		want models.Signal
		ok   bool
	}{
		{"STRONG_BUY", models.StrongBuy, true},
		{"buy", models.Buy, true},
		{" neutral ", models.Neutral, true},
		{"Sell", models.Sell, true},
		{"strong_sell", models.StrongSell, true},
		{"bullish", models.Neutral, false},
		{"", models.Neutral, false},
	}
	for _, c := range cases {
		got, ok := parseSignal(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("parseSignal(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestSentimentMapsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("coin"); got != "BTC" {
			t.Errorf("unexpected coin query %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"coin": "BTC", "signal": "BUY", "confidence": 72.5, "sentiment": "positive",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 1)
	sub, err := c.Sentiment(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Signal != models.Buy || sub.Confidence != 72.5 {
		t.Fatalf("unexpected sub-signal: %+v", sub)
	}
	if sub.Source != models.SourceNews || sub.Evidence.Sentiment != "positive" {
		t.Fatalf("unexpected source or evidence: %+v", sub)
	}
}

func TestSentimentRejectsUnknownSignal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"signal": "MOON", "confidence": 50})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 1)
	if _, err := c.Sentiment(context.Background(), "BTC"); err == nil {
		t.Fatalf("expected error for unknown signal value")
	}
}

func TestSentimentRejectsOutOfRangeConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"signal": "BUY", "confidence": 140})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 1)
	if _, err := c.Sentiment(context.Background(), "BTC"); err == nil {
		t.Fatalf("expected error for confidence out of range")
	}
}

func TestSentimentRetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"signal": "NEUTRAL", "confidence": 50})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 3)
	sub, err := c.Sentiment(context.Background(), "ETH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if sub.Signal != models.Neutral {
		t.Fatalf("unexpected signal %v", sub.Signal)
	}
}

func TestSentimentUnconfigured(t *testing.T) {
	c := New("", time.Second, 1)
	if _, err := c.Sentiment(context.Background(), "BTC"); err == nil {
		t.Fatalf("expected error when base URL is empty")
	}
}
