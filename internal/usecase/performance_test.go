package usecase

import (
	"context"
	"testing"
	"time"

	"TradePilot/internal/domain/models"
)

type fakeTradeRepo struct {
	trades []models.Trade
	err    error
}

func (f *fakeTradeRepo) TradesForMonth(_ context.Context, _ int64, _ string) ([]models.Trade, error) {
	return f.trades, f.err
}

func (f *fakeTradeRepo) Health(context.Context) error { return nil }

type fakeReportStore struct {
	upserts []models.MonthlyReport
}

func (f *fakeReportStore) UpsertReport(_ context.Context, r models.MonthlyReport) error {
	f.upserts = append(f.upserts, r)
	return nil
}

func closedTrade(pnl float64) models.Trade {
	return models.Trade{
		UserID:    7,
		Coin:      "BTC",
		Side:      models.Long,
		Status:    models.TradeClosed,
		PnL:       pnl,
		Timestamp: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestAggregateEmptyMonth(t *testing.T) {
	got := Aggregate(7, "2026-03", nil, 10000)
	if got.Status != models.StatusNoTrades {
		t.Fatalf("expected %q, got %q", models.StatusNoTrades, got.Status)
	}
	if got.WinRate != "0%" {
		t.Fatalf("expected win rate 0%%, got %q", got.WinRate)
	}
	if got.TotalTrades != 0 || got.TotalPnl != 0 || got.ReturnPct != 0 {
		t.Fatalf("expected zero report, got %+v", got)
	}
}

func TestAggregateOnTrack(t *testing.T) {
	trades := []models.Trade{closedTrade(150), closedTrade(100), closedTrade(-50)}
	got := Aggregate(7, "2026-03", trades, 10000)

	if got.TotalTrades != 3 || got.Wins != 2 || got.Losses != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.WinRate != "66.7%" {
		t.Fatalf("expected 66.7%%, got %q", got.WinRate)
	}
	if got.TotalPnl != 200 {
		t.Fatalf("expected total pnl 200, got %v", got.TotalPnl)
	}
	if got.ReturnPct != 2 {
		t.Fatalf("expected return 2%%, got %v", got.ReturnPct)
	}
	if got.Status != models.StatusOnTrack {
		t.Fatalf("expected on track, got %q", got.Status)
	}
}

func TestAggregateBelowTarget(t *testing.T) {
	got := Aggregate(7, "2026-03", []models.Trade{closedTrade(120)}, 10000)
	if got.Status != models.StatusBelowTarget {
		t.Fatalf("expected below target, got %q", got.Status)
	}
}

func TestAggregateUnderperforming(t *testing.T) {
	got := Aggregate(7, "2026-03", []models.Trade{closedTrade(-300)}, 10000)
	if got.Status != models.StatusUnderperforming {
		t.Fatalf("expected underperforming, got %q", got.Status)
	}
	if got.ReturnPct != -3 {
		t.Fatalf("expected -3%%, got %v", got.ReturnPct)
	}
}

func TestAggregateIgnoresOpenTradesForStats(t *testing.T) {
	open := closedTrade(999)
	open.Status = models.TradeOpen
	trades := []models.Trade{open, closedTrade(100)}

	got := Aggregate(7, "2026-03", trades, 10000)
	if got.TotalTrades != 2 {
		t.Fatalf("open trades still count toward total, got %d", got.TotalTrades)
	}
	if got.Wins != 1 || got.TotalPnl != 100 {
		t.Fatalf("open trade pnl must not count: %+v", got)
	}
}

func TestAggregateZeroPnlIsLoss(t *testing.T) {
	got := Aggregate(7, "2026-03", []models.Trade{closedTrade(0)}, 10000)
	if got.Wins != 0 || got.Losses != 1 {
		t.Fatalf("zero pnl must count as loss: %+v", got)
	}
}

func TestMonthlyReportRejectsBadMonth(t *testing.T) {
	agg := NewPerformanceAggregator(&fakeTradeRepo{}, &fakeReportStore{}, 10000)
	if _, err := agg.MonthlyReport(context.Background(), 7, "March 2026"); err == nil {
		t.Fatalf("expected month parse error")
	}
}

func TestMonthlyReportUpsertsIdempotently(t *testing.T) {
	store := &fakeReportStore{}
	repo := &fakeTradeRepo{trades: []models.Trade{closedTrade(250)}}
	agg := NewPerformanceAggregator(repo, store, 10000)

	first, err := agg.MonthlyReport(context.Background(), 7, "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := agg.MonthlyReport(context.Background(), 7, "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatalf("recomputation changed the report: %+v vs %+v", first, second)
	}
	if len(store.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(store.upserts))
	}
	if store.upserts[0] != store.upserts[1] {
		t.Fatalf("upserted reports differ")
	}
}
