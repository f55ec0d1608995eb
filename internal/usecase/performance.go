package usecase

import (
	"context"
	"errors"
	"fmt"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
	"TradePilot/pkg/util"
)

// ErrBadMonth marks a month argument that is not formatted YYYY-MM.
var ErrBadMonth = errors.New("month must be formatted YYYY-MM")

// PerformanceAggregator rolls up a user's trades for one calendar month
// into a MonthlyReport. The trade repository and the account reference
// balance are injected; the aggregation itself holds no state, so
// recomputation for the same inputs is idempotent.
type PerformanceAggregator struct {
	trades         drepo.TradeRepository
	reports        drepo.ReportStore
	initialBalance float64
}

// NewPerformanceAggregator creates an aggregator. initialBalance is the
// externally supplied reference balance used for return computation; it is
// a known limitation that it is not derived from account history.
func NewPerformanceAggregator(trades drepo.TradeRepository, reports drepo.ReportStore, initialBalance float64) *PerformanceAggregator {
	return &PerformanceAggregator{trades: trades, reports: reports, initialBalance: initialBalance}
}

// MonthlyReport computes the report for (userID, month) and upserts it into
// the report store. month must be formatted YYYY-MM.
func (p *PerformanceAggregator) MonthlyReport(ctx context.Context, userID int64, month string) (models.MonthlyReport, error) {
	if _, err := util.ParseMonth(month); err != nil {
		return models.MonthlyReport{}, fmt.Errorf("parse month %q: %w", month, ErrBadMonth)
	}

	trades, err := p.trades.TradesForMonth(ctx, userID, month)
	if err != nil {
		return models.MonthlyReport{}, fmt.Errorf("load trades: %w", err)
	}

	report := Aggregate(userID, month, trades, p.initialBalance)

	if p.reports != nil {
		if err := p.reports.UpsertReport(ctx, report); err != nil {
			return models.MonthlyReport{}, fmt.Errorf("upsert report: %w", err)
		}
	}
	return report, nil
}

// Aggregate reduces one month of trades to a MonthlyReport. It is the pure
// core of the aggregator: no repository access, deterministic output.
func Aggregate(userID int64, month string, trades []models.Trade, initialBalance float64) models.MonthlyReport {
	if len(trades) == 0 {
		return models.MonthlyReport{
			UserID:  userID,
			Month:   month,
			WinRate: "0%",
			Status:  models.StatusNoTrades,
		}
	}

	var (
		closed   int
		wins     int
		losses   int
		totalPnl float64
		winSum   float64
		lossSum  float64
	)
	for _, t := range trades {
		if t.Status != models.TradeClosed {
			continue
		}
		closed++
		totalPnl += t.PnL
		if t.PnL > 0 {
			wins++
			winSum += t.PnL
		} else {
			losses++
			lossSum += t.PnL
		}
	}

	returnPct := 0.0
	if initialBalance != 0 {
		returnPct = totalPnl / initialBalance * 100
	}

	denom := closed
	if denom < 1 {
		denom = 1
	}
	winRate := float64(wins) / float64(denom) * 100

	status := models.StatusUnderperforming
	switch {
	case returnPct >= 2:
		status = models.StatusOnTrack
	case returnPct >= 1:
		status = models.StatusBelowTarget
	}

	avgWin := 0.0
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	avgLoss := 0.0
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}

	return models.MonthlyReport{
		UserID:      userID,
		Month:       month,
		TotalTrades: len(trades),
		Wins:        wins,
		Losses:      losses,
		WinRate:     fmt.Sprintf("%.1f%%", winRate),
		TotalPnl:    totalPnl,
		ReturnPct:   returnPct,
		Status:      status,
		AvgWin:      avgWin,
		AvgLoss:     avgLoss,
	}
}
