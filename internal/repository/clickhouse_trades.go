package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"TradePilot/internal/domain/models"
	"TradePilot/internal/domain/repository"
	"TradePilot/pkg/util"
)

// ClickHouseTrades implements TradeRepository and ReportStore over
// ClickHouse. Reports land in a ReplacingMergeTree keyed (user_id, month),
// so re-inserting the same key replaces the row and recomputation stays
// idempotent.
type ClickHouseTrades struct {
	db           *sql.DB
	tradesTable  string
	reportsTable string
}

// NewClickHouseTrades creates the trade repository.
func NewClickHouseTrades(db *sql.DB, tradesTable, reportsTable string) *ClickHouseTrades {
	return &ClickHouseTrades{db: db, tradesTable: tradesTable, reportsTable: reportsTable}
}

func (r *ClickHouseTrades) TradesForMonth(ctx context.Context, userID int64, month string) ([]models.Trade, error) {
	from, to, err := util.MonthBounds(month)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT id, user_id, coin, side, size, entry_price, tp_price, sl_price, status, pnl, ts
		FROM %s WHERE user_id = ? AND ts >= ? AND ts < ? ORDER BY ts`, r.tradesTable)
	rows, err := r.db.QueryContext(ctx, q, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var (
			t            models.Trade
			side, status string
			ts           time.Time
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Coin, &side, &t.Size, &t.EntryPrice, &t.TPPrice, &t.SLPrice, &status, &t.PnL, &ts); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = models.Side(side)
		t.Status = models.TradeStatus(status)
		t.Timestamp = ts
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (r *ClickHouseTrades) UpsertReport(ctx context.Context, rep models.MonthlyReport) error {
	q := fmt.Sprintf(`INSERT INTO %s
		(user_id, month, total_trades, wins, losses, win_rate, total_pnl, return_pct, status, avg_win, avg_loss, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, r.reportsTable)
	_, err := r.db.ExecContext(ctx, q,
		rep.UserID, rep.Month, rep.TotalTrades, rep.Wins, rep.Losses,
		rep.WinRate, rep.TotalPnl, rep.ReturnPct, rep.Status, rep.AvgWin, rep.AvgLoss,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

func (r *ClickHouseTrades) Health(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ClickHouseSignals implements SignalStore: fused decisions are appended to
// a history table for audit and backtesting.
type ClickHouseSignals struct {
	db    *sql.DB
	table string
}

// NewClickHouseSignals creates the signal-history store.
func NewClickHouseSignals(db *sql.DB, table string) repository.SignalStore {
	return &ClickHouseSignals{db: db, table: table}
}

func (s *ClickHouseSignals) SaveSignal(ctx context.Context, m models.MasterSignal) error {
	breakdown, err := json.Marshal(m.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	q := fmt.Sprintf(`INSERT INTO %s
		(ts, coin, signal, action, confidence, weighted_score, breakdown, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err = s.db.ExecContext(ctx, q,
		m.Timestamp, m.Coin, string(m.Signal), string(m.Action),
		m.Confidence, m.WeightedScore, string(breakdown), m.Reasoning,
	)
	if err != nil {
		return fmt.Errorf("save signal: %w", err)
	}
	return nil
}

func (s *ClickHouseSignals) SignalHistory(ctx context.Context, coin string, limit int) ([]models.MasterSignal, error) {
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf(`SELECT ts, coin, signal, action, confidence, weighted_score, breakdown, reasoning
		FROM %s WHERE coin = ? ORDER BY ts DESC LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, coin, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []models.MasterSignal
	for rows.Next() {
		var (
			m              models.MasterSignal
			signal, action string
			breakdown      string
		)
		if err := rows.Scan(&m.Timestamp, &m.Coin, &signal, &action, &m.Confidence, &m.WeightedScore, &breakdown, &m.Reasoning); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		m.Signal = models.Signal(signal)
		m.Action = models.Action(action)
		if err := json.Unmarshal([]byte(breakdown), &m.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *ClickHouseSignals) Close() error {
	return nil // pool managed by pkg/clickhouse
}
