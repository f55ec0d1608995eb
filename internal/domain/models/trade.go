package models

import "time"

// Side is the direction of a position.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// TradeStatus is the lifecycle state of a trade.
type TradeStatus string

const (
	TradeOpen   TradeStatus = "OPEN"
	TradeClosed TradeStatus = "CLOSED"
)

// Trade is one executed position. PnL is realized only once Status is CLOSED.
type Trade struct {
	ID         int64
	UserID     int64
	Coin       string
	Side       Side
	Size       float64
	EntryPrice float64
	TPPrice    float64
	SLPrice    float64
	Status     TradeStatus
	PnL        float64
	Timestamp  time.Time
}

// MonthlyReport summarizes a user's trading performance for one calendar month.
// WinRate and ReturnPct keep the fixed string formats the gateway expects.
type MonthlyReport struct {
	UserID      int64   `json:"userId"`
	Month       string  `json:"month"` // YYYY-MM
	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     string  `json:"winRate"`
	TotalPnl    float64 `json:"totalPnl"`
	ReturnPct   float64 `json:"returnPct"`
	Status      string  `json:"status"`
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"`
}

// Report status classifications against the 2% monthly target.
const (
	StatusNoTrades        = "no trades this month"
	StatusOnTrack         = "on track"
	StatusBelowTarget     = "below target but positive"
	StatusUnderperforming = "underperforming"
)
