package models

// Requests for the signals HTTP endpoints. Defined in domain for consistency and reuse.

type MasterSignalRequest struct {
	Coin     string `query:"coin" json:"coin" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
}

type SignalsBatchRequest struct {
	Interval string `query:"interval" json:"interval" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
}

type SignalHistoryRequest struct {
	Coin  string `query:"coin" json:"coin" validate:"required"`
	Limit int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
}

type PerformanceRequest struct {
	UserID int64  `query:"userId" json:"userId" validate:"required,gt=0"`
	Month  string `query:"month" json:"month" validate:"required,len=7"`
}
