package models

import "time"

// Signal is the categorical trading signal.
type Signal string

const (
	StrongBuy  Signal = "STRONG_BUY"
	Buy        Signal = "BUY"
	Neutral    Signal = "NEUTRAL"
	Sell       Signal = "SELL"
	StrongSell Signal = "STRONG_SELL"
)

// IsBullish reports whether the signal points long.
func (s Signal) IsBullish() bool { return s == Buy || s == StrongBuy }

// IsBearish reports whether the signal points short.
func (s Signal) IsBearish() bool { return s == Sell || s == StrongSell }

// Action is the trade decision derived from a fused signal.
type Action string

const (
	OpenLong  Action = "OPEN_LONG"
	OpenShort Action = "OPEN_SHORT"
	Hold      Action = "HOLD"
)

// Source identifies where a SubSignal came from.
type Source string

const (
	SourceNews      Source = "news"
	SourceOrderbook Source = "orderbook"
	SourceTechnical Source = "technical"
)

// KnownSource reports whether src is one of the three fused sources.
func KnownSource(src Source) bool {
	switch src {
	case SourceNews, SourceOrderbook, SourceTechnical:
		return true
	default:
		return false
	}
}

// Evidence carries source-specific supporting values for a SubSignal.
// Only the fields relevant to the source are set.
type Evidence struct {
	RSI       float64 `json:"rsi,omitempty"`
	MA7       float64 `json:"ma7,omitempty"`
	MA25      float64 `json:"ma25,omitempty"`
	MACD      float64 `json:"macd,omitempty"`
	MACDHist  float64 `json:"macdHistogram,omitempty"`
	Imbalance float64 `json:"imbalance,omitempty"`
	Spread    float64 `json:"spread,omitempty"`
	WhaleBids int     `json:"whaleBids,omitempty"`
	WhaleAsks int     `json:"whaleAsks,omitempty"`
	Sentiment string  `json:"sentiment,omitempty"`
}

// SubSignal is a single-source trading signal with a [0,100] confidence.
// Err marks a degraded result (insufficient data); it is not a failure.
type SubSignal struct {
	Coin       string   `json:"coin"`
	Source     Source   `json:"source"`
	Signal     Signal   `json:"signal"`
	Confidence float64  `json:"confidence"`
	Evidence   Evidence `json:"evidence"`
	Err        string   `json:"error,omitempty"`
}

// Degraded reports whether the signal is a data-insufficiency fallback.
func (s SubSignal) Degraded() bool { return s.Err != "" }

// Contribution is one source's share of the fused score.
type Contribution struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Breakdown is the per-source decomposition of a MasterSignal.
type Breakdown struct {
	News      Contribution `json:"news"`
	Orderbook Contribution `json:"orderbook"`
	Technical Contribution `json:"technical"`
}

// MasterSignal is the fused trading decision for one coin.
type MasterSignal struct {
	Coin          string    `json:"coin"`
	Timestamp     time.Time `json:"timestamp"`
	Signal        Signal    `json:"signal"`
	Action        Action    `json:"action"`
	Confidence    float64   `json:"confidence"`
	WeightedScore float64   `json:"weightedScore"`
	Breakdown     Breakdown `json:"breakdown"`
	Reasoning     string    `json:"reasoning"`
}
