package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
	pkghttp "TradePilot/pkg/http"
)

// Client implements MarketData against the Hyperliquid info endpoint.
// All requests are POSTs to /info with a typed body.
type Client struct {
	baseURL string
	http    *pkghttp.Client
}

// New creates a Hyperliquid REST client.
func New(baseURL string, timeout time.Duration) drepo.MarketData {
	return &Client{
		baseURL: baseURL,
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
	}
}

type candleReq struct {
	Coin      string `json:"coin"`
	Interval  string `json:"interval"`
	StartTime int64  `json:"startTime"`
}

type infoRequest struct {
	Type string     `json:"type"`
	Req  *candleReq `json:"req,omitempty"`
	Coin string     `json:"coin,omitempty"`
}

// rawCandle mirrors the wire format: numeric fields arrive as strings.
type rawCandle struct {
	T int64  `json:"t"` // open time, ms
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
	V string `json:"v"`
}

// Candles fetches the candle snapshot for the lookback window.
func (c *Client) Candles(ctx context.Context, coin string, interval drepo.Interval, lookbackHours int) (models.CandleSeries, error) {
	start := time.Now().Add(-time.Duration(lookbackHours) * time.Hour).UnixMilli()
	body := infoRequest{
		Type: "candleSnapshot",
		Req:  &candleReq{Coin: coin, Interval: string(interval), StartTime: start},
	}

	var raw []rawCandle
	if err := c.post(ctx, body, &raw); err != nil {
		return models.CandleSeries{}, fmt.Errorf("candle snapshot %s: %w", coin, err)
	}

	series := models.CandleSeries{Coin: coin, Interval: string(interval), Candles: make([]models.Candle, 0, len(raw))}
	for _, rc := range raw {
		cd, err := rc.parse()
		if err != nil {
			return models.CandleSeries{}, fmt.Errorf("candle snapshot %s: %w", coin, err)
		}
		series.Candles = append(series.Candles, cd)
	}
	return series, nil
}

func (rc rawCandle) parse() (models.Candle, error) {
	o, err := strconv.ParseFloat(rc.O, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("open %q: %w", rc.O, err)
	}
	h, err := strconv.ParseFloat(rc.H, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("high %q: %w", rc.H, err)
	}
	l, err := strconv.ParseFloat(rc.L, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("low %q: %w", rc.L, err)
	}
	cl, err := strconv.ParseFloat(rc.C, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("close %q: %w", rc.C, err)
	}
	v, err := strconv.ParseFloat(rc.V, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("volume %q: %w", rc.V, err)
	}
	return models.Candle{
		OpenTime: time.UnixMilli(rc.T),
		Open:     o,
		High:     h,
		Low:      l,
		Close:    cl,
		Volume:   v,
	}, nil
}

// rawBook mirrors the l2Book response: levels[0] bids, levels[1] asks,
// each level a [price, size] string pair.
type rawBook struct {
	Levels [][]json.RawMessage `json:"levels"`
	Time   int64               `json:"time"`
}

// Orderbook fetches the current L2 book for coin.
func (c *Client) Orderbook(ctx context.Context, coin string) (models.OrderbookSnapshot, error) {
	var raw rawBook
	if err := c.post(ctx, infoRequest{Type: "l2Book", Coin: coin}, &raw); err != nil {
		return models.OrderbookSnapshot{}, fmt.Errorf("l2 book %s: %w", coin, err)
	}
	return parseBook(coin, raw)
}

func parseBook(coin string, raw rawBook) (models.OrderbookSnapshot, error) {
	if len(raw.Levels) < 2 {
		return models.OrderbookSnapshot{}, fmt.Errorf("l2 book %s: missing sides", coin)
	}
	bids, err := parseLevels(raw.Levels[0])
	if err != nil {
		return models.OrderbookSnapshot{}, fmt.Errorf("l2 book %s bids: %w", coin, err)
	}
	asks, err := parseLevels(raw.Levels[1])
	if err != nil {
		return models.OrderbookSnapshot{}, fmt.Errorf("l2 book %s asks: %w", coin, err)
	}
	ts := time.Now()
	if raw.Time > 0 {
		ts = time.UnixMilli(raw.Time)
	}
	return models.OrderbookSnapshot{Coin: coin, Timestamp: ts, Bids: bids, Asks: asks}, nil
}

func parseLevels(side []json.RawMessage) ([]models.BookLevel, error) {
	out := make([]models.BookLevel, 0, len(side))
	for _, lv := range side {
		var pair [2]string
		if err := json.Unmarshal(lv, &pair); err != nil {
			// Some book feeds encode levels as objects instead of pairs.
			var obj struct {
				Px string `json:"px"`
				Sz string `json:"sz"`
			}
			if err2 := json.Unmarshal(lv, &obj); err2 != nil {
				return nil, err
			}
			pair[0], pair[1] = obj.Px, obj.Sz
		}
		price, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", pair[0], err)
		}
		size, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", pair[1], err)
		}
		out = append(out, models.BookLevel{Price: price, Size: size})
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, body, dest interface{}) error {
	return c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    c.baseURL + "/info",
		Body:   body,
	}, dest)
}
