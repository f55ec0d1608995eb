package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
	xhttp "TradePilot/pkg/http"
)

// Client fetches the externally produced news sentiment signal over HTTP.
// The news service runs its own NLP pipeline; this client only maps its
// response onto a SubSignal.
type Client struct {
	baseURL string
	http    *xhttp.Client
	retries int
}

// New creates a news sentiment client.
func New(baseURL string, timeout time.Duration, retries int) drepo.NewsProvider {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if retries < 1 {
		retries = 1
	}
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		retries: retries,
	}
}

type sentimentResp struct {
	Coin       string  `json:"coin"`
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
	Sentiment  string  `json:"sentiment"`
	Error      string  `json:"error,omitempty"`
}

// Sentiment fetches the news SubSignal for coin.
func (c *Client) Sentiment(ctx context.Context, coin string) (models.SubSignal, error) {
	if c.baseURL == "" {
		return models.SubSignal{}, fmt.Errorf("news client not configured")
	}

	var resp sentimentResp
	var err error
	for i := 1; i <= c.retries; i++ {
		err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + "/sentiment",
			QueryParams: map[string][]string{"coin": {coin}},
		}, &resp)
		if err == nil {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return models.SubSignal{}, ctx.Err()
		}
	}
	if err != nil {
		return models.SubSignal{}, fmt.Errorf("news sentiment %s: %w", coin, err)
	}

	sig, ok := parseSignal(resp.Signal)
	if !ok {
		return models.SubSignal{}, fmt.Errorf("news sentiment %s: unknown signal %q", coin, resp.Signal)
	}
	if resp.Confidence < 0 || resp.Confidence > 100 {
		return models.SubSignal{}, fmt.Errorf("news sentiment %s: confidence %.2f out of range", coin, resp.Confidence)
	}

	return models.SubSignal{
		Coin:       coin,
		Source:     models.SourceNews,
		Signal:     sig,
		Confidence: resp.Confidence,
		Evidence:   models.Evidence{Sentiment: resp.Sentiment},
		Err:        resp.Error,
	}, nil
}

func parseSignal(s string) (models.Signal, bool) {
	switch models.Signal(strings.ToUpper(strings.TrimSpace(s))) {
	case models.StrongBuy:
		return models.StrongBuy, true
	case models.Buy:
		return models.Buy, true
	case models.Neutral:
		return models.Neutral, true
	case models.Sell:
		return models.Sell, true
	case models.StrongSell:
		return models.StrongSell, true
	default:
		return models.Neutral, false
	}
}
