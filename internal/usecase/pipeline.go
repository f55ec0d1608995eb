package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
	"TradePilot/internal/services/indicators"
	"TradePilot/internal/services/orderbook"
	applogger "TradePilot/pkg/logger"
)

// SignalPipeline runs the per-coin analysis fan-out: for every tracked coin
// it fetches candles and the orderbook, computes the technical and orderbook
// SubSignals, joins the external news SubSignal, and fuses the three into a
// MasterSignal. Coins are independent; one coin's degraded data never blocks
// or invalidates its siblings.
type SignalPipeline struct {
	market  drepo.MarketData
	news    drepo.NewsProvider
	calc    *indicators.Calculator
	book    *orderbook.Analyzer
	fusion  *SignalFusion
	metrics drepo.Metrics
	logger  *applogger.Logger

	coins         []string
	lookbackHours int
	fetchTimeout  time.Duration
	concurrency   int
}

// PipelineOption configures the pipeline.
type PipelineOption func(*SignalPipeline)

// WithFetchTimeout bounds every per-coin market data fetch.
func WithFetchTimeout(d time.Duration) PipelineOption {
	return func(p *SignalPipeline) {
		if d > 0 {
			p.fetchTimeout = d
		}
	}
}

// WithConcurrency bounds the coin fan-out width.
func WithConcurrency(n int) PipelineOption {
	return func(p *SignalPipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLookbackHours sets how many hours of candles feed the indicators.
func WithLookbackHours(n int) PipelineOption {
	return func(p *SignalPipeline) {
		if n > 0 {
			p.lookbackHours = n
		}
	}
}

// NewSignalPipeline creates a pipeline over the tracked coin set.
func NewSignalPipeline(
	market drepo.MarketData,
	news drepo.NewsProvider,
	calc *indicators.Calculator,
	book *orderbook.Analyzer,
	fusion *SignalFusion,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	coins []string,
	opts ...PipelineOption,
) *SignalPipeline {
	p := &SignalPipeline{
		market:        market,
		news:          news,
		calc:          calc,
		book:          book,
		fusion:        fusion,
		metrics:       metrics,
		logger:        logger,
		coins:         coins,
		lookbackHours: 24,
		fetchTimeout:  10 * time.Second,
		concurrency:   4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateSignals fuses signals for every tracked coin, bounded fan-out,
// collecting into a coin-keyed map.
func (p *SignalPipeline) GenerateSignals(ctx context.Context, interval drepo.Interval) (map[string]models.MasterSignal, error) {
	results := make(map[string]models.MasterSignal, len(p.coins))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

	for _, coin := range p.coins {
		wg.Add(1)
		go func(coin string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			signal, err := p.GenerateSignal(ctx, coin, interval)
			if err != nil {
				// malformed input for one coin must not sink the batch
				p.metrics.RecordError("fusion")
				p.logger.Warn("signal generation failed",
					applogger.String("coin", coin), applogger.Error(err))
				return
			}
			mu.Lock()
			results[coin] = signal
			mu.Unlock()
		}(coin)
	}

	wg.Wait()
	return results, nil
}

// GenerateSignal fuses one coin. Fetch failures and thin data degrade to
// NEUTRAL sub-signals; only malformed fusion input returns an error.
func (p *SignalPipeline) GenerateSignal(ctx context.Context, coin string, interval drepo.Interval) (models.MasterSignal, error) {
	start := time.Now()

	var (
		tech models.SubSignal
		book models.SubSignal
		news models.SubSignal
		wg   sync.WaitGroup
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		tech = p.technicalSignal(ctx, coin, interval)
	}()
	go func() {
		defer wg.Done()
		book = p.orderbookSignal(ctx, coin)
	}()
	go func() {
		defer wg.Done()
		news = p.newsSignal(ctx, coin)
	}()
	wg.Wait()

	for _, s := range []models.SubSignal{news, book, tech} {
		if s.Degraded() {
			p.metrics.RecordDegraded(coin, string(s.Source))
		}
	}

	master, err := p.fusion.Fuse(coin, news, book, tech)
	if err != nil {
		return models.MasterSignal{}, fmt.Errorf("fuse %s: %w", coin, err)
	}

	p.metrics.RecordSignal(coin, string(master.Action))
	p.metrics.RecordLatency("generate_signal", time.Since(start).Seconds())
	return master, nil
}

func (p *SignalPipeline) technicalSignal(ctx context.Context, coin string, interval drepo.Interval) models.SubSignal {
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	series, err := p.market.Candles(ctx, coin, interval, p.lookbackHours)
	if err != nil {
		p.metrics.RecordError("fetch_candles")
		return degraded(coin, models.SourceTechnical, err)
	}
	return p.calc.Analyze(series)
}

func (p *SignalPipeline) orderbookSignal(ctx context.Context, coin string) models.SubSignal {
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	snapshot, err := p.market.Orderbook(ctx, coin)
	if err != nil {
		p.metrics.RecordError("fetch_orderbook")
		return degraded(coin, models.SourceOrderbook, err)
	}
	return p.book.Analyze(snapshot)
}

func (p *SignalPipeline) newsSignal(ctx context.Context, coin string) models.SubSignal {
	if p.news == nil {
		return degraded(coin, models.SourceNews, fmt.Errorf("news provider not configured"))
	}
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	s, err := p.news.Sentiment(ctx, coin)
	if err != nil {
		p.metrics.RecordError("fetch_news")
		return degraded(coin, models.SourceNews, err)
	}
	return s
}

// degraded is the defined fallback for an unavailable source.
func degraded(coin string, source models.Source, err error) models.SubSignal {
	return models.SubSignal{
		Coin:       coin,
		Source:     source,
		Signal:     models.Neutral,
		Confidence: 30,
		Err:        err.Error(),
	}
}
