package di

import (
	"context"
	"fmt"
	"time"

	"TradePilot/internal/domain/repository"
	"TradePilot/internal/handler/api"
	mid "TradePilot/internal/middleware"
	internalrepo "TradePilot/internal/repository"
	"TradePilot/internal/service/cache"
	"TradePilot/internal/service/hyperliquid"
	svcmetrics "TradePilot/internal/service/metrics"
	"TradePilot/internal/service/ratelimit"
	"TradePilot/internal/services/indicators"
	"TradePilot/internal/services/news"
	"TradePilot/internal/services/orderbook"
	"TradePilot/internal/usecase"
	pkgch "TradePilot/pkg/clickhouse"
	"TradePilot/pkg/config"
	pkgkafka "TradePilot/pkg/kafka"
	applogger "TradePilot/pkg/logger"
	"TradePilot/pkg/metrics"
	"TradePilot/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lcfg := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lcfg.Level = "debug"
		lcfg.Format = "console"
	}
	return applogger.New(lcfg)
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.trades (
			id UInt64, user_id Int64, coin String, side String,
			size Float64, entry_price Float64, tp_price Float64, sl_price Float64,
			status String, pnl Float64, ts DateTime
		) ENGINE=MergeTree ORDER BY (user_id, ts)`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.monthly_reports (
			user_id Int64, month String, total_trades UInt32, wins UInt32, losses UInt32,
			win_rate String, total_pnl Float64, return_pct Float64, status String,
			avg_win Float64, avg_loss Float64, updated_at DateTime
		) ENGINE=ReplacingMergeTree(updated_at) ORDER BY (user_id, month)`, db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.signals (
			ts DateTime, coin String, signal String, action String,
			confidence Float64, weighted_score Float64, breakdown String, reasoning String
		) ENGINE=MergeTree ORDER BY (coin, ts)`, db),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideMarketData creates the Hyperliquid REST client.
func ProvideMarketData(cfg *config.Config) repository.MarketData {
	return hyperliquid.New(cfg.Hyperliquid.BaseURL, cfg.Hyperliquid.Timeout)
}

// ProvideBookStream creates the Hyperliquid WebSocket l2Book stream.
func ProvideBookStream(cfg *config.Config) repository.BookStream {
	return hyperliquid.NewStream(
		cfg.Hyperliquid.WebSocketURL,
		cfg.Hyperliquid.Coins,
		cfg.Hyperliquid.ReconnectDelay,
		cfg.Hyperliquid.PingInterval,
	)
}

// ProvideBookCollector caches the latest live book per coin.
func ProvideBookCollector(stream repository.BookStream, m repository.Metrics, cfg *config.Config) *usecase.BookCollector {
	return usecase.NewBookCollector(stream, m, cfg.Hyperliquid.BookMaxAge)
}

// ProvideNewsProvider creates the news sentiment client.
func ProvideNewsProvider(cfg *config.Config) repository.NewsProvider {
	return news.New(cfg.News.BaseURL, cfg.News.Timeout, cfg.News.Retries)
}

// ProvideSignalPipeline assembles the per-coin analysis pipeline.
func ProvideSignalPipeline(
	market repository.MarketData,
	collector *usecase.BookCollector,
	newsProv repository.NewsProvider,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalPipeline {
	calc := indicators.NewCalculator(indicators.MACDMode(cfg.Analysis.MACDMode))
	book := orderbook.NewAnalyzer()
	fused := usecase.NewSignalFusion()

	data := usecase.NewStreamMarketData(collector, market)
	return usecase.NewSignalPipeline(
		data, newsProv, calc, book, fused, m, logger,
		cfg.Hyperliquid.Coins,
		usecase.WithFetchTimeout(cfg.Analysis.FetchTimeout),
		usecase.WithConcurrency(cfg.Analysis.Concurrency),
		usecase.WithLookbackHours(cfg.Analysis.LookbackHours),
	)
}

// ProvideSignalPublisher creates the Kafka decision publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSignalStore creates the ClickHouse signal history store.
func ProvideSignalStore(chClient *pkgch.Client, cfg *config.Config) repository.SignalStore {
	return internalrepo.NewClickHouseSignals(chClient.DB(), cfg.ClickHouse.Database+".signals")
}

// ProvideTradeRepository creates the ClickHouse trade/report repository.
func ProvideTradeRepository(chClient *pkgch.Client, cfg *config.Config) *internalrepo.ClickHouseTrades {
	return internalrepo.NewClickHouseTrades(
		chClient.DB(),
		cfg.ClickHouse.Database+".trades",
		cfg.ClickHouse.Database+".monthly_reports",
	)
}

// ProvidePerformanceAggregator creates the monthly report use case.
func ProvidePerformanceAggregator(trades *internalrepo.ClickHouseTrades, cfg *config.Config) *usecase.PerformanceAggregator {
	return usecase.NewPerformanceAggregator(trades, trades, cfg.Performance.InitialBalance)
}

// ProvideDecisionGate builds the router plus at-most-once delivery gate.
func ProvideDecisionGate(
	pub repository.SignalPublisher,
	store repository.SignalStore,
	m repository.Metrics,
	cfg *config.Config,
) *mid.DecisionGate {
	router := usecase.NewDecisionRouter(pub, store, m, cfg.Backend.Type)
	return mid.NewDecisionGate(router, m, mid.WithCooldown(cfg.Analysis.Cooldown))
}

// ProvideSignalCache picks Redis or in-memory per configuration.
func ProvideSignalCache(cfg *config.Config) cache.SignalCache {
	if cfg.Analysis.Redis.Enabled {
		return cache.NewRedisSignalCache(cache.RedisConfig{
			Addr:     cfg.Analysis.Redis.Addr,
			Password: cfg.Analysis.Redis.Password,
			DB:       cfg.Analysis.Redis.DB,
		})
	}
	return cache.NewMemorySignalCache()
}

// ProvideSignalsHandler wires the HTTP surface.
func ProvideSignalsHandler(
	logger *applogger.Logger,
	pipeline *usecase.SignalPipeline,
	perf *usecase.PerformanceAggregator,
	gate *mid.DecisionGate,
	store repository.SignalStore,
	trades *internalrepo.ClickHouseTrades,
	sigCache cache.SignalCache,
	cfg *config.Config,
) *api.SignalsHandler {
	opts := []api.HandlerOption{
		api.WithCache(sigCache, cfg.Analysis.CacheTTL),
		api.WithHealthCheck(trades.Health),
	}
	if cfg.RateLimit.Capacity > 0 && cfg.RateLimit.RefillPerSec > 0 {
		opts = append(opts, api.WithRateLimit(ratelimit.New(), cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec))
	}
	return api.NewSignalsHandler(logger, pipeline, perf, gate, store, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.BookCollector,
	handler *api.SignalsHandler,
	chClient *pkgch.Client,
	sigCache cache.SignalCache,
	pub repository.SignalPublisher,
) *server.App {
	return server.New(cfg, logger, collector, handler, chClient, sigCache, pub)
}
