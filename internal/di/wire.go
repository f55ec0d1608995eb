//go:build wireinject
// +build wireinject

package di

import (
	"TradePilot/pkg/config"
	"TradePilot/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Market data and external signals
		ProvideMarketData,
		ProvideBookStream,
		ProvideBookCollector,
		ProvideNewsProvider,

		// Repositories
		ProvideSignalPublisher,
		ProvideSignalStore,
		ProvideTradeRepository,

		// Use cases
		ProvideSignalPipeline,
		ProvidePerformanceAggregator,
		ProvideDecisionGate,
		ProvideSignalCache,

		// HTTP surface
		ProvideSignalsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
