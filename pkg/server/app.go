package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "TradePilot/internal/domain/repository"
	"TradePilot/internal/service/cache"
	"TradePilot/internal/usecase"
	pkgch "TradePilot/pkg/clickhouse"
	"TradePilot/pkg/config"
	xhttp "TradePilot/pkg/http"
	applogger "TradePilot/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	collector  *usecase.BookCollector
	handler    xhttp.Handler
	chClient   *pkgch.Client
	sigCache   cache.SignalCache
	publisher  drepo.SignalPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.BookCollector,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	sigCache cache.SignalCache,
	publisher drepo.SignalPublisher,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		handler:   handler,
		chClient:  chClient,
		sigCache:  sigCache,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithServerLogger(a.logger),
	)

	// Live book stream is optional; without it the pipeline falls back
	// to HTTP snapshots.
	if a.collector != nil && a.cfg.Hyperliquid.WebSocketURL != "" {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.logger.Error("book collector error", applogger.Error(err))
			}
		}()
		a.logger.Info("book collector started", applogger.Strings("coins", a.cfg.Hyperliquid.Coins))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		a.collector.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.sigCache != nil {
		if err := a.sigCache.Close(); err != nil {
			a.logger.Warn("signal cache close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
