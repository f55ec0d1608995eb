package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"
	appmw "TradePilot/internal/middleware"
	"TradePilot/internal/service/cache"
	svcmetrics "TradePilot/internal/service/metrics"
	"TradePilot/internal/service/ratelimit"
	"TradePilot/internal/usecase"
	xhttp "TradePilot/pkg/http"
	xlogger "TradePilot/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsHandler exposes the analysis pipeline over HTTP.
type SignalsHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.SignalPipeline
	perf     *usecase.PerformanceAggregator
	gate     *appmw.DecisionGate
	store    drepo.SignalStore
	cache    cache.SignalCache
	cacheTTL time.Duration
	limiter  *ratelimit.Limiter
	rlCap    float64
	rlRefill float64
	health   func(ctx context.Context) error
}

type HandlerOption func(*SignalsHandler)

// WithCache enables the per-coin signal cache with the given TTL.
func WithCache(c cache.SignalCache, ttl time.Duration) HandlerOption {
	return func(h *SignalsHandler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

// WithRateLimit throttles API callers per client IP.
func WithRateLimit(l *ratelimit.Limiter, capacity, refillPerSec float64) HandlerOption {
	return func(h *SignalsHandler) {
		h.limiter = l
		h.rlCap = capacity
		h.rlRefill = refillPerSec
	}
}

// WithHealthCheck adds a dependency probe to GET /health.
func WithHealthCheck(fn func(ctx context.Context) error) HandlerOption {
	return func(h *SignalsHandler) { h.health = fn }
}

func NewSignalsHandler(
	logger *xlogger.Logger,
	pipeline *usecase.SignalPipeline,
	perf *usecase.PerformanceAggregator,
	gate *appmw.DecisionGate,
	store drepo.SignalStore,
	opts ...HandlerOption,
) *SignalsHandler {
	h := &SignalsHandler{
		logger:   logger,
		pipeline: pipeline,
		perf:     perf,
		gate:     gate,
		store:    store,
		cacheTTL: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	if h.limiter != nil {
		g.Use(h.rateLimit)
	}
	g.GET("/signal", h.Signal)
	g.GET("/signals", h.Signals)
	g.GET("/history", h.History)
	g.GET("/performance", h.Performance)
	e.GET("/health", h.Health)
}

func (h *SignalsHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.limiter.Allow(c.RealIP(), h.rlCap, h.rlRefill) {
			return xhttp.TooManyRequestsResponse(c, "rate limit exceeded")
		}
		return next(c)
	}
}

// Signal fuses and returns the master signal for one coin.
func (h *SignalsHandler) Signal(c echo.Context) error {
	start := time.Now()
	defer func() { svcmetrics.APILatency.WithLabelValues("signal").Observe(time.Since(start).Seconds()) }()

	req := &models.MasterSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	if h.cache != nil {
		if s, ok, err := h.cache.Get(ctx, req.Coin); err == nil && ok {
			svcmetrics.CacheHits.WithLabelValues("hit").Inc()
			return xhttp.SuccessResponse(c, s)
		}
		svcmetrics.CacheHits.WithLabelValues("miss").Inc()
	}

	s, err := h.pipeline.GenerateSignal(ctx, req.Coin, drepo.NormalizeInterval(req.Interval))
	if err != nil {
		svcmetrics.APIErrors.WithLabelValues("signal").Inc()
		h.logger.Error("signal pipeline error", xlogger.String("coin", req.Coin), xlogger.Error(err))
		return h.pipelineError(c, err)
	}

	h.deliver(ctx, s)
	if h.cache != nil {
		if err := h.cache.Set(ctx, req.Coin, s, h.cacheTTL); err != nil {
			h.logger.Warn("signal cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, s)
}

// Signals runs the pipeline over all configured coins.
func (h *SignalsHandler) Signals(c echo.Context) error {
	start := time.Now()
	defer func() { svcmetrics.APILatency.WithLabelValues("signals").Observe(time.Since(start).Seconds()) }()

	req := &models.SignalsBatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	signals, err := h.pipeline.GenerateSignals(ctx, drepo.NormalizeInterval(req.Interval))
	if err != nil {
		svcmetrics.APIErrors.WithLabelValues("signals").Inc()
		h.logger.Error("batch pipeline error", xlogger.Error(err))
		return h.pipelineError(c, err)
	}

	for _, s := range signals {
		h.deliver(ctx, s)
	}
	return xhttp.SuccessResponse(c, signals)
}

// History returns recently stored signals for a coin.
func (h *SignalsHandler) History(c echo.Context) error {
	req := &models.SignalHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.store == nil {
		return xhttp.NotFoundResponse(c, "signal history not enabled")
	}

	rows, err := h.store.SignalHistory(c.Request().Context(), req.Coin, req.Limit)
	if err != nil {
		svcmetrics.APIErrors.WithLabelValues("history").Inc()
		h.logger.Error("signal history error", xlogger.String("coin", req.Coin), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("signal history for %s unavailable", req.Coin))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Performance builds the monthly report for a user.
func (h *SignalsHandler) Performance(c echo.Context) error {
	start := time.Now()
	defer func() {
		svcmetrics.APILatency.WithLabelValues("performance").Observe(time.Since(start).Seconds())
	}()

	req := &models.PerformanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.perf.MonthlyReport(c.Request().Context(), req.UserID, req.Month)
	if err != nil {
		svcmetrics.APIErrors.WithLabelValues("performance").Inc()
		h.logger.Error("performance report error",
			xlogger.Int64("user_id", req.UserID),
			xlogger.String("month", req.Month),
			xlogger.Error(err))
		return h.pipelineError(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

// Health probes downstream dependencies.
func (h *SignalsHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.health != nil {
		if err := h.health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["error"] = err.Error()
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
		}
	}
	return xhttp.SuccessResponse(c, status)
}

// deliver hands the fused signal to the decision gate; duplicates inside
// the cooldown window are expected and only logged.
func (h *SignalsHandler) deliver(ctx context.Context, s models.MasterSignal) {
	if h.gate == nil {
		return
	}
	if err := h.gate.Deliver(ctx, "api:"+s.Coin, s); err != nil {
		h.logger.Debug("decision not delivered", xlogger.String("coin", s.Coin), xlogger.Error(err))
	}
}

func (h *SignalsHandler) pipelineError(c echo.Context, err error) error {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		return xhttp.BadRequestResponse(c, verr.Error())
	}
	if errors.Is(err, usecase.ErrBadMonth) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("%v", err))
	}
	return xhttp.AppErrorResponse(c, err)
}
