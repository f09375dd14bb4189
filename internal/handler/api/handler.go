// Package api serves the InsideX REST backend under /api/v1.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"InsideX/internal/domain/models"
	domrepo "InsideX/internal/domain/repository"
	"InsideX/internal/service/metrics"
	"InsideX/internal/service/ratelimit"
	"InsideX/internal/usecase"
	xhttp "InsideX/pkg/http"
	xlogger "InsideX/pkg/logger"
)

// Prefix is the mount point of every REST route except /healthz.
const Prefix = "/api/v1"

// HealthChecker reports whether the trade store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ScoreLimit is the per-client token bucket guarding POST /signals/score.
type ScoreLimit struct {
	Capacity     float64
	RefillPerSec float64
}

// Handler implements the REST endpoints on top of the trade and signal use cases.
type Handler struct {
	trades  *usecase.TradesUseCase
	signals *usecase.SignalsUseCase
	health  HealthChecker
	limiter *ratelimit.Limiter
	limit   ScoreLimit
	log     *xlogger.Logger
}

func NewHandler(trades *usecase.TradesUseCase, signals *usecase.SignalsUseCase, health HealthChecker, limit ScoreLimit, log *xlogger.Logger) *Handler {
	metrics.Register()
	if log == nil {
		log = xlogger.Nop()
	}
	return &Handler{
		trades:  trades,
		signals: signals,
		health:  health,
		limiter: ratelimit.New(),
		limit:   limit,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.instrument("health", h.Health))

	g := e.Group(Prefix)
	g.GET("/healthz", h.instrument("health", h.Health))

	g.GET("/trades", h.instrument("trades", h.ListTrades))
	g.GET("/trades/stats", h.instrument("trade_stats", h.TradeStats))
	g.GET("/trades/:id", h.instrument("trade", h.GetTrade))

	g.GET("/companies", h.instrument("companies", h.ListCompanies))
	g.GET("/companies/:ticker", h.instrument("company", h.GetCompany))

	g.GET("/insiders", h.instrument("insiders", h.ListInsiders))
	g.GET("/insiders/top", h.instrument("top_insiders", h.TopInsiders))
	g.GET("/insiders/:name", h.instrument("insider", h.GetInsider))

	g.GET("/signals/top", h.instrument("top_signals", h.TopSignals))
	g.POST("/signals/score", h.instrument("score", h.Score))
	g.GET("/signals/model-info", h.instrument("model_info", h.ModelInfo))
}

func (h *Handler) instrument(endpoint string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		metrics.Observe(endpoint, start, err != nil || c.Response().Status >= http.StatusInternalServerError)
		return err
	}
}

// fail maps use case errors onto the ErrorBody shape.
func (h *Handler) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, domrepo.ErrNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(notFoundDetail(op)).WithError(err))
	case errors.Is(err, models.ErrEmptyScoreRequest), errors.Is(err, models.ErrAmbiguousScoreRequest):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, context.Canceled):
		return err
	}
	h.log.Error("request failed",
		xlogger.String("op", op),
		xlogger.String("path", c.Path()),
		xlogger.Error(err),
	)
	return xhttp.InternalServerErrorResponse(c)
}

func notFoundDetail(op string) string {
	switch op {
	case "trade":
		return "Trade not found"
	case "company":
		return "Company not found"
	case "insider":
		return "Insider not found"
	}
	return "Not found"
}

func (h *Handler) Health(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Health(c.Request().Context()); err != nil {
			h.log.Warn("health check failed", xlogger.Error(err))
			return c.JSON(http.StatusServiceUnavailable, xhttp.ErrorBody{Detail: "database unavailable"})
		}
	}
	return xhttp.SuccessResponse(c, models.HealthResponse{Status: "healthy"})
}
