package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"InsideX/internal/domain/models"
	xhttp "InsideX/pkg/http"
	xlogger "InsideX/pkg/logger"
)

func (h *Handler) TopSignals(c echo.Context) error {
	q := &models.TopSignalsQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.signals.TopSignals(c.Request().Context(), q.WindowDays, q.Limit)
	if err != nil {
		return h.fail(c, "top_signals", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

// Score is rate limited per client address.
func (h *Handler) Score(c echo.Context) error {
	if h.limit.Capacity > 0 && !h.limiter.Allow(c.RealIP()+":score", h.limit.Capacity, h.limit.RefillPerSec) {
		h.log.Warn("score rate limited", xlogger.String("remote", c.RealIP()))
		return c.JSON(http.StatusTooManyRequests, xhttp.ErrorBody{Detail: "rate limited"})
	}

	req := &models.ScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.signals.Score(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "score", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) ModelInfo(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.signals.ModelInfo())
}
