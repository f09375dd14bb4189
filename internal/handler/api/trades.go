package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"InsideX/internal/domain/models"
	domrepo "InsideX/internal/domain/repository"
	xhttp "InsideX/pkg/http"
)

func (h *Handler) ListTrades(c echo.Context) error {
	q := &models.TradeQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.trades.ListTrades(c.Request().Context(), *q)
	if err != nil {
		return h.fail(c, "trades", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) TradeStats(c echo.Context) error {
	res, err := h.trades.Stats(c.Request().Context())
	if err != nil {
		return h.fail(c, "trade_stats", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) GetTrade(c echo.Context) error {
	req := &models.TradeByIDRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.trades.GetTrade(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, "trade", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) ListCompanies(c echo.Context) error {
	q := &models.CompanyListQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.trades.ListCompanies(c.Request().Context(), q.Limit)
	if err != nil {
		return h.fail(c, "companies", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) GetCompany(c echo.Context) error {
	req := &models.CompanyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.trades.Company(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "company", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) ListInsiders(c echo.Context) error {
	q := &models.InsiderListQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	sort := domrepo.NormalizeInsiderSort(q.SortBy)
	res, err := h.trades.ListInsiders(c.Request().Context(), sort, q.Limit)
	if err != nil {
		return h.fail(c, "insiders", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *Handler) TopInsiders(c echo.Context) error {
	q := &models.TopInsidersQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.trades.TopInsiders(c.Request().Context(), q.Limit)
	if err != nil {
		return h.fail(c, "top_insiders", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// GetInsider takes the insider name as one escaped path segment.
func (h *Handler) GetInsider(c echo.Context) error {
	name, err := xhttp.PathParam(c, "name")
	if err != nil || name == "" {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_INVALID", "name", "insider name is malformed", http.StatusBadRequest))
	}
	res, err := h.trades.Insider(c.Request().Context(), name)
	if err != nil {
		return h.fail(c, "insider", err)
	}
	return xhttp.SuccessResponse(c, res)
}
