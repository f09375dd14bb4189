package controller

import (
	"context"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
	"InsideX/internal/ui/pagination"
	"InsideX/internal/ui/table"
	"InsideX/pkg/logger"
)

// TradesQuery is the trades list view: server-side filter and page, sort
// applied to the current page only.
type TradesQuery struct {
	Ticker      string
	InsiderName string
	TradeType   string
	Sort        table.SortState
	Page        int
}

type TradesPage struct {
	Status     Status
	Error      string
	Query      TradesQuery
	Trades     []models.Trade
	Total      int64
	Pagination pagination.Pagination
}

// TradesList pages through trades with limit/offset.
type TradesList struct {
	api     TradesAPI
	log     *logger.Logger
	perPage int
}

func NewTradesList(api TradesAPI, perPage int, log *logger.Logger) *TradesList {
	if perPage <= 0 {
		perPage = 20
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TradesList{api: api, log: log, perPage: perPage}
}

func (t *TradesList) Load(ctx context.Context, q TradesQuery) (TradesPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	resp, err := t.fetch(ctx, q)
	if err == nil {
		// A stale page past the end is pulled back to the last one.
		if last := max(pagination.TotalPagesFor(int(resp.Total), t.perPage), 1); q.Page > last {
			q.Page = last
			resp, err = t.fetch(ctx, q)
		}
	}
	if err != nil {
		t.log.Error("trades load failed", logger.Int("page", q.Page), logger.Error(err))
		return TradesPage{Status: StatusError, Error: client.Message(err), Query: q}, err
	}

	trades := resp.Trades
	SortTrades(trades, q.Sort)

	return TradesPage{
		Status:     StatusReady,
		Query:      q,
		Trades:     trades,
		Total:      resp.Total,
		Pagination: pagination.New(q.Page, int(resp.Total), t.perPage, nil),
	}, nil
}

func (t *TradesList) fetch(ctx context.Context, q TradesQuery) (*models.TradeListResponse, error) {
	return t.api.ListTrades(ctx, client.TradeFilter{
		Ticker:      q.Ticker,
		InsiderName: q.InsiderName,
		TradeType:   q.TradeType,
		Limit:       t.perPage,
		Offset:      pagination.Offset(q.Page, t.perPage),
	})
}
