// Package web serves the server-rendered InsideX dashboard. Every page is
// loaded through the typed API client by a page controller.
package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"InsideX/internal/controller"
	"InsideX/internal/domain/models"
	"InsideX/internal/ui/render"
	"InsideX/internal/ui/table"
	xhttp "InsideX/pkg/http"
	xlogger "InsideX/pkg/logger"
)

// Handler renders the dashboard, list and detail pages.
type Handler struct {
	dashboard *controller.Dashboard
	signals   *controller.SignalsList
	trades    *controller.TradesList
	detail    *controller.Detail
	windows   []int
	log       *xlogger.Logger
}

func NewHandler(api controller.API, perPage int, windows []int, log *xlogger.Logger) *Handler {
	if log == nil {
		log = xlogger.Nop()
	}
	if len(windows) == 0 {
		windows = []int{7, 30, 90}
	}
	return &Handler{
		dashboard: controller.NewDashboard(api, log),
		signals:   controller.NewSignalsList(api, perPage, log),
		trades:    controller.NewTradesList(api, perPage, log),
		detail:    controller.NewDetail(api, log),
		windows:   windows,
		log:       log,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Dashboard)
	e.GET("/signals", h.Signals)
	e.GET("/trades", h.Trades)
	e.GET("/companies/:ticker", h.Company)
	e.GET("/insiders/:name", h.Insider)
}

func (h *Handler) page(c echo.Context, status int, name, title, nav string, data any) error {
	return c.Render(status, name, render.Page{Title: title, Nav: nav, Data: data})
}

func (h *Handler) Dashboard(c echo.Context) error {
	st, _ := h.dashboard.Load(c.Request().Context())

	signals := &table.Table{Columns: render.SignalColumns(), Loading: st.Status == controller.StatusLoading}
	if st.Signals != nil {
		signals.Data = table.Rows(st.Signals.Signals)
	}
	trades := &table.Table{
		Columns: render.TradeColumns(),
		Data:    table.Rows(st.Trades),
		Loading: st.Status == controller.StatusLoading,
	}

	return h.page(c, http.StatusOK, "dashboard", "Dashboard", "dashboard", render.DashboardView{
		State:   st,
		Signals: render.NewTableData(signals, nil),
		Trades:  render.NewTableData(trades, nil),
	})
}

func sortFrom(c echo.Context) table.SortState {
	key := c.QueryParam("sort")
	if key == "" {
		return table.SortState{}
	}
	return table.SortState{Key: key, Direction: table.ParseDirection(c.QueryParam("dir"))}
}

// linker rebuilds the current query with some parameters replaced.
type linker struct {
	path  string
	query url.Values
}

func newLinker(c echo.Context) linker {
	return linker{path: c.Path(), query: c.QueryParams()}
}

// without drops keys that must not survive into generated links.
func (l linker) without(keys ...string) linker {
	q := url.Values{}
	for k, v := range l.query {
		q[k] = v
	}
	for _, k := range keys {
		q.Del(k)
	}
	return linker{path: l.path, query: q}
}

func (l linker) with(kv ...string) string {
	q := url.Values{}
	for k, v := range l.query {
		q[k] = append([]string(nil), v...)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			q.Del(kv[i])
			continue
		}
		q.Set(kv[i], kv[i+1])
	}
	if len(q) == 0 {
		return l.path
	}
	return l.path + "?" + q.Encode()
}

// sortHref resets to the first page since the order changed.
func (l linker) sortHref(s table.SortState) string {
	return l.with("sort", s.Key, "dir", string(s.Direction), "page", "")
}

func (l linker) pageHref(n int) string {
	return l.with("page", strconv.Itoa(n))
}

func (h *Handler) Signals(c echo.Context) error {
	if c.QueryParam("refresh") != "" {
		h.signals.Refresh()
	}
	q := controller.SignalsQuery{
		WindowDays: xhttp.ParseIntDefault(c.QueryParam("window_days"), 0),
		Confidence: models.Confidence(c.QueryParam("confidence")),
		Search:     c.QueryParam("q"),
		Sort:       sortFrom(c),
		Page:       xhttp.ParseIntDefault(c.QueryParam("page"), 1),
	}
	pg, _ := h.signals.Load(c.Request().Context(), q)

	l := newLinker(c).without("refresh")
	tbl := &table.Table{
		Columns:  render.SignalColumns(),
		Data:     table.Rows(pg.Signals),
		Sortable: true,
		Sort:     pg.Query.Sort,
	}
	return h.page(c, http.StatusOK, "signals", "Signals", "signals", render.SignalsView{
		Page:    pg,
		Table:   render.NewTableData(tbl, l.sortHref),
		Pager:   render.NewPagerData(pg.Pagination, l.pageHref),
		Refresh: l.with("refresh", "1"),
		Windows: h.windows,
		Tiers:   []string{string(models.ConfidenceHigh), string(models.ConfidenceMedium), string(models.ConfidenceLow)},
	})
}

func (h *Handler) Trades(c echo.Context) error {
	q := controller.TradesQuery{
		Ticker:      c.QueryParam("ticker"),
		InsiderName: c.QueryParam("insider"),
		TradeType:   c.QueryParam("type"),
		Sort:        sortFrom(c),
		Page:        xhttp.ParseIntDefault(c.QueryParam("page"), 1),
	}
	pg, _ := h.trades.Load(c.Request().Context(), q)

	l := newLinker(c)
	tbl := &table.Table{
		Columns:  render.TradeColumns(),
		Data:     table.Rows(pg.Trades),
		Sortable: true,
		Sort:     pg.Query.Sort,
	}
	return h.page(c, http.StatusOK, "trades", "Trades", "trades", render.TradesView{
		Page:  pg,
		Table: render.NewTableData(tbl, l.sortHref),
		Pager: render.NewPagerData(pg.Pagination, l.pageHref),
	})
}

func (h *Handler) Company(c echo.Context) error {
	pg, _ := h.detail.Company(c.Request().Context(), c.Param("ticker"))

	tbl := &table.Table{Columns: render.TradeColumns()}
	if pg.Company != nil {
		tbl.Data = table.Rows(pg.Company.RecentTrades)
	}
	status := http.StatusOK
	if pg.NotFound {
		status = http.StatusNotFound
	}
	return h.page(c, status, "company", pg.Ticker, "", render.CompanyView{
		Page:   pg,
		Trades: render.NewTableData(tbl, nil),
	})
}

func (h *Handler) Insider(c echo.Context) error {
	name, err := xhttp.PathParam(c, "name")
	if err != nil {
		return h.page(c, http.StatusBadRequest, "error", "Bad request", "", render.ErrorView{
			Status:  http.StatusBadRequest,
			Message: "Insider name is malformed",
		})
	}
	pg, _ := h.detail.Insider(c.Request().Context(), name)

	trades := &table.Table{Columns: render.TradeColumns()}
	history := &table.Table{Columns: render.HistoryColumns()}
	if pg.Insider != nil {
		trades.Data = table.Rows(pg.Insider.RecentTrades)
		history.Data = table.Rows(pg.Insider.PerformanceHistory)
	}
	status := http.StatusOK
	if pg.NotFound {
		status = http.StatusNotFound
	}
	return h.page(c, status, "insider", pg.Name, "", render.InsiderView{
		Page:    pg,
		Trades:  render.NewTableData(trades, nil),
		History: render.NewTableData(history, nil),
	})
}
