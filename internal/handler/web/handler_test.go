package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
	"InsideX/internal/ui/render"
)

func ptr[T any](v T) *T { return &v }

type fakeAPI struct {
	mu          sync.Mutex
	signalCalls int

	signals   []models.Signal
	trades    []models.Trade
	statsErr  error
	lastTrade client.TradeFilter
}

func (f *fakeAPI) GetTopSignals(_ context.Context, p client.TopSignalsParams) (*models.TopSignalsResponse, error) {
	f.mu.Lock()
	f.signalCalls++
	f.mu.Unlock()
	return &models.TopSignalsResponse{GeneratedAt: time.Now(), WindowDays: p.WindowDays, Signals: f.signals, Total: len(f.signals)}, nil
}

func (f *fakeAPI) ListTrades(_ context.Context, filter client.TradeFilter) (*models.TradeListResponse, error) {
	f.lastTrade = filter
	return &models.TradeListResponse{Trades: f.trades, Total: int64(len(f.trades)), Limit: filter.Limit}, nil
}

func (f *fakeAPI) GetTradeStats(context.Context) (*models.TradeStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &models.TradeStats{TotalRecords: int64(len(f.trades))}, nil
}

func (f *fakeAPI) GetCompany(_ context.Context, ticker string) (*models.CompanyResponse, error) {
	if ticker != "NVDA" {
		return nil, &client.APIError{Kind: client.KindHTTP, Status: http.StatusNotFound, Message: "Company not found"}
	}
	return &models.CompanyResponse{Company: models.CompanySummary{Ticker: ticker, TotalTrades: 1}, RecentTrades: f.trades}, nil
}

func (f *fakeAPI) GetInsider(_ context.Context, name string) (*models.InsiderResponse, error) {
	return &models.InsiderResponse{Insider: models.InsiderSummary{InsiderName: name, TotalTrades: 1}}, nil
}

func newServer(t *testing.T, api *fakeAPI) *httptest.Server {
	t.Helper()
	r, err := render.NewHTML()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = r
	NewHandler(api, 2, nil, nil).RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(b)
}

func fixture() *fakeAPI {
	return &fakeAPI{
		signals: []models.Signal{
			{Ticker: "NVDA", Score: 0.85, Confidence: models.ConfidenceHigh, InsiderName: ptr("Jensen Huang")},
			{Ticker: "AAPL", Score: 0.53, Confidence: models.ConfidenceMedium},
			{Ticker: "MSFT", Score: 0.41, Confidence: models.ConfidenceLow},
		},
		trades: []models.Trade{
			{ID: 1, Ticker: ptr("NVDA"), InsiderName: "Jensen Huang", TradeType: "Buy", Value: ptr(2_500_000.0)},
		},
	}
}

func TestDashboardPage(t *testing.T) {
	srv := newServer(t, fixture())

	code, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<td>NVDA</td>")
	assert.Contains(t, body, "$2.5M")
}

func TestDashboardFailsAsAWhole(t *testing.T) {
	api := fixture()
	api.statsErr = &client.APIError{Kind: client.KindTransport, Message: "Request timed out"}
	srv := newServer(t, api)

	_, body := get(t, srv.URL+"/")
	assert.Contains(t, body, "Request timed out")
	assert.NotContains(t, body, "<td>NVDA</td>")
}

func TestSignalsPageSortsAndPages(t *testing.T) {
	srv := newServer(t, fixture())

	code, body := get(t, srv.URL+"/signals?sort=score&dir=asc")
	require.Equal(t, http.StatusOK, code)
	assert.Less(t, strings.Index(body, "<td>MSFT</td>"), strings.Index(body, "<td>AAPL</td>"))
	assert.NotContains(t, body, "<td>NVDA</td>", "third signal is on page two")
	assert.Contains(t, body, "Showing 1 to 2 of 3 results")
	assert.Contains(t, body, "page=2")

	_, body = get(t, srv.URL+"/signals?confidence=high")
	assert.Contains(t, body, "<td>NVDA</td>")
	assert.NotContains(t, body, "<td>AAPL</td>")

	_, body = get(t, srv.URL+"/signals?q=zzz")
	assert.Contains(t, body, "No data available")
	assert.NotContains(t, body, "Showing")
}

func TestSignalsPageRefreshLink(t *testing.T) {
	api := fixture()
	srv := newServer(t, api)

	_, body := get(t, srv.URL+"/signals?confidence=high")
	assert.Contains(t, body, `href="/signals?confidence=high&amp;refresh=1"`)
	_, _ = get(t, srv.URL+"/signals?confidence=low")
	assert.Equal(t, 1, api.signalCalls, "view changes reuse the fetched window")

	_, body = get(t, srv.URL+"/signals?confidence=high&refresh=1")
	assert.Equal(t, 2, api.signalCalls)
	assert.NotContains(t, body, "page=1&amp;refresh", "links do not carry the refresh flag")
	assert.NotContains(t, body, "refresh=1&amp;sort")
}

func TestTradesPagePassesFilter(t *testing.T) {
	api := fixture()
	for id := int64(2); id <= 5; id++ {
		api.trades = append(api.trades, models.Trade{ID: id, Ticker: ptr("NVDA"), InsiderName: "Jensen Huang", TradeType: "Buy"})
	}
	srv := newServer(t, api)

	code, body := get(t, srv.URL+"/trades?ticker=NVDA&type=Buy&page=3")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "NVDA", api.lastTrade.Ticker)
	assert.Equal(t, "Buy", api.lastTrade.TradeType)
	assert.Equal(t, 4, api.lastTrade.Offset)
	assert.Contains(t, body, "Jensen Huang")

	_, body = get(t, srv.URL+"/trades?page=40")
	assert.Equal(t, 4, api.lastTrade.Offset, "past the end falls back to the last page")
	assert.Contains(t, body, "Showing 5 to 5 of 5 results")
}

func TestDetailPages(t *testing.T) {
	srv := newServer(t, fixture())

	code, body := get(t, srv.URL+"/companies/nvda")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>NVDA")

	code, body = get(t, srv.URL+"/companies/zzzz")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "Company not found")

	code, body = get(t, srv.URL+"/insiders/Jane%20Roe")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>Jane Roe</h1>")

	code, body = get(t, srv.URL+"/insiders/100%25%20Holdings")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>100% Holdings</h1>")

	code, body = get(t, srv.URL+"/insiders/Smith%20%2F%20Jones")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1>Smith / Jones</h1>")
}
