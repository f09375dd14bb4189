package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
	"InsideX/internal/repository"
	"InsideX/internal/service/scoring"
	"InsideX/internal/usecase"
	"InsideX/pkg/cache"
	xhttp "InsideX/pkg/http"
	"InsideX/pkg/sqlite"
)

func ptr[T any](v T) *T { return &v }

func day(offset int) *string {
	d := time.Now().UTC().AddDate(0, 0, -offset).Format("2006-01-02")
	return &d
}

type brokenStore struct{}

func (brokenStore) Health(context.Context) error { return errors.New("disk gone") }

func newBackend(t *testing.T, limit ScoreLimit) (*client.Client, *repository.SQLStore) {
	t.Helper()
	db, err := sqlite.NewClient(sqlite.WithPath(filepath.Join(t.TempDir(), "trades.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := repository.NewSQLStore(db.DB(), repository.SQLite)
	require.NoError(t, store.Init(context.Background()))
	_, err = store.Insert(context.Background(), []models.Trade{
		{FilingDate: day(1), TradeDate: day(2), Ticker: ptr("NVDA"), CompanyName: ptr("NVIDIA Corp"),
			InsiderName: "Jensen Huang", Title: ptr("CEO"), TradeType: "P - Purchase", Price: ptr(900.0),
			Qty: ptr(int64(1500)), Value: ptr(1_350_000.0), Performance1M: ptr(0.08)},
		{FilingDate: day(3), TradeDate: day(4), Ticker: ptr("AAPL"), CompanyName: ptr("Apple Inc"),
			InsiderName: "Jane Roe", Title: ptr("Director"), TradeType: "Buy", Price: ptr(180.0),
			Qty: ptr(int64(100)), Value: ptr(18_000.0)},
		{FilingDate: day(5), TradeDate: day(6), Ticker: ptr("NVDA"), CompanyName: ptr("NVIDIA Corp"),
			InsiderName: "Colette Kress", Title: ptr("CFO"), TradeType: "S - Sale", Price: ptr(850.0),
			Qty: ptr(int64(-400)), Value: ptr(-340_000.0)},
	})
	require.NoError(t, err)

	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	trades := usecase.NewTradesUseCase(store, nil, nil)
	signals := usecase.NewSignalsUseCase(store, scoring.NewHeuristic(), mc, time.Minute, nil, nil)
	h := NewHandler(trades, signals, store, limit, nil)

	srv := httptest.NewServer(xhttp.NewServer([]xhttp.Handler{h}, xhttp.WithMetrics(false, 0)).Echo())
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{BaseURL: srv.URL + Prefix, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c, store
}

func TestTradesEndpoints(t *testing.T) {
	c, _ := newBackend(t, ScoreLimit{})
	ctx := context.Background()

	page, err := c.ListTrades(ctx, client.TradeFilter{Ticker: "nvda", Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Trades, 1)
	assert.Equal(t, int64(2), page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, "Buy", page.Trades[0].TradeType)

	one, err := c.GetTrade(ctx, page.Trades[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Jensen Huang", one.InsiderName)

	_, err = c.GetTrade(ctx, 999_999)
	assert.True(t, client.IsNotFound(err))

	stats, err := c.GetTradeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRecords)
	assert.Equal(t, int64(2), stats.UniqueCompanies)
}

func TestTradesRejectsBadQuery(t *testing.T) {
	c, _ := newBackend(t, ScoreLimit{})

	_, err := c.ListTrades(context.Background(), client.TradeFilter{Limit: 5000})
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, client.KindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "limit")
}

func TestCompanyAndInsiderEndpoints(t *testing.T) {
	c, _ := newBackend(t, ScoreLimit{})
	ctx := context.Background()

	co, err := c.GetCompany(ctx, "NVDA")
	require.NoError(t, err)
	assert.Equal(t, int64(2), co.Company.TotalTrades)
	assert.Equal(t, int64(1500), co.Company.TotalBought)
	assert.Equal(t, int64(400), co.Company.TotalSold)

	_, err = c.GetCompany(ctx, "ZZZZ")
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, "Company not found", client.Message(err))

	list, err := c.ListCompanies(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)

	in, err := c.GetInsider(ctx, "Jane Roe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", in.Insider.InsiderName)
	assert.Equal(t, int64(1), in.Insider.TotalTrades)

	_, err = c.GetInsider(ctx, "Nobody Here")
	assert.True(t, client.IsNotFound(err))

	insiders, err := c.ListInsiders(ctx, client.InsiderListParams{SortBy: "recent", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, models.InsiderSortRecent, insiders.SortedBy)
	assert.Len(t, insiders.Insiders, 3)

	top, err := c.TopInsiders(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top.Insiders, 1)
	assert.Equal(t, "Jensen Huang", top.Insiders[0].InsiderName)
}

func TestInsiderNamesRoundTrip(t *testing.T) {
	c, store := newBackend(t, ScoreLimit{})
	ctx := context.Background()

	names := []string{"O'Brien, Pat", "Smith / Jones", "100% Holdings LLC", "A%20B"}
	var rows []models.Trade
	for i, name := range names {
		rows = append(rows, models.Trade{FilingDate: day(i + 1), TradeDate: day(i + 2), Ticker: ptr("AMD"),
			InsiderName: name, TradeType: "Buy", Qty: ptr(int64(10 + i)), Value: ptr(1000.0)})
	}
	_, err := store.Insert(ctx, rows)
	require.NoError(t, err)

	for _, name := range names {
		in, err := c.GetInsider(ctx, name)
		require.NoError(t, err, name)
		assert.Equal(t, name, in.Insider.InsiderName)
		assert.Equal(t, int64(1), in.Insider.TotalTrades, name)
	}
}

func TestSignalEndpoints(t *testing.T) {
	c, _ := newBackend(t, ScoreLimit{})
	ctx := context.Background()

	top, err := c.GetTopSignals(ctx, client.TopSignalsParams{WindowDays: 30, Limit: 10})
	require.NoError(t, err)
	require.Len(t, top.Signals, 2)
	assert.Equal(t, "NVDA", top.Signals[0].Ticker)
	assert.Equal(t, models.ConfidenceHigh, top.Signals[0].Confidence)
	assert.LessOrEqual(t, top.Signals[0].Score, 1.0)

	scored, err := c.ScoreSignals(ctx, models.TickerScoreRequest("AAPL", 30))
	require.NoError(t, err)
	require.Len(t, scored.Signals, 1)
	assert.Equal(t, "AAPL", scored.Signals[0].Ticker)

	info, err := c.GetModelInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.ModelType, info["model_type"])

	ok, err := c.HealthCheck(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScoreIsRateLimited(t *testing.T) {
	c, _ := newBackend(t, ScoreLimit{Capacity: 1, RefillPerSec: 0.001})
	ctx := context.Background()

	_, err := c.ScoreSignals(ctx, models.TickerScoreRequest("NVDA", 0))
	require.NoError(t, err)

	_, err = c.ScoreSignals(ctx, models.TickerScoreRequest("NVDA", 0))
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}

func TestHealthReportsStoreFailure(t *testing.T) {
	h := NewHandler(nil, nil, brokenStore{}, ScoreLimit{}, nil)
	srv := httptest.NewServer(xhttp.NewServer([]xhttp.Handler{h}, xhttp.WithMetrics(false, 0)).Echo())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}
