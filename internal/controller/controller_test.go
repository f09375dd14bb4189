package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
	"InsideX/internal/ui/table"
)

type fakeAPI struct {
	mu sync.Mutex

	signals    *models.TopSignalsResponse
	signalsErr error
	stats      *models.TradeStats
	statsErr   error
	trades     *models.TradeListResponse
	tradesErr  error

	signalCalls []client.TopSignalsParams
	tradeCalls  []client.TradeFilter
}

func (f *fakeAPI) GetTopSignals(_ context.Context, p client.TopSignalsParams) (*models.TopSignalsResponse, error) {
	f.mu.Lock()
	f.signalCalls = append(f.signalCalls, p)
	f.mu.Unlock()
	return f.signals, f.signalsErr
}

func (f *fakeAPI) GetTradeStats(context.Context) (*models.TradeStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeAPI) ListTrades(_ context.Context, filter client.TradeFilter) (*models.TradeListResponse, error) {
	f.mu.Lock()
	f.tradeCalls = append(f.tradeCalls, filter)
	f.mu.Unlock()
	return f.trades, f.tradesErr
}

func ptr[T any](v T) *T { return &v }

func sampleSignals() []models.Signal {
	return []models.Signal{
		{Ticker: "NVDA", Score: 0.82, Confidence: models.ConfidenceHigh, InsiderName: ptr("Jensen Huang")},
		{Ticker: "AAPL", Score: 0.61, Confidence: models.ConfidenceMedium, TradeValue: ptr(1_200_000.0)},
		{Ticker: "MSFT", Score: 0.74, Confidence: models.ConfidenceHigh},
		{Ticker: "AMD", Score: 0.45, Confidence: models.ConfidenceLow, InsiderName: ptr("Lisa Su")},
	}
}

func sampleTrades() []models.Trade {
	return []models.Trade{
		{ID: 1, Ticker: ptr("NVDA"), InsiderName: "A", TradeType: "Buy", Value: ptr(500_000.0)},
		{ID: 2, Ticker: ptr("NVDA"), InsiderName: "B", TradeType: "Sell", Value: ptr(100_000.0)},
		{ID: 3, Ticker: ptr("AAPL"), InsiderName: "C", TradeType: "P - Purchase", Value: ptr(250_000.0)},
		{ID: 4, InsiderName: "D", TradeType: "Buy"},
	}
}

func readyAPI() *fakeAPI {
	return &fakeAPI{
		signals: &models.TopSignalsResponse{GeneratedAt: time.Now(), WindowDays: 30, Signals: sampleSignals(), Total: 4},
		stats:   &models.TradeStats{TotalRecords: 1200, UniqueCompanies: 80, UniqueInsiders: 300},
		trades:  &models.TradeListResponse{Trades: sampleTrades(), Total: 4, Limit: 100},
	}
}

func TestDashboardLoadsBatch(t *testing.T) {
	api := readyAPI()
	d := NewDashboard(api, nil)

	st, err := d.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, []client.TopSignalsParams{{WindowDays: 30, Limit: 10}}, api.signalCalls)
	assert.Equal(t, []client.TradeFilter{{Limit: 100}}, api.tradeCalls)

	assert.Equal(t, 4, st.Derived.TotalSignals)
	assert.Equal(t, 2, st.Derived.HighConfidence)
	require.NotNil(t, st.Derived.AvgScore)
	assert.InDelta(t, 0.655, *st.Derived.AvgScore, 1e-9)
	assert.Equal(t, 3, st.Derived.BuyCount)
	assert.Equal(t, 1, st.Derived.SellCount)
	assert.InDelta(t, 750_000.0, st.Derived.BuyValue, 1e-9)
	assert.Equal(t, 2, st.Derived.ActiveTickers)
	assert.Equal(t, st, d.State())
}

func TestDashboardStatsFailureShowsErrorState(t *testing.T) {
	api := readyAPI()
	api.statsErr = &client.APIError{Op: "GetTradeStats", Kind: client.KindHTTP, Status: 500, Message: "database unavailable"}
	d := NewDashboard(api, nil)

	st, err := d.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "database unavailable", st.Error)
	assert.Nil(t, st.Signals)
	assert.Nil(t, st.Stats)
	assert.Nil(t, st.Trades)
	assert.Zero(t, st.Derived)
}

func TestDashboardFailureReplacesEarlierData(t *testing.T) {
	api := readyAPI()
	d := NewDashboard(api, nil)
	_, err := d.Load(context.Background())
	require.NoError(t, err)

	api.tradesErr = errors.New("boom")
	st, err := d.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "An unexpected error occurred", st.Error)
	assert.Nil(t, d.State().Signals)

	d.Reset()
	assert.Equal(t, DashboardState{Status: StatusIdle}, d.State())
}

// The batch runs against a real server so a failing stats endpoint is
// observed through the normalized client error.
func TestDashboardAgainstServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/signals/top", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"generated_at":"2024-03-05T10:00:00Z","window_days":30,"signals":[],"total":0}`)
	})
	mux.HandleFunc("/api/v1/trades/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"detail":"stats offline"}`)
	})
	mux.HandleFunc("/api/v1/trades", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"trades":[],"total":0,"limit":100,"offset":0}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := client.New(client.Config{BaseURL: srv.URL + "/api/v1", Timeout: 2 * time.Second})
	require.NoError(t, err)

	st, err := NewDashboard(c, nil).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "stats offline", st.Error)
}

func TestSignalsListFiltersSortsAndPages(t *testing.T) {
	api := readyAPI()
	s := NewSignalsList(api, 2, nil)

	page, err := s.Load(context.Background(), SignalsQuery{
		Sort: table.SortState{Key: "score", Direction: table.Desc},
		Page: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Matched)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, []string{"NVDA", "MSFT"}, tickers(page.Signals))

	page, err = s.Load(context.Background(), SignalsQuery{
		Sort: table.SortState{Key: "score", Direction: table.Desc},
		Page: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "AMD"}, tickers(page.Signals))

	page, err = s.Load(context.Background(), SignalsQuery{Confidence: models.ConfidenceHigh, Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Query.Page)
	assert.Equal(t, []string{"NVDA", "MSFT"}, tickers(page.Signals))

	page, err = s.Load(context.Background(), SignalsQuery{Search: "lisa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AMD"}, tickers(page.Signals))

	// Same window is served from the first fetch.
	assert.Len(t, api.signalCalls, 1)
	assert.Equal(t, client.TopSignalsParams{WindowDays: 30, Limit: SignalsFetchLimit}, api.signalCalls[0])
	assert.Equal(t, []string{"NVDA", "AAPL", "MSFT", "AMD"}, tickers(api.signals.Signals), "fetched data is never reordered")

	_, err = s.Load(context.Background(), SignalsQuery{WindowDays: 90})
	require.NoError(t, err)
	assert.Len(t, api.signalCalls, 2)
}

func TestSignalsListRefetchesAfterTTL(t *testing.T) {
	api := readyAPI()
	s := NewSignalsList(api, 20, nil)
	clock := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	ctx := context.Background()
	_, err := s.Load(ctx, SignalsQuery{WindowDays: 30})
	require.NoError(t, err)

	clock = clock.Add(SignalsReuseTTL - time.Second)
	_, err = s.Load(ctx, SignalsQuery{WindowDays: 30, Page: 2})
	require.NoError(t, err)
	assert.Len(t, api.signalCalls, 1)

	api.signals = &models.TopSignalsResponse{GeneratedAt: clock, WindowDays: 30, Signals: sampleSignals()[:1], Total: 1}
	clock = clock.Add(2 * time.Second)
	page, err := s.Load(ctx, SignalsQuery{WindowDays: 30})
	require.NoError(t, err)
	assert.Len(t, api.signalCalls, 2)
	assert.Equal(t, 1, page.Fetched)

	s.Refresh()
	_, err = s.Load(ctx, SignalsQuery{WindowDays: 30})
	require.NoError(t, err)
	assert.Len(t, api.signalCalls, 3)
}

func TestSignalsListEmptyAndError(t *testing.T) {
	api := readyAPI()
	api.signals.Signals = []models.Signal{}
	page, err := NewSignalsList(api, 20, nil).Load(context.Background(), SignalsQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Signals)
	assert.False(t, page.Pagination.ShowRange())

	api.signalsErr = &client.APIError{Kind: client.KindTransport, Message: "Request timed out"}
	page, err = NewSignalsList(api, 20, nil).Load(context.Background(), SignalsQuery{})
	require.Error(t, err)
	assert.Equal(t, StatusError, page.Status)
	assert.Equal(t, "Request timed out", page.Error)
}

func TestSortSignalsNilsLast(t *testing.T) {
	sigs := sampleSignals()
	SortSignals(sigs, table.SortState{Key: "trade_value", Direction: table.Desc})
	assert.Equal(t, "AAPL", sigs[0].Ticker)

	SortSignals(sigs, table.SortState{Key: "insider_name", Direction: table.Asc})
	assert.Equal(t, []string{"NVDA", "AMD"}, tickers(sigs[:2]))

	SortSignals(sigs, table.SortState{Key: "confidence", Direction: table.Asc})
	assert.Equal(t, models.ConfidenceLow, sigs[0].Confidence)
}

func TestTradesListServerPaging(t *testing.T) {
	api := readyAPI()
	api.trades.Total = 45
	tl := NewTradesList(api, 20, nil)

	page, err := tl.Load(context.Background(), TradesQuery{
		Ticker: "NVDA",
		Page:   3,
		Sort:   table.SortState{Key: "value", Direction: table.Desc},
	})
	require.NoError(t, err)

	assert.Equal(t, client.TradeFilter{Ticker: "NVDA", Limit: 20, Offset: 40}, api.tradeCalls[0])
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, 41, page.Pagination.StartItem())
	assert.Equal(t, int64(1), page.Trades[0].ID)
	assert.Equal(t, int64(4), page.Trades[3].ID, "missing value sorts last")
}

func TestTradesListClampsPageToTotal(t *testing.T) {
	api := readyAPI()
	api.trades.Total = 45
	tl := NewTradesList(api, 20, nil)

	page, err := tl.Load(context.Background(), TradesQuery{Page: 50})
	require.NoError(t, err)

	require.Len(t, api.tradeCalls, 2)
	assert.Equal(t, 980, api.tradeCalls[0].Offset)
	assert.Equal(t, 40, api.tradeCalls[1].Offset)
	assert.Equal(t, 3, page.Query.Page)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
	assert.Equal(t, 41, page.Pagination.StartItem())
	assert.Equal(t, 45, page.Pagination.EndItem())

	api.trades = &models.TradeListResponse{Trades: []models.Trade{}, Total: 0}
	page, err = tl.Load(context.Background(), TradesQuery{Page: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Query.Page)
	assert.False(t, page.Pagination.ShowRange())
}

type fakeDetail struct {
	company *models.CompanyResponse
	err     error
	names   []string
}

func (f *fakeDetail) GetCompany(_ context.Context, ticker string) (*models.CompanyResponse, error) {
	f.names = append(f.names, ticker)
	return f.company, f.err
}

func (f *fakeDetail) GetInsider(_ context.Context, name string) (*models.InsiderResponse, error) {
	f.names = append(f.names, name)
	return nil, f.err
}

func TestDetailNotFound(t *testing.T) {
	api := &fakeDetail{err: &client.APIError{Kind: client.KindHTTP, Status: 404, Message: "Company ZZZ not found"}}
	d := NewDetail(api, nil)

	page, err := d.Company(context.Background(), " zzz ")
	require.Error(t, err)
	assert.True(t, page.NotFound)
	assert.Equal(t, "ZZZ", page.Ticker)
	assert.Equal(t, "Company ZZZ not found", page.Error)

	ipage, err := d.Insider(context.Background(), "Jane Roe ")
	require.Error(t, err)
	assert.True(t, ipage.NotFound)
	assert.Equal(t, []string{"ZZZ", "Jane Roe"}, api.names)
}

func tickers(sigs []models.Signal) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.Ticker
	}
	return out
}
