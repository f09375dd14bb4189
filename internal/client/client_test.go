package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"InsideX/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiStub struct {
	hits int32
	srv  *httptest.Server
}

func newStub(t *testing.T, h http.HandlerFunc) (*apiStub, *Client) {
	t.Helper()
	s := &apiStub{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.hits, 1)
		h(w, r)
	}))
	t.Cleanup(s.srv.Close)

	c, err := New(Config{BaseURL: s.srv.URL + "/api/v1", Timeout: time.Second})
	require.NoError(t, err)
	return s, c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func requireKind(t *testing.T, err error, kind Kind) *APIError {
	t.Helper()
	apiErr, ok := AsAPIError(err)
	require.True(t, ok, "expected *APIError, got %v", err)
	require.Equal(t, kind, apiErr.Kind, apiErr.Message)
	return apiErr
}

func TestListTradesSendsFilter(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/trades", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("ticker"))
		assert.Equal(t, "Buy", r.URL.Query().Get("trade_type"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.False(t, r.URL.Query().Has("offset"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, 200, `{"trades":[{"id":1,"ticker":"AAPL","insider_name":"Tim","trade_type":"Buy","value":150000}],
			"total":42,"limit":100,"offset":0,"has_more":false}`)
	})

	res, err := c.ListTrades(context.Background(), TradeFilter{Ticker: "AAPL", TradeType: "Buy", Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 42, res.Total)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, 150000.0, *res.Trades[0].Value)
	assert.Nil(t, res.Trades[0].Price)
}

func TestValidationFailsBeforeNetwork(t *testing.T) {
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{}`)
	})
	ctx := context.Background()

	_, err := c.ListTrades(ctx, TradeFilter{Limit: -1})
	requireKind(t, err, KindValidation)

	_, err = c.ListTrades(ctx, TradeFilter{Offset: -5})
	requireKind(t, err, KindValidation)

	_, err = c.ScoreSignals(ctx, models.ScoreRequest{})
	apiErr := requireKind(t, err, KindValidation)
	assert.Zero(t, apiErr.Status)

	_, err = c.ScoreSignals(ctx, models.ScoreRequest{
		Ticker:  "AAPL",
		Filings: []models.FilingInput{{Ticker: "AAPL"}},
	})
	requireKind(t, err, KindValidation)

	_, err = c.ScoreSignals(ctx, models.FilingsScoreRequest(models.FilingInput{
		Ticker: "AAPL", TradeDate: "2024-03-01", InsiderRole: "CEO", Price: 0, Quantity: 100,
	}))
	apiErr = requireKind(t, err, KindValidation)
	assert.Contains(t, apiErr.Message, "price")

	_, err = c.GetCompany(ctx, "  ")
	requireKind(t, err, KindValidation)

	_, err = c.GetInsider(ctx, "")
	requireKind(t, err, KindValidation)

	_, err = c.GetTopSignals(ctx, TopSignalsParams{Limit: -1})
	requireKind(t, err, KindValidation)

	assert.Zero(t, atomic.LoadInt32(&stub.hits))
}

func TestScoreSignalsPostsTickerShape(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/signals/score", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, jsonDecode(r, &body))
		assert.Equal(t, map[string]interface{}{"ticker": "NVDA", "lookback_days": 60.0}, body)
		writeJSON(w, 200, `{"generated_at":"2024-03-01T12:00:00Z","signals":[
			{"ticker":"NVDA","score":0.72,"confidence":"high","reasons":["Large purchase"]}],
			"metadata":{"scorer":"heuristic"}}`)
	})

	res, err := c.ScoreSignals(context.Background(), models.TickerScoreRequest("NVDA", 60))
	require.NoError(t, err)
	require.Len(t, res.Signals, 1)
	assert.Equal(t, models.ConfidenceHigh, res.Signals[0].Confidence)
	assert.Equal(t, "heuristic", res.Metadata["scorer"])
}

func TestNotFoundCarriesServerDetail(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, `{"detail":"Company ZZZ not found"}`)
	})

	_, err := c.GetCompany(context.Background(), "ZZZ")
	apiErr := requireKind(t, err, KindHTTP)
	assert.True(t, apiErr.IsNotFound())
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Company ZZZ not found", apiErr.Message)
	assert.JSONEq(t, `{"detail":"Company ZZZ not found"}`, string(apiErr.Payload))
}

func TestDetailShapes(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"detail":[{"loc":["query","limit"],"msg":"limit too large"},{"msg":"bad date"}]}`, "limit too large; bad date"},
		{`{"detail":"Signal generation failed","errors":[{"field":"window_days"}]}`, "Signal generation failed"},
		{`{"status":500,"message":"Internal Server Error","data":[{"message":"db down"}]}`, "db down"},
		{`<html>oops</html>`, "Request failed with status 502 (Bad Gateway)"},
	}
	for _, tc := range cases {
		tc := tc
		_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 502, tc.body)
		})
		_, err := c.GetTradeStats(context.Background())
		apiErr := requireKind(t, err, KindHTTP)
		assert.Equal(t, tc.want, apiErr.Message)
	}
}

func TestGetInsiderEscapesName(t *testing.T) {
	name := "Smith John A/B Jr."
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/insiders/"+url.PathEscape(name), r.URL.EscapedPath())
		assert.Equal(t, "/api/v1/insiders/"+name, r.URL.Path)
		writeJSON(w, 200, `{"insider":{"insider_name":"Smith John A/B Jr.","total_trades":3,
			"total_bought":2,"total_sold":1,"total_companies":1,"recent_activity_30d":0}}`)
	})

	res, err := c.GetInsider(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, name, res.Insider.InsiderName)
}

func TestTopSignalsDefaults(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("window_days"))
		assert.False(t, r.URL.Query().Has("limit"))
		writeJSON(w, 200, `{"generated_at":"2024-03-01T12:00:00Z","window_days":30,"total":2,"signals":[
			{"ticker":"B","score":0.9,"confidence":"high","reasons":[]},
			{"ticker":"A","score":0.4,"confidence":"low","reasons":["x"]}]}`)
	})

	res, err := c.GetTopSignals(context.Background(), TopSignalsParams{})
	require.NoError(t, err)
	require.Len(t, res.Signals, 2)
	assert.Equal(t, "B", res.Signals[0].Ticker, "backend order preserved")
}

func TestDecodeFailures(t *testing.T) {
	bodies := map[string]string{
		"malformed":     `{"trades": [`,
		"missing list":  `{"total": 1, "limit": 10, "offset": 0}`,
		"duplicate ids": `{"trades":[{"id":7,"insider_name":"a","trade_type":"Buy"},{"id":7,"insider_name":"b","trade_type":"Sell"}],"total":2,"limit":10,"offset":0}`,
		"negative total": `{"trades":[],"total":-1,"limit":10,"offset":0}`,
	}
	for name, body := range bodies {
		body := body
		t.Run(name, func(t *testing.T) {
			_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 200, body)
			})
			_, err := c.ListTrades(context.Background(), TradeFilter{})
			apiErr := requireKind(t, err, KindDecode)
			assert.Equal(t, body, string(apiErr.Payload))
		})
	}

	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"generated_at":"2024-03-01T12:00:00Z","window_days":30,"total":1,
			"signals":[{"ticker":"X","score":82,"confidence":"high"}]}`)
	})
	_, err := c.GetTopSignals(context.Background(), TopSignalsParams{})
	requireKind(t, err, KindDecode)
}

func TestTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base + "/api/v1", Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.GetTradeStats(context.Background())
	apiErr := requireKind(t, err, KindTransport)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, 200, `{}`)
	}))
	defer slow.Close()
	c, err = New(Config{BaseURL: slow.URL, Timeout: 30 * time.Millisecond})
	require.NoError(t, err)
	_, err = c.GetTradeStats(context.Background())
	apiErr = requireKind(t, err, KindTransport)
	assert.Equal(t, "Request timed out", apiErr.Message)
}

type recordingObserver struct {
	mu      sync.Mutex
	started []RequestInfo
	failed  []*APIError
	ok      int
}

func (o *recordingObserver) RequestStarted(_ context.Context, info RequestInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, info)
}

func (o *recordingObserver) RequestSucceeded(context.Context, RequestInfo, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ok++
}

func (o *recordingObserver) RequestFailed(_ context.Context, _ RequestInfo, err *APIError, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, err)
}

func TestObserverAndHealthCheck(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			gotID = r.Header.Get("X-Request-ID")
			writeJSON(w, 200, `{"status":"healthy"}`)
		default:
			writeJSON(w, 500, `{"detail":"boom"}`)
		}
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c, err := New(Config{BaseURL: srv.URL + "/api/v1"}, WithObserver(obs))
	require.NoError(t, err)

	ok, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.GetTradeStats(context.Background())
	require.Error(t, err)

	require.Len(t, obs.started, 2)
	assert.Equal(t, gotID, obs.started[0].RequestID)
	assert.Equal(t, "health", obs.started[0].Op)
	assert.Equal(t, 1, obs.ok)
	require.Len(t, obs.failed, 1)
	assert.Equal(t, "boom", obs.failed[0].Message)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost:8000"})
	assert.Error(t, err)

	c, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestObserverSeesValidationFailures(t *testing.T) {
	stub, _ := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{}`)
	})
	obs := &recordingObserver{}
	c, err := New(Config{BaseURL: stub.srv.URL + "/api/v1"}, WithObserver(obs))
	require.NoError(t, err)

	_, err = c.GetInsider(context.Background(), " ")
	requireKind(t, err, KindValidation)
	_, err = c.ScoreSignals(context.Background(), models.ScoreRequest{})
	requireKind(t, err, KindValidation)

	assert.Empty(t, obs.started, "nothing was sent")
	require.Len(t, obs.failed, 2)
	assert.Equal(t, "get_insider", obs.failed[0].Op)
	assert.Equal(t, KindValidation, obs.failed[1].Kind)
	assert.Zero(t, atomic.LoadInt32(&stub.hits))
}
