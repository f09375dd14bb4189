// Package client is the typed InsideX REST client. Every operation issues
// exactly one request, decodes and validates the response, and reports any
// failure as *APIError.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"InsideX/internal/domain/models"
	xhttp "InsideX/pkg/http"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/v1"
	DefaultTimeout = 30 * time.Second
)

// Config is injected by the caller; the client reads no globals.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimitRPS throttles outgoing requests when positive.
	RateLimitRPS float64
	RateBurst    int
}

// Option configures a Client.
type Option func(*Client)

// WithObserver adds a request observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.obs = append(c.obs, o)
		}
	}
}

// WithHTTPOptions passes options to the underlying HTTP client.
func WithHTTPOptions(opts ...xhttp.ClientOption) Option {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, opts...)
	}
}

// Client calls the InsideX REST API.
type Client struct {
	base     string
	origin   string
	http     *xhttp.Client
	httpOpts []xhttp.ClientOption
	obs      observers
}

// New builds a client for cfg.BaseURL, e.g. "http://localhost:8000/api/v1".
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	c := &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		origin: u.Scheme + "://" + u.Host,
	}
	for _, opt := range opts {
		opt(c)
	}

	httpOpts := []xhttp.ClientOption{
		xhttp.WithTimeout(cfg.Timeout),
		xhttp.WithRateLimit(cfg.RateLimitRPS, cfg.RateBurst),
	}
	c.http = xhttp.NewClient(append(httpOpts, c.httpOpts...)...)
	return c, nil
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.base }

// ListTrades returns one page of trades matching filter.
func (c *Client) ListTrades(ctx context.Context, filter TradeFilter) (*models.TradeListResponse, error) {
	const op = "list_trades"
	q, err := filter.query()
	if err != nil {
		return nil, c.reject(ctx, op, err.Error(), err)
	}
	var out models.TradeListResponse
	if err := c.get(ctx, op, "/trades", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTradeStats returns table-wide statistics.
func (c *Client) GetTradeStats(ctx context.Context) (*models.TradeStats, error) {
	var out models.TradeStats
	if err := c.get(ctx, "trade_stats", "/trades/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTrade returns a single trade by id.
func (c *Client) GetTrade(ctx context.Context, id int64) (*models.Trade, error) {
	const op = "get_trade"
	if id <= 0 {
		return nil, c.reject(ctx, op, "trade id must be positive", nil)
	}
	var out models.Trade
	if err := c.get(ctx, op, fmt.Sprintf("/trades/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCompany returns the summary and recent trades for ticker. A 404 is
// reported through APIError.IsNotFound.
func (c *Client) GetCompany(ctx context.Context, ticker string) (*models.CompanyResponse, error) {
	const op = "get_company"
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, c.reject(ctx, op, "ticker is required", nil)
	}
	var out models.CompanyResponse
	if err := c.get(ctx, op, "/companies/"+url.PathEscape(ticker), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCompanies returns companies ordered by activity.
func (c *Client) ListCompanies(ctx context.Context, limit int) (*models.CompanyListResponse, error) {
	const op = "list_companies"
	q, err := limitQuery(limit)
	if err != nil {
		return nil, c.reject(ctx, op, err.Error(), err)
	}
	var out models.CompanyListResponse
	if err := c.get(ctx, op, "/companies", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInsider returns the profile of one insider. The name is percent-encoded
// as a single path segment.
func (c *Client) GetInsider(ctx context.Context, name string) (*models.InsiderResponse, error) {
	const op = "get_insider"
	if strings.TrimSpace(name) == "" {
		return nil, c.reject(ctx, op, "insider name is required", nil)
	}
	var out models.InsiderResponse
	if err := c.get(ctx, op, "/insiders/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInsiders returns insiders in the requested order.
func (c *Client) ListInsiders(ctx context.Context, p InsiderListParams) (*models.InsiderListResponse, error) {
	const op = "list_insiders"
	q, err := p.query()
	if err != nil {
		return nil, c.reject(ctx, op, err.Error(), err)
	}
	var out models.InsiderListResponse
	if err := c.get(ctx, op, "/insiders", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TopInsiders returns the best performing insiders.
func (c *Client) TopInsiders(ctx context.Context, limit int) (*models.InsiderListResponse, error) {
	const op = "top_insiders"
	q, err := limitQuery(limit)
	if err != nil {
		return nil, c.reject(ctx, op, err.Error(), err)
	}
	var out models.InsiderListResponse
	if err := c.get(ctx, op, "/insiders/top", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTopSignals returns ranked signals; backend order is preserved.
func (c *Client) GetTopSignals(ctx context.Context, p TopSignalsParams) (*models.TopSignalsResponse, error) {
	const op = "top_signals"
	q, err := p.query()
	if err != nil {
		return nil, c.reject(ctx, op, err.Error(), err)
	}
	var out models.TopSignalsResponse
	if err := c.get(ctx, op, "/signals/top", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoreSignals scores a ticker or a set of filings. Malformed requests fail
// with KindValidation before any network call.
func (c *Client) ScoreSignals(ctx context.Context, req models.ScoreRequest) (*models.ScoreResponse, error) {
	const op = "score_signals"
	if err := req.Shape(); err != nil {
		return nil, c.reject(ctx, op, err.Error(), err)
	}
	if errs := xhttp.ValidateStruct(ctx, req); errs != nil {
		return nil, c.reject(ctx, op, "invalid score request: "+xhttp.Summary(errs), nil)
	}
	var out models.ScoreResponse
	if err := c.do(ctx, op, xhttp.MethodPost, c.base+"/signals/score", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModelInfo returns the scorer description as an opaque object.
func (c *Client) GetModelInfo(ctx context.Context) (models.ModelInfo, error) {
	var out models.ModelInfo
	if err := c.get(ctx, "model_info", "/signals/model-info", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HealthCheck probes /healthz at the API origin.
func (c *Client) HealthCheck(ctx context.Context) (bool, error) {
	var out models.HealthResponse
	if err := c.do(ctx, "health", xhttp.MethodGet, c.origin+"/healthz", nil, nil, &out); err != nil {
		return false, err
	}
	return out.Status == "healthy" || out.Status == "ok", nil
}

// reject reports a request refused before any network call to the
// observers, then returns it as a KindValidation error.
func (c *Client) reject(ctx context.Context, op, msg string, err error) *APIError {
	apiErr := validationError(op, msg, err)
	c.obs.failed(ctx, RequestInfo{Op: op, RequestID: uuid.NewString()}, apiErr, 0)
	return apiErr
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, dest interface{}) error {
	return c.do(ctx, op, xhttp.MethodGet, c.base+path, q, nil, dest)
}

func (c *Client) do(ctx context.Context, op, method, u string, q url.Values, body, dest interface{}) error {
	info := RequestInfo{Op: op, Method: method, URL: u, RequestID: uuid.NewString()}
	if len(q) > 0 {
		info.URL += "?" + q.Encode()
	}

	c.obs.started(ctx, info)
	start := time.Now()

	var raw []byte
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      method,
		URL:         u,
		Headers:     map[string]string{"X-Request-ID": info.RequestID},
		QueryParams: q,
		Body:        body,
	}, &raw)

	var apiErr *APIError
	switch {
	case err != nil:
		apiErr = normalize(op, err)
	default:
		if derr := c.decode(ctx, raw, dest); derr != nil {
			apiErr = decodeError(op, raw, derr)
		}
	}

	elapsed := time.Since(start)
	if apiErr != nil {
		c.obs.failed(ctx, info, apiErr, elapsed)
		return apiErr
	}
	c.obs.succeeded(ctx, info, elapsed)
	return nil
}

// decode unmarshals raw into dest and checks it against the response schema.
func (c *Client) decode(ctx context.Context, raw []byte, dest interface{}) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}

	rv := reflect.ValueOf(dest).Elem()
	switch rv.Kind() {
	case reflect.Struct:
		if errs := xhttp.ValidateStruct(ctx, dest); errs != nil {
			return errors.New(xhttp.Summary(errs))
		}
	case reflect.Map:
		if rv.IsNil() {
			return errors.New("expected a JSON object")
		}
	}

	switch v := dest.(type) {
	case *models.TradeListResponse:
		return uniqueTradeIDs(v.Trades)
	case *models.CompanyResponse:
		return uniqueTradeIDs(v.RecentTrades)
	case *models.InsiderResponse:
		return uniqueTradeIDs(v.RecentTrades)
	}
	return nil
}

func uniqueTradeIDs(trades []models.Trade) error {
	seen := make(map[int64]struct{}, len(trades))
	for _, t := range trades {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate trade id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
