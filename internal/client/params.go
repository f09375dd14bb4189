package client

import (
	"fmt"
	"net/url"
	"strconv"

	"InsideX/internal/domain/models"
)

// DefaultWindowDays is the signal window used when none is given.
const DefaultWindowDays = 30

// TradeFilter selects trades for ListTrades. Zero values are omitted from
// the query and the backend defaults apply.
type TradeFilter struct {
	Ticker      string
	InsiderName string
	TradeType   string
	TradeFlag   string
	DateFrom    string
	DateTo      string
	MinValueUSD float64
	Limit       int
	Offset      int
}

func (f TradeFilter) query() (url.Values, error) {
	if f.Limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", f.Limit)
	}
	if f.Offset < 0 {
		return nil, fmt.Errorf("offset must be non-negative, got %d", f.Offset)
	}
	if f.MinValueUSD < 0 {
		return nil, fmt.Errorf("min_value_usd must be non-negative")
	}

	q := url.Values{}
	setString(q, "ticker", f.Ticker)
	setString(q, "insider_name", f.InsiderName)
	setString(q, "trade_type", f.TradeType)
	setString(q, "trade_flag", f.TradeFlag)
	setString(q, "date_from", f.DateFrom)
	setString(q, "date_to", f.DateTo)
	if f.MinValueUSD > 0 {
		q.Set("min_value_usd", strconv.FormatFloat(f.MinValueUSD, 'f', -1, 64))
	}
	setInt(q, "limit", f.Limit)
	setInt(q, "offset", f.Offset)
	return q, nil
}

// TopSignalsParams selects top signals. WindowDays defaults to 30; a zero
// Limit leaves the backend default in place.
type TopSignalsParams struct {
	WindowDays int
	Limit      int
}

func (p TopSignalsParams) query() (url.Values, error) {
	if p.WindowDays < 0 {
		return nil, fmt.Errorf("window_days must be positive, got %d", p.WindowDays)
	}
	if p.Limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", p.Limit)
	}
	window := p.WindowDays
	if window == 0 {
		window = DefaultWindowDays
	}
	q := url.Values{}
	q.Set("window_days", strconv.Itoa(window))
	setInt(q, "limit", p.Limit)
	return q, nil
}

// InsiderListParams selects insiders for ListInsiders.
type InsiderListParams struct {
	Limit  int
	SortBy models.InsiderSort
}

func (p InsiderListParams) query() (url.Values, error) {
	if p.Limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", p.Limit)
	}
	switch p.SortBy {
	case "", models.InsiderSortActivity, models.InsiderSortPerformance, models.InsiderSortRecent:
	default:
		return nil, fmt.Errorf("sort_by must be one of activity, performance, recent; got %q", p.SortBy)
	}
	q := url.Values{}
	setInt(q, "limit", p.Limit)
	setString(q, "sort_by", string(p.SortBy))
	return q, nil
}

func limitQuery(limit int) (url.Values, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", limit)
	}
	q := url.Values{}
	setInt(q, "limit", limit)
	return q, nil
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}
