package models

import "strings"

// Trade is one insider transaction as stored by the scraper.
type Trade struct {
	ID            int64    `json:"id" validate:"required"`
	TradeFlag     *string  `json:"trade_flag,omitempty"`
	FilingDate    *string  `json:"filing_date,omitempty"`
	TradeDate     *string  `json:"trade_date,omitempty"`
	Ticker        *string  `json:"ticker,omitempty"`
	CompanyName   *string  `json:"company_name,omitempty"`
	InsiderName   string   `json:"insider_name"`
	Title         *string  `json:"title,omitempty"`
	TradeType     string   `json:"trade_type"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Qty           *int64   `json:"qty,omitempty"`
	Owned         *int64   `json:"owned,omitempty"`
	DeltaOwn      *float64 `json:"delta_own,omitempty"`
	Value         *float64 `json:"value,omitempty"`
	Performance1D *float64 `json:"performance_1d,omitempty"`
	Performance1W *float64 `json:"performance_1w,omitempty"`
	Performance1M *float64 `json:"performance_1m,omitempty"`
	Performance6M *float64 `json:"performance_6m,omitempty"`
	ScrapedAt     *string  `json:"scraped_at,omitempty"`
}

// IsBuy reports whether the trade is a purchase ("Buy" or "P - Purchase").
func (t Trade) IsBuy() bool {
	tt := strings.ToLower(strings.TrimSpace(t.TradeType))
	return tt == "buy" || tt == "purchase" || strings.HasPrefix(tt, "p - ")
}

// IsSell reports whether the trade is a sale ("Sell" or "S - Sale").
func (t Trade) IsSell() bool {
	tt := strings.ToLower(strings.TrimSpace(t.TradeType))
	return tt == "sell" || tt == "sale" || strings.HasPrefix(tt, "s - ")
}

// TickerOr returns the ticker or def when absent.
func (t Trade) TickerOr(def string) string {
	if t.Ticker == nil || *t.Ticker == "" {
		return def
	}
	return *t.Ticker
}

// TradeListResponse is one page of trades. Total counts every matching row.
type TradeListResponse struct {
	Trades  []Trade `json:"trades" validate:"required,dive"`
	Total   int64   `json:"total" validate:"gte=0"`
	Limit   int     `json:"limit" validate:"gte=0"`
	Offset  int     `json:"offset" validate:"gte=0"`
	HasMore bool    `json:"has_more"`
}

type DateRange struct {
	MinDate *string `json:"min_date"`
	MaxDate *string `json:"max_date"`
}

// TradeStats summarizes the whole trade table.
type TradeStats struct {
	TotalRecords    int64     `json:"total_records" validate:"gte=0"`
	DateRange       DateRange `json:"date_range"`
	UniqueCompanies int64     `json:"unique_companies" validate:"gte=0"`
	UniqueInsiders  int64     `json:"unique_insiders" validate:"gte=0"`
}

// TradeQuery is the bound query of GET /trades.
type TradeQuery struct {
	Ticker      string  `query:"ticker" json:"ticker"`
	InsiderName string  `query:"insider_name" json:"insider_name"`
	TradeType   string  `query:"trade_type" json:"trade_type" validate:"omitempty,oneof=Buy Sell buy sell"`
	TradeFlag   string  `query:"trade_flag" json:"trade_flag"`
	DateFrom    string  `query:"date_from" json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo      string  `query:"date_to" json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	MinValueUSD float64 `query:"min_value_usd" json:"min_value_usd" validate:"gte=0"`
	Limit       int     `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
	Offset      int     `query:"offset" json:"offset" validate:"gte=0"`
}

// TradeByIDRequest binds GET /trades/:id.
type TradeByIDRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

type HealthResponse struct {
	Status string `json:"status" validate:"required"`
}

// NormalizeTradeType maps scraper codes such as "P - Purchase" and "S - Sale"
// onto Buy and Sell. Other values are returned trimmed.
func NormalizeTradeType(s string) string {
	t := Trade{TradeType: s}
	switch {
	case t.IsBuy():
		return TradeTypeBuy
	case t.IsSell():
		return TradeTypeSell
	}
	return strings.TrimSpace(s)
}

const (
	TradeTypeBuy  = "Buy"
	TradeTypeSell = "Sell"
)
