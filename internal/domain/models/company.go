package models

// CompanySummary aggregates insider activity for one ticker.
type CompanySummary struct {
	Ticker            string   `json:"ticker" validate:"required"`
	CompanyName       *string  `json:"company_name,omitempty"`
	TotalTrades       int64    `json:"total_trades" validate:"gte=0"`
	TotalBought       int64    `json:"total_bought"`
	TotalSold         int64    `json:"total_sold"`
	AvgBuyPrice       *float64 `json:"avg_buy_price,omitempty"`
	AvgSellPrice      *float64 `json:"avg_sell_price,omitempty"`
	NetShares         int64    `json:"net_shares"`
	BuySellRatio      *float64 `json:"buy_sell_ratio,omitempty"`
	RecentActivity30D int64    `json:"recent_activity_30d"`
	RecentActivity90D int64    `json:"recent_activity_90d"`
}

type CompanyResponse struct {
	Company      CompanySummary `json:"company"`
	RecentTrades []Trade        `json:"recent_trades,omitempty" validate:"omitempty,dive"`
}

type CompanyListItem struct {
	Ticker        string  `json:"ticker" validate:"required"`
	CompanyName   *string `json:"company_name,omitempty"`
	TotalTrades   int64   `json:"total_trades"`
	LastTradeDate *string `json:"last_trade_date,omitempty"`
}

type CompanyListResponse struct {
	Companies []CompanyListItem `json:"companies" validate:"required,dive"`
	Total     int64             `json:"total" validate:"gte=0"`
}

type CompanyRequest struct {
	Ticker string `param:"ticker" validate:"required"`
}

type CompanyListQuery struct {
	Limit int `query:"limit" default:"50" validate:"gte=1,lte=1000"`
}
