package models

// InsiderSort orders insider listings.
type InsiderSort string

const (
	InsiderSortActivity    InsiderSort = "activity"
	InsiderSortPerformance InsiderSort = "performance"
	InsiderSortRecent      InsiderSort = "recent"
)

// InsiderSummary aggregates the trading record of one insider.
type InsiderSummary struct {
	InsiderName       string   `json:"insider_name" validate:"required"`
	TotalTrades       int64    `json:"total_trades" validate:"gte=0"`
	TotalBought       int64    `json:"total_bought"`
	TotalSold         int64    `json:"total_sold"`
	TotalCompanies    int64    `json:"total_companies"`
	AvgTradeValue     *float64 `json:"avg_trade_value,omitempty"`
	SuccessRate1M     *float64 `json:"success_rate_1m,omitempty" validate:"omitempty,gte=0,lte=1"`
	SuccessRate6M     *float64 `json:"success_rate_6m,omitempty" validate:"omitempty,gte=0,lte=1"`
	RecentActivity30D int64    `json:"recent_activity_30d"`
}

// PerformancePoint is the average forward performance of one month of trades.
type PerformancePoint struct {
	Period           string   `json:"period" validate:"required"`
	AvgPerformance1M *float64 `json:"avg_performance_1m,omitempty"`
	AvgPerformance6M *float64 `json:"avg_performance_6m,omitempty"`
	TradeCount       int64    `json:"trade_count"`
}

type InsiderResponse struct {
	Insider            InsiderSummary     `json:"insider"`
	RecentTrades       []Trade            `json:"recent_trades,omitempty" validate:"omitempty,dive"`
	PerformanceHistory []PerformancePoint `json:"performance_history,omitempty" validate:"omitempty,dive"`
}

type InsiderListItem struct {
	InsiderName      string   `json:"insider_name" validate:"required"`
	Title            *string  `json:"title,omitempty"`
	TotalTrades      int64    `json:"total_trades"`
	TotalCompanies   int64    `json:"total_companies"`
	TotalValue       *float64 `json:"total_value,omitempty"`
	AvgPerformance1M *float64 `json:"avg_performance_1m,omitempty"`
	LastTradeDate    *string  `json:"last_trade_date,omitempty"`
}

type InsiderListResponse struct {
	Insiders []InsiderListItem `json:"insiders" validate:"required,dive"`
	Total    int64             `json:"total" validate:"gte=0"`
	SortedBy InsiderSort       `json:"sorted_by,omitempty"`
}

type InsiderRequest struct {
	Name string `param:"name" validate:"required"`
}

type InsiderListQuery struct {
	Limit  int    `query:"limit" default:"50" validate:"gte=1,lte=1000"`
	SortBy string `query:"sort_by" default:"activity" validate:"oneof=activity performance recent"`
}

type TopInsidersQuery struct {
	Limit int `query:"limit" default:"10" validate:"gte=1,lte=100"`
}
