package render

import (
	"InsideX/internal/ui/table"
	"InsideX/pkg/format"
)

// SignalColumns lists the signal table columns. Sortable keys match
// controller.SortSignals.
func SignalColumns() []table.Column {
	return []table.Column{
		{Key: "ticker", Label: "Ticker", Sortable: true},
		{Key: "insider_name", Label: "Insider", Sortable: true},
		{Key: "score", Label: "Score", Sortable: true, Format: format.Score},
		{Key: "confidence", Label: "Confidence", Sortable: true},
		{Key: "trade_value", Label: "Value", Sortable: true, Format: format.Currency},
		{Key: "expected_return", Label: "Expected return", Sortable: true, Format: format.Percent},
		{Key: "trade_date", Label: "Traded", Sortable: true, Format: format.Date},
	}
}

// TradeColumns lists the trade table columns. Sortable keys match
// controller.SortTrades.
func TradeColumns() []table.Column {
	return []table.Column{
		{Key: "trade_date", Label: "Traded", Sortable: true, Format: format.Date},
		{Key: "ticker", Label: "Ticker", Sortable: true},
		{Key: "insider_name", Label: "Insider", Sortable: true},
		{Key: "title", Label: "Title"},
		{Key: "trade_type", Label: "Type", Sortable: true},
		{Key: "price", Label: "Price", Sortable: true, Format: format.Number},
		{Key: "qty", Label: "Shares", Sortable: true, Format: format.Shares},
		{Key: "value", Label: "Value", Sortable: true, Format: format.Currency},
		{Key: "performance_1m", Label: "1M", Sortable: true, Format: format.Percent},
	}
}

func HistoryColumns() []table.Column {
	return []table.Column{
		{Key: "period", Label: "Month"},
		{Key: "trade_count", Label: "Trades", Format: format.Number},
		{Key: "avg_performance_1m", Label: "Avg 1M", Format: format.Percent},
		{Key: "avg_performance_6m", Label: "Avg 6M", Format: format.Percent},
	}
}
