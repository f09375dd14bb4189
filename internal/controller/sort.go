package controller

import (
	"cmp"
	"slices"
	"strings"

	"InsideX/internal/domain/models"
	"InsideX/internal/ui/table"
)

// Absent values sort last in either direction.
func compareOpt[T cmp.Ordered](a, b *T, dir table.Direction) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return directed(cmp.Compare(*a, *b), dir)
}

func directed(c int, dir table.Direction) int {
	if dir == table.Desc {
		return -c
	}
	return c
}

func lower(s *string) *string {
	if s == nil {
		return nil
	}
	l := strings.ToLower(*s)
	return &l
}

// SortSignals orders signals in place by a table sort state. Unknown keys
// leave the backend ranking untouched.
func SortSignals(signals []models.Signal, st table.SortState) {
	var by func(a, b models.Signal) int
	switch st.Key {
	case "ticker":
		by = func(a, b models.Signal) int { return directed(cmp.Compare(a.Ticker, b.Ticker), st.Direction) }
	case "score":
		by = func(a, b models.Signal) int { return directed(cmp.Compare(a.Score, b.Score), st.Direction) }
	case "confidence":
		by = func(a, b models.Signal) int {
			return directed(cmp.Compare(a.Confidence.Rank(), b.Confidence.Rank()), st.Direction)
		}
	case "trade_date":
		by = func(a, b models.Signal) int { return compareOpt(a.TradeDate, b.TradeDate, st.Direction) }
	case "insider_name":
		by = func(a, b models.Signal) int { return compareOpt(lower(a.InsiderName), lower(b.InsiderName), st.Direction) }
	case "trade_value":
		by = func(a, b models.Signal) int { return compareOpt(a.TradeValue, b.TradeValue, st.Direction) }
	case "expected_return":
		by = func(a, b models.Signal) int { return compareOpt(a.ExpectedReturn, b.ExpectedReturn, st.Direction) }
	default:
		return
	}
	slices.SortStableFunc(signals, by)
}

// SortTrades orders trades in place by a table sort state.
func SortTrades(trades []models.Trade, st table.SortState) {
	var by func(a, b models.Trade) int
	switch st.Key {
	case "id":
		by = func(a, b models.Trade) int { return directed(cmp.Compare(a.ID, b.ID), st.Direction) }
	case "ticker":
		by = func(a, b models.Trade) int { return compareOpt(a.Ticker, b.Ticker, st.Direction) }
	case "insider_name":
		by = func(a, b models.Trade) int {
			return directed(cmp.Compare(strings.ToLower(a.InsiderName), strings.ToLower(b.InsiderName)), st.Direction)
		}
	case "trade_type":
		by = func(a, b models.Trade) int { return directed(cmp.Compare(a.TradeType, b.TradeType), st.Direction) }
	case "trade_date":
		by = func(a, b models.Trade) int { return compareOpt(a.TradeDate, b.TradeDate, st.Direction) }
	case "filing_date":
		by = func(a, b models.Trade) int { return compareOpt(a.FilingDate, b.FilingDate, st.Direction) }
	case "price":
		by = func(a, b models.Trade) int { return compareOpt(a.Price, b.Price, st.Direction) }
	case "qty":
		by = func(a, b models.Trade) int { return compareOpt(a.Qty, b.Qty, st.Direction) }
	case "value":
		by = func(a, b models.Trade) int { return compareOpt(a.Value, b.Value, st.Direction) }
	case "performance_1m":
		by = func(a, b models.Trade) int { return compareOpt(a.Performance1M, b.Performance1M, st.Direction) }
	case "performance_6m":
		by = func(a, b models.Trade) int { return compareOpt(a.Performance6M, b.Performance6M, st.Direction) }
	default:
		return
	}
	slices.SortStableFunc(trades, by)
}
