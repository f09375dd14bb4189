package repository

import (
	"database/sql"

	"InsideX/internal/domain/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(s rowScanner) (models.Trade, error) {
	var t models.Trade
	var flag, filing, tradeDate, ticker, company, title, scraped sql.NullString
	var price, deltaOwn, value, p1d, p1w, p1m, p6m sql.NullFloat64
	var qty, owned sql.NullInt64
	err := s.Scan(&t.ID, &flag, &filing, &tradeDate, &ticker, &company,
		&t.InsiderName, &title, &t.TradeType, &price, &qty, &owned,
		&deltaOwn, &value, &p1d, &p1w, &p1m, &p6m, &scraped)
	if err != nil {
		return models.Trade{}, err
	}
	t.TradeFlag = nullString(flag)
	t.FilingDate = nullString(filing)
	t.TradeDate = nullString(tradeDate)
	t.Ticker = nullString(ticker)
	t.CompanyName = nullString(company)
	t.Title = nullString(title)
	t.ScrapedAt = nullString(scraped)
	t.Price = nullFloat(price)
	t.Qty = nullInt(qty)
	t.Owned = nullInt(owned)
	t.DeltaOwn = nullFloat(deltaOwn)
	t.Value = nullFloat(value)
	t.Performance1D = nullFloat(p1d)
	t.Performance1W = nullFloat(p1w)
	t.Performance1M = nullFloat(p1m)
	t.Performance6M = nullFloat(p6m)
	return t, nil
}

func scanTrades(rows *sql.Rows) ([]models.Trade, error) {
	defer rows.Close()
	trades := []models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

// deref unwraps the optional trade fields for hashing; nil prints as "".
func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p != nil {
			return *p
		}
	case *float64:
		if p != nil {
			return *p
		}
	case *int64:
		if p != nil {
			return *p
		}
	default:
		return v
	}
	return ""
}
