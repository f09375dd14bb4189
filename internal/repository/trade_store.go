package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"InsideX/internal/domain/models"
	"InsideX/internal/domain/repository"
	"InsideX/pkg/util"
)

var selectColumns = "id, " + strings.Join(tradeColumns, ", ")

// SQLStore implements TradeStore over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore creates a trade store. The *sql.DB is owned by its pkg client.
func NewSQLStore(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d, now: time.Now}
}

var _ repository.TradeStore = (*SQLStore)(nil)

func (s *SQLStore) Dialect() Dialect { return s.dialect }

func (s *SQLStore) Init(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init %s schema: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *SQLStore) Insert(ctx context.Context, trades []models.Trade) (int64, error) {
	if len(trades) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.dialect.insertSQL())
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	scraped := s.now().UTC().Format("2006-01-02 15:04:05")
	var inserted int64
	for _, t := range trades {
		if t.InsiderName == "" || t.TradeType == "" {
			continue
		}
		t.TradeType = models.NormalizeTradeType(t.TradeType)
		if t.Ticker != nil {
			tk := util.NormalizeTicker(*t.Ticker)
			t.Ticker = &tk
		}
		if t.ScrapedAt == nil {
			t.ScrapedAt = &scraped
		}

		args := []any{
			t.TradeFlag, t.FilingDate, t.TradeDate, t.Ticker, t.CompanyName,
			t.InsiderName, t.Title, t.TradeType, t.Price, t.Qty, t.Owned,
			t.DeltaOwn, t.Value, t.Performance1D, t.Performance1W,
			t.Performance1M, t.Performance6M, t.ScrapedAt,
		}
		if s.dialect.explicitID {
			args = append([]any{naturalID(t)}, args...)
		}
		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert trade: %w", err)
		}
		if s.dialect.explicitID {
			inserted++
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return inserted, nil
}

// tradeWhere builds the shared filter of Query. Arguments follow clause order.
func tradeWhere(q models.TradeQuery) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}
	if q.Ticker != "" {
		add("ticker = ?", util.NormalizeTicker(q.Ticker))
	}
	if q.InsiderName != "" {
		add("lower(insider_name) LIKE ?", "%"+strings.ToLower(q.InsiderName)+"%")
	}
	if q.TradeType != "" {
		add("trade_type = ?", models.NormalizeTradeType(q.TradeType))
	}
	if q.TradeFlag != "" {
		add("trade_flag = ?", q.TradeFlag)
	}
	if q.DateFrom != "" {
		add("trade_date >= ?", q.DateFrom)
	}
	if q.DateTo != "" {
		add("trade_date <= ?", q.DateTo)
	}
	if q.MinValueUSD > 0 {
		add("value >= ?", q.MinValueUSD)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Query returns one page of matching trades, newest first, and the count of
// every matching row.
func (s *SQLStore) Query(ctx context.Context, q models.TradeQuery) ([]models.Trade, int64, error) {
	where, args := tradeWhere(q)

	var total int64
	countSQL := "SELECT COUNT(*) FROM " + s.dialect.from + where
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count trades: %w", err)
	}

	pageSQL := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY trade_date DESC, id DESC LIMIT ? OFFSET ?",
		selectColumns, s.dialect.from, where)
	rows, err := s.db.QueryContext(ctx, pageSQL, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query trades: %w", err)
	}
	trades, err := scanTrades(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan trades: %w", err)
	}
	return trades, total, nil
}

func (s *SQLStore) GetByID(ctx context.Context, id int64) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", selectColumns, s.dialect.from), id)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trade %d: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trade %d: %w", id, err)
	}
	return &t, nil
}

func (s *SQLStore) Stats(ctx context.Context) (*models.TradeStats, error) {
	var st models.TradeStats
	var minDate, maxDate sql.NullString
	q := "SELECT COUNT(*), MIN(filing_date), MAX(filing_date), COUNT(DISTINCT ticker), COUNT(DISTINCT insider_name) FROM " + s.dialect.from
	err := s.db.QueryRowContext(ctx, q).Scan(&st.TotalRecords, &minDate, &maxDate, &st.UniqueCompanies, &st.UniqueInsiders)
	if err != nil {
		return nil, fmt.Errorf("trade stats: %w", err)
	}
	st.DateRange = models.DateRange{MinDate: nullString(minDate), MaxDate: nullString(maxDate)}
	return &st, nil
}

func (s *SQLStore) CompanySummary(ctx context.Context, ticker string, now time.Time) (*models.CompanySummary, error) {
	ticker = util.NormalizeTicker(ticker)
	since30 := util.DaysBefore(now, 30)
	since90 := util.DaysBefore(now, 90)

	q := `SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN trade_type = 'Buy' THEN abs(qty) ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN trade_type = 'Sell' THEN abs(qty) ELSE 0 END), 0),
		AVG(CASE WHEN trade_type = 'Buy' THEN price END),
		AVG(CASE WHEN trade_type = 'Sell' THEN price END),
		MAX(company_name),
		COALESCE(SUM(CASE WHEN trade_date >= ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN trade_date >= ? THEN 1 ELSE 0 END), 0)
	FROM ` + s.dialect.from + ` WHERE ticker = ?`

	c := models.CompanySummary{Ticker: ticker}
	var avgBuy, avgSell sql.NullFloat64
	var name sql.NullString
	err := s.db.QueryRowContext(ctx, q, since30, since90, ticker).Scan(
		&c.TotalTrades, &c.TotalBought, &c.TotalSold, &avgBuy, &avgSell, &name,
		&c.RecentActivity30D, &c.RecentActivity90D,
	)
	if err != nil {
		return nil, fmt.Errorf("company %s summary: %w", ticker, err)
	}
	if c.TotalTrades == 0 {
		return nil, fmt.Errorf("company %s: %w", ticker, repository.ErrNotFound)
	}

	c.CompanyName = nullString(name)
	c.AvgBuyPrice = nullFloat(avgBuy)
	c.AvgSellPrice = nullFloat(avgSell)
	c.NetShares = c.TotalBought - c.TotalSold
	if c.TotalSold > 0 {
		ratio := float64(c.TotalBought) / float64(c.TotalSold)
		c.BuySellRatio = &ratio
	}
	return &c, nil
}

func (s *SQLStore) ListCompanies(ctx context.Context, limit int) ([]models.CompanyListItem, int64, error) {
	const hasTicker = " WHERE ticker IS NOT NULL AND ticker <> ''"

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT ticker) FROM "+s.dialect.from+hasTicker).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	q := `SELECT ticker, MAX(company_name), COUNT(*) AS trades, MAX(trade_date)
	FROM ` + s.dialect.from + hasTicker + `
	GROUP BY ticker ORDER BY trades DESC, ticker LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	items := []models.CompanyListItem{}
	for rows.Next() {
		var it models.CompanyListItem
		var name, last sql.NullString
		if err := rows.Scan(&it.Ticker, &name, &it.TotalTrades, &last); err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		it.CompanyName = nullString(name)
		it.LastTradeDate = nullString(last)
		items = append(items, it)
	}
	return items, total, rows.Err()
}

var insiderOrder = map[models.InsiderSort]string{
	models.InsiderSortActivity:    "trades DESC, insider_name",
	models.InsiderSortPerformance: "avg_perf DESC NULLS LAST, trades DESC, insider_name",
	models.InsiderSortRecent:      "last_trade DESC NULLS LAST, insider_name",
}

func (s *SQLStore) ListInsiders(ctx context.Context, sort models.InsiderSort, limit int) ([]models.InsiderListItem, int64, error) {
	order, ok := insiderOrder[sort]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported insider sort %q", sort)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT insider_name) FROM "+s.dialect.from).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count insiders: %w", err)
	}

	q := `SELECT insider_name, MAX(title), COUNT(*) AS trades, COUNT(DISTINCT ticker),
		SUM(abs(value)), AVG(performance_1m) AS avg_perf, MAX(trade_date) AS last_trade
	FROM ` + s.dialect.from + `
	GROUP BY insider_name ORDER BY ` + order + ` LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list insiders: %w", err)
	}
	defer rows.Close()

	items := []models.InsiderListItem{}
	for rows.Next() {
		var it models.InsiderListItem
		var title, last sql.NullString
		var value, perf sql.NullFloat64
		if err := rows.Scan(&it.InsiderName, &title, &it.TotalTrades, &it.TotalCompanies, &value, &perf, &last); err != nil {
			return nil, 0, fmt.Errorf("scan insider: %w", err)
		}
		it.Title = nullString(title)
		it.TotalValue = nullFloat(value)
		it.AvgPerformance1M = nullFloat(perf)
		it.LastTradeDate = nullString(last)
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (s *SQLStore) InsiderTrades(ctx context.Context, name string, limit int) ([]models.Trade, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE insider_name = ? ORDER BY trade_date DESC, id DESC LIMIT ?", selectColumns, s.dialect.from)
	rows, err := s.db.QueryContext(ctx, q, name, limit)
	if err != nil {
		return nil, fmt.Errorf("insider trades: %w", err)
	}
	trades, err := scanTrades(rows)
	if err != nil {
		return nil, fmt.Errorf("scan insider trades: %w", err)
	}
	return trades, nil
}

func (s *SQLStore) CountSince(ctx context.Context, f repository.ActivityFilter, since string) (int64, error) {
	col, val := "ticker", util.NormalizeTicker(f.Ticker)
	if f.InsiderName != "" {
		col, val = "insider_name", f.InsiderName
	}
	var n int64
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ? AND trade_date >= ?", s.dialect.from, col)
	if err := s.db.QueryRowContext(ctx, q, val, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}
	return n, nil
}

func (s *SQLStore) Buys(ctx context.Context, ticker, since string, limit int) ([]models.Trade, error) {
	where := " WHERE trade_type = ? AND trade_date >= ?"
	args := []any{models.TradeTypeBuy, since}
	if ticker != "" {
		where += " AND ticker = ?"
		args = append(args, util.NormalizeTicker(ticker))
	}
	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY trade_date DESC, id DESC LIMIT ?", selectColumns, s.dialect.from, where)
	rows, err := s.db.QueryContext(ctx, q, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("recent buys: %w", err)
	}
	trades, err := scanTrades(rows)
	if err != nil {
		return nil, fmt.Errorf("scan buys: %w", err)
	}
	return trades, nil
}

func (s *SQLStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return nil // Managed by pkg
}
