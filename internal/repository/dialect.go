package repository

import (
	"fmt"
	"hash/fnv"
	"strings"

	"InsideX/internal/domain/models"
)

const tradesTable = "insider_trades"

// tradeColumns are the stored columns after id, in insert order.
var tradeColumns = []string{
	"trade_flag", "filing_date", "trade_date", "ticker", "company_name",
	"insider_name", "title", "trade_type", "price", "qty", "owned",
	"delta_own", "value", "performance_1d", "performance_1w",
	"performance_1m", "performance_6m", "scraped_at",
}

// Dialect holds the SQL that differs between the SQLite file and ClickHouse.
type Dialect struct {
	Name string
	// insertVerb starts the insert statement; SQLite skips duplicates itself.
	insertVerb string
	// from is the table reference used by reads.
	from string
	// explicitID stores a hash of the natural key as id instead of a
	// database-assigned row id.
	explicitID bool
	schema     []string
}

var SQLite = Dialect{
	Name:       "sqlite",
	insertVerb: "INSERT OR IGNORE INTO",
	from:       tradesTable,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS insider_trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trade_flag TEXT,
			filing_date TEXT,
			trade_date TEXT,
			ticker TEXT,
			company_name TEXT,
			insider_name TEXT NOT NULL,
			title TEXT,
			trade_type TEXT NOT NULL,
			price REAL,
			qty INTEGER,
			owned INTEGER,
			delta_own REAL,
			value REAL,
			performance_1d REAL,
			performance_1w REAL,
			performance_1m REAL,
			performance_6m REAL,
			scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		// NULLs are distinct in plain UNIQUE constraints, so the natural key
		// is indexed through ifnull.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_trade_natural ON insider_trades (
			ifnull(trade_flag, ''), ifnull(filing_date, ''), ifnull(trade_date, ''),
			ifnull(ticker, ''), ifnull(company_name, ''), insider_name, ifnull(title, ''),
			trade_type, ifnull(price, 0), ifnull(qty, 0), ifnull(owned, 0), ifnull(delta_own, 0),
			ifnull(value, 0)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticker ON insider_trades(ticker)`,
		`CREATE INDEX IF NOT EXISTS idx_filing_date ON insider_trades(filing_date)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_date ON insider_trades(trade_date)`,
		`CREATE INDEX IF NOT EXISTS idx_insider_name ON insider_trades(insider_name)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_type ON insider_trades(trade_type)`,
	},
}

var ClickHouse = Dialect{
	Name:       "clickhouse",
	insertVerb: "INSERT INTO",
	from:       tradesTable + " FINAL",
	explicitID: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS insider_trades (
			id Int64,
			trade_flag Nullable(String),
			filing_date Nullable(String),
			trade_date Nullable(String),
			ticker Nullable(String),
			company_name Nullable(String),
			insider_name String,
			title Nullable(String),
			trade_type String,
			price Nullable(Float64),
			qty Nullable(Int64),
			owned Nullable(Int64),
			delta_own Nullable(Float64),
			value Nullable(Float64),
			performance_1d Nullable(Float64),
			performance_1w Nullable(Float64),
			performance_1m Nullable(Float64),
			performance_6m Nullable(Float64),
			scraped_at Nullable(String)
		) ENGINE = ReplacingMergeTree
		ORDER BY id`,
	},
}

// DialectFor maps a configured driver name onto a Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite":
		return SQLite, nil
	case "clickhouse":
		return ClickHouse, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
}

func (d Dialect) insertSQL() string {
	cols := tradeColumns
	if d.explicitID {
		cols = append([]string{"id"}, cols...)
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("%s %s (%s) VALUES (%s)", d.insertVerb, tradesTable, strings.Join(cols, ", "), marks)
}

// naturalID hashes the fields that identify a filing row. Re-importing the
// same row yields the same id, which ReplacingMergeTree collapses.
func naturalID(t models.Trade) int64 {
	h := fnv.New64a()
	for _, v := range []any{
		t.TradeFlag, t.FilingDate, t.TradeDate, t.Ticker, t.CompanyName,
		t.InsiderName, t.Title, t.TradeType, t.Price, t.Qty, t.Owned, t.DeltaOwn, t.Value,
	} {
		fmt.Fprintf(h, "%v|", deref(v))
	}
	return int64(h.Sum64() &^ (1 << 63))
}
