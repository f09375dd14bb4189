package repository

import (
	"context"
	"errors"
	"time"

	"InsideX/internal/domain/models"
)

// ErrNotFound is returned when a trade, company or insider has no rows.
var ErrNotFound = errors.New("not found")

// TradeStore is the insider_trades table.
type TradeStore interface {
	Init(ctx context.Context) error // ensure table and indexes
	// Insert stores trades, skipping exact duplicates. It returns how many
	// rows were new.
	Insert(ctx context.Context, trades []models.Trade) (int64, error)
	Query(ctx context.Context, q models.TradeQuery) ([]models.Trade, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Trade, error)
	Stats(ctx context.Context) (*models.TradeStats, error)

	CompanySummary(ctx context.Context, ticker string, now time.Time) (*models.CompanySummary, error)
	ListCompanies(ctx context.Context, limit int) ([]models.CompanyListItem, int64, error)
	ListInsiders(ctx context.Context, sort models.InsiderSort, limit int) ([]models.InsiderListItem, int64, error)
	// InsiderTrades returns up to limit trades of exactly this insider, newest first.
	InsiderTrades(ctx context.Context, name string, limit int) ([]models.Trade, error)
	// CountSince counts trades of a ticker or insider traded on or after since.
	CountSince(ctx context.Context, f ActivityFilter, since string) (int64, error)
	// Buys returns purchases traded on or after since, newest first. An
	// empty ticker matches every company.
	Buys(ctx context.Context, ticker, since string, limit int) ([]models.Trade, error)

	Health(ctx context.Context) error // ping
	Close() error
}

// ActivityFilter selects the trades CountSince counts. Exactly one field is set.
type ActivityFilter struct {
	Ticker      string
	InsiderName string
}

// SignalPublisher ships precomputed signal snapshots downstream.
type SignalPublisher interface {
	PublishSignals(ctx context.Context, resp *models.TopSignalsResponse) error
}

type Metrics interface {
	RecordSignals(window string, n int)
	RecordTradesImported(n int64)
	RecordCacheLookup(cache string, hit bool)
}
