package usecase

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"InsideX/internal/domain/models"
	domrepo "InsideX/internal/domain/repository"
	"InsideX/pkg/logger"
	"InsideX/pkg/util"
)

const (
	recentTradesLimit  = 10
	insiderTradesLimit = 1000
	historyMonths      = 12
)

// TradesUseCase serves trade, company and insider queries.
type TradesUseCase struct {
	store   domrepo.TradeStore
	metrics domrepo.Metrics
	log     *logger.Logger
	now     func() time.Time
}

func NewTradesUseCase(store domrepo.TradeStore, metrics domrepo.Metrics, log *logger.Logger) *TradesUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TradesUseCase{store: store, metrics: metrics, log: log, now: time.Now}
}

func (uc *TradesUseCase) ListTrades(ctx context.Context, q models.TradeQuery) (*models.TradeListResponse, error) {
	trades, total, err := uc.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return &models.TradeListResponse{
		Trades:  trades,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		HasMore: int64(q.Offset+q.Limit) < total,
	}, nil
}

func (uc *TradesUseCase) GetTrade(ctx context.Context, id int64) (*models.Trade, error) {
	return uc.store.GetByID(ctx, id)
}

func (uc *TradesUseCase) Stats(ctx context.Context) (*models.TradeStats, error) {
	return uc.store.Stats(ctx)
}

func (uc *TradesUseCase) Company(ctx context.Context, ticker string) (*models.CompanyResponse, error) {
	summary, err := uc.store.CompanySummary(ctx, ticker, uc.now())
	if err != nil {
		return nil, err
	}
	recent, _, err := uc.store.Query(ctx, models.TradeQuery{Ticker: ticker, Limit: recentTradesLimit})
	if err != nil {
		return nil, fmt.Errorf("company %s recent trades: %w", summary.Ticker, err)
	}
	return &models.CompanyResponse{Company: *summary, RecentTrades: recent}, nil
}

func (uc *TradesUseCase) ListCompanies(ctx context.Context, limit int) (*models.CompanyListResponse, error) {
	items, total, err := uc.store.ListCompanies(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &models.CompanyListResponse{Companies: items, Total: total}, nil
}

// Insider summarizes one insider from up to 1000 of their trades.
func (uc *TradesUseCase) Insider(ctx context.Context, name string) (*models.InsiderResponse, error) {
	trades, err := uc.store.InsiderTrades(ctx, name, insiderTradesLimit)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("insider %q: %w", name, domrepo.ErrNotFound)
	}

	summary := SummarizeInsider(name, trades)
	summary.RecentActivity30D, err = uc.store.CountSince(ctx,
		domrepo.ActivityFilter{InsiderName: name}, util.DaysBefore(uc.now(), 30))
	if err != nil {
		return nil, err
	}

	return &models.InsiderResponse{
		Insider:            summary,
		RecentTrades:       trades[:min(len(trades), recentTradesLimit)],
		PerformanceHistory: PerformanceHistory(trades),
	}, nil
}

func (uc *TradesUseCase) ListInsiders(ctx context.Context, sort models.InsiderSort, limit int) (*models.InsiderListResponse, error) {
	items, total, err := uc.store.ListInsiders(ctx, sort, limit)
	if err != nil {
		return nil, err
	}
	return &models.InsiderListResponse{Insiders: items, Total: total, SortedBy: sort}, nil
}

// TopInsiders returns the best average 1-month performers. Insiders without
// any performance data are left out.
func (uc *TradesUseCase) TopInsiders(ctx context.Context, limit int) (*models.InsiderListResponse, error) {
	items, _, err := uc.store.ListInsiders(ctx, models.InsiderSortPerformance, limit)
	if err != nil {
		return nil, err
	}
	top := make([]models.InsiderListItem, 0, len(items))
	for _, it := range items {
		if it.AvgPerformance1M != nil {
			top = append(top, it)
		}
	}
	return &models.InsiderListResponse{Insiders: top, Total: int64(len(top)), SortedBy: models.InsiderSortPerformance}, nil
}

// Import stores scraped trades and reports how many were new.
func (uc *TradesUseCase) Import(ctx context.Context, trades []models.Trade) (int64, error) {
	n, err := uc.store.Insert(ctx, trades)
	if err != nil {
		return 0, fmt.Errorf("import trades: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.RecordTradesImported(n)
	}
	uc.log.Info("trades imported",
		logger.Int("received", len(trades)),
		logger.Int64("inserted", n),
	)
	return n, nil
}

// SummarizeInsider aggregates an insider's trades. RecentActivity30D is
// left for the caller.
func SummarizeInsider(name string, trades []models.Trade) models.InsiderSummary {
	s := models.InsiderSummary{InsiderName: name, TotalTrades: int64(len(trades))}
	tickers := make(map[string]struct{})
	var valueSum float64
	var valueN int
	for _, t := range trades {
		if t.Qty != nil {
			q := *t.Qty
			if q < 0 {
				q = -q
			}
			switch {
			case t.IsBuy():
				s.TotalBought += q
			case t.IsSell():
				s.TotalSold += q
			}
		}
		if tk := t.TickerOr(""); tk != "" {
			tickers[tk] = struct{}{}
		}
		if t.Value != nil {
			valueSum += math.Abs(*t.Value)
			valueN++
		}
	}
	s.TotalCompanies = int64(len(tickers))
	if valueN > 0 {
		avg := valueSum / float64(valueN)
		s.AvgTradeValue = &avg
	}
	s.SuccessRate1M = successRate(trades, func(t models.Trade) *float64 { return t.Performance1M })
	s.SuccessRate6M = successRate(trades, func(t models.Trade) *float64 { return t.Performance6M })
	return s
}

// successRate is the share of trades with a positive return at a horizon,
// nil when no trade has one.
func successRate(trades []models.Trade, perf func(models.Trade) *float64) *float64 {
	var wins, n int
	for _, t := range trades {
		if p := perf(t); p != nil {
			n++
			if *p > 0 {
				wins++
			}
		}
	}
	if n == 0 {
		return nil
	}
	rate := float64(wins) / float64(n)
	return &rate
}

// PerformanceHistory averages forward performance per trade month, oldest
// first, keeping the last 12 months.
func PerformanceHistory(trades []models.Trade) []models.PerformancePoint {
	type bucket struct {
		sum1m, sum6m float64
		n1m, n6m     int
		count        int64
	}
	buckets := make(map[string]*bucket)
	for _, t := range trades {
		if t.TradeDate == nil {
			continue
		}
		d, ok := util.ParseDate(*t.TradeDate)
		if !ok {
			continue
		}
		period := d.Format("2006-01")
		b := buckets[period]
		if b == nil {
			b = &bucket{}
			buckets[period] = b
		}
		b.count++
		if t.Performance1M != nil {
			b.sum1m += *t.Performance1M
			b.n1m++
		}
		if t.Performance6M != nil {
			b.sum6m += *t.Performance6M
			b.n6m++
		}
	}

	periods := slices.Sorted(maps.Keys(buckets))
	if len(periods) > historyMonths {
		periods = periods[len(periods)-historyMonths:]
	}
	history := make([]models.PerformancePoint, 0, len(periods))
	for _, p := range periods {
		b := buckets[p]
		pt := models.PerformancePoint{Period: p, TradeCount: b.count}
		if b.n1m > 0 {
			v := b.sum1m / float64(b.n1m)
			pt.AvgPerformance1M = &v
		}
		if b.n6m > 0 {
			v := b.sum6m / float64(b.n6m)
			pt.AvgPerformance6M = &v
		}
		history = append(history, pt)
	}
	return history
}
