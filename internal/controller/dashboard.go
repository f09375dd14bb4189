package controller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
	"InsideX/pkg/logger"
)

// Dashboard batch parameters.
const (
	DashboardWindowDays  = 30
	DashboardSignalLimit = 10
	DashboardTradeLimit  = 100
)

// DashboardAPI is what the dashboard batch calls.
type DashboardAPI interface {
	SignalsAPI
	TradesAPI
}

// DashboardStats are derived client-side from one completed batch.
type DashboardStats struct {
	TotalSignals   int
	HighConfidence int
	// AvgScore is nil when there are no signals.
	AvgScore      *float64
	BuyCount      int
	SellCount     int
	BuyValue      float64
	ActiveTickers int
}

// DashboardState is a snapshot of the dashboard. Signals, Stats and Trades
// are either all set (StatusReady) or all empty.
type DashboardState struct {
	Status    Status
	Error     string
	Signals   *models.TopSignalsResponse
	Stats     *models.TradeStats
	Trades    []models.Trade
	Derived   DashboardStats
	UpdatedAt time.Time
}

// Dashboard loads the landing page: top signals, database stats and recent
// trades as one fail-fast batch.
type Dashboard struct {
	api DashboardAPI
	log *logger.Logger
	now func() time.Time

	mu    sync.RWMutex
	state DashboardState
}

func NewDashboard(api DashboardAPI, log *logger.Logger) *Dashboard {
	if log == nil {
		log = logger.Nop()
	}
	return &Dashboard{
		api:   api,
		log:   log,
		now:   time.Now,
		state: DashboardState{Status: StatusIdle},
	}
}

// State returns the current snapshot.
func (d *Dashboard) State() DashboardState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Reset drops all held data. Load alone never clears what is displayed.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	d.state = DashboardState{Status: StatusIdle}
	d.mu.Unlock()
}

// Load runs the batch. Previously loaded data stays visible, flagged as
// loading, until the batch completes; a failure of any request replaces it
// with the error state.
func (d *Dashboard) Load(ctx context.Context) (DashboardState, error) {
	d.mu.Lock()
	d.state.Status = StatusLoading
	d.state.Error = ""
	d.mu.Unlock()

	var (
		signals *models.TopSignalsResponse
		stats   *models.TradeStats
		trades  *models.TradeListResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		signals, err = d.api.GetTopSignals(gctx, client.TopSignalsParams{
			WindowDays: DashboardWindowDays,
			Limit:      DashboardSignalLimit,
		})
		return err
	})
	g.Go(func() (err error) {
		stats, err = d.api.GetTradeStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		trades, err = d.api.ListTrades(gctx, client.TradeFilter{Limit: DashboardTradeLimit})
		return err
	})

	if err := g.Wait(); err != nil {
		d.log.Error("dashboard load failed", logger.Error(err))
		next := DashboardState{Status: StatusError, Error: client.Message(err), UpdatedAt: d.now()}
		d.mu.Lock()
		d.state = next
		d.mu.Unlock()
		return next, err
	}

	next := DashboardState{
		Status:    StatusReady,
		Signals:   signals,
		Stats:     stats,
		Trades:    trades.Trades,
		Derived:   DeriveStats(signals.Signals, trades.Trades),
		UpdatedAt: d.now(),
	}
	d.mu.Lock()
	d.state = next
	d.mu.Unlock()
	return next, nil
}

// DeriveStats aggregates signal and trade counts for the stat cards.
func DeriveStats(signals []models.Signal, trades []models.Trade) DashboardStats {
	s := DashboardStats{TotalSignals: len(signals)}
	if len(signals) > 0 {
		var sum float64
		for _, sig := range signals {
			sum += sig.Score
			if sig.Confidence == models.ConfidenceHigh {
				s.HighConfidence++
			}
		}
		avg := sum / float64(len(signals))
		s.AvgScore = &avg
	}

	tickers := make(map[string]struct{})
	for _, t := range trades {
		switch {
		case t.IsBuy():
			s.BuyCount++
			if t.Value != nil {
				s.BuyValue += *t.Value
			}
		case t.IsSell():
			s.SellCount++
		}
		if tk := t.TickerOr(""); tk != "" {
			tickers[tk] = struct{}{}
		}
	}
	s.ActiveTickers = len(tickers)
	return s
}
