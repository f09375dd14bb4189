package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"InsideX/internal/domain/models"
	domrepo "InsideX/internal/domain/repository"
	"InsideX/internal/service/scoring"
	"InsideX/pkg/cache"
	"InsideX/pkg/logger"
	"InsideX/pkg/util"
)

const (
	signalsCachePrefix   = "signals:top"
	candidateTradeLimit  = 1000
	tickerTradeLimit     = 100
	defaultLookbackDays  = 30
	maxCachedSignalCount = 200
)

// Scorer turns trades into ranked signals.
type Scorer interface {
	ScoreTrades(trades []models.Trade) []models.Signal
	Info() models.ModelInfo
}

var _ Scorer = (*scoring.Heuristic)(nil)

// SignalsUseCase ranks recent purchases into signals and caches the top
// lists per window.
type SignalsUseCase struct {
	store   domrepo.TradeStore
	scorer  Scorer
	cache   cache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
	log     *logger.Logger
	now     func() time.Time
}

func NewSignalsUseCase(store domrepo.TradeStore, scorer Scorer, c cache.Service, ttl time.Duration, metrics domrepo.Metrics, log *logger.Logger) *SignalsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SignalsUseCase{store: store, scorer: scorer, cache: c, ttl: ttl, metrics: metrics, log: log, now: time.Now}
}

func topKey(windowDays int) string {
	return cache.GenerateKeyWithParams(signalsCachePrefix, windowDays)
}

// TopSignals returns the best signals of the window, served from cache when
// a fresh list exists.
func (uc *SignalsUseCase) TopSignals(ctx context.Context, windowDays, limit int) (*models.TopSignalsResponse, error) {
	full, err := uc.cachedTop(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	signals := full.Signals[:min(limit, len(full.Signals))]
	return &models.TopSignalsResponse{
		GeneratedAt: full.GeneratedAt,
		WindowDays:  full.WindowDays,
		Signals:     signals,
		Total:       len(signals),
	}, nil
}

func (uc *SignalsUseCase) cachedTop(ctx context.Context, windowDays int) (*models.TopSignalsResponse, error) {
	if uc.cache != nil {
		var resp models.TopSignalsResponse
		err := uc.cache.Get(ctx, topKey(windowDays), &resp)
		uc.recordLookup(err == nil)
		switch {
		case err == nil:
			return &resp, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			uc.log.Warn("signal cache read failed", logger.Int("window_days", windowDays), logger.Error(err))
		}
	}
	return uc.Refresh(ctx, windowDays)
}

func (uc *SignalsUseCase) recordLookup(hit bool) {
	if uc.metrics != nil {
		uc.metrics.RecordCacheLookup("signals", hit)
	}
}

// Refresh recomputes the window and stores it in the cache.
func (uc *SignalsUseCase) Refresh(ctx context.Context, windowDays int) (*models.TopSignalsResponse, error) {
	resp, err := uc.Compute(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, topKey(windowDays), resp, uc.ttl); err != nil {
			uc.log.Warn("signal cache write failed", logger.Int("window_days", windowDays), logger.Error(err))
		}
	}
	return resp, nil
}

// Compute scores purchases traded within the window.
func (uc *SignalsUseCase) Compute(ctx context.Context, windowDays int) (*models.TopSignalsResponse, error) {
	now := uc.now()
	trades, err := uc.store.Buys(ctx, "", util.DaysBefore(now, windowDays), candidateTradeLimit)
	if err != nil {
		return nil, fmt.Errorf("signal candidates: %w", err)
	}
	signals := uc.scorer.ScoreTrades(trades)
	signals = signals[:min(len(signals), maxCachedSignalCount)]

	if uc.metrics != nil {
		uc.metrics.RecordSignals(fmt.Sprintf("%dd", windowDays), len(signals))
	}
	return &models.TopSignalsResponse{
		GeneratedAt: now.UTC(),
		WindowDays:  windowDays,
		Signals:     signals,
		Total:       len(signals),
	}, nil
}

// Score rates either one ticker's recent purchases or the submitted filings.
func (uc *SignalsUseCase) Score(ctx context.Context, req models.ScoreRequest) (*models.ScoreResponse, error) {
	if err := req.Shape(); err != nil {
		return nil, err
	}

	now := uc.now()
	info := uc.scorer.Info()
	meta := map[string]any{"model_type": info["model_type"]}

	var signals []models.Signal
	if req.IsTicker() {
		ticker := util.NormalizeTicker(req.Ticker)
		lookback := defaultLookbackDays
		if req.LookbackDays != nil {
			lookback = *req.LookbackDays
		}
		trades, err := uc.store.Buys(ctx, ticker, util.DaysBefore(now, lookback), tickerTradeLimit)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", ticker, err)
		}
		for _, s := range uc.scorer.ScoreTrades(trades) {
			if strings.EqualFold(s.Ticker, ticker) {
				signals = append(signals, s)
			}
		}
		meta["mode"] = "ticker"
		meta["ticker"] = ticker
		meta["lookback_days"] = lookback
		meta["trades_considered"] = len(trades)
	} else {
		trades := make([]models.Trade, len(req.Filings))
		for i, f := range req.Filings {
			trades[i] = scoring.FilingTrade(f)
		}
		signals = uc.scorer.ScoreTrades(trades)
		meta["mode"] = "filings"
		meta["filings"] = len(req.Filings)
	}
	if signals == nil {
		signals = []models.Signal{}
	}

	return &models.ScoreResponse{GeneratedAt: now.UTC(), Signals: signals, Metadata: meta}, nil
}

func (uc *SignalsUseCase) ModelInfo() models.ModelInfo {
	return uc.scorer.Info()
}

// Invalidate drops every cached top list, e.g. after an import.
func (uc *SignalsUseCase) Invalidate(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.DeleteByPattern(ctx, cache.BuildPattern(signalsCachePrefix))
}
