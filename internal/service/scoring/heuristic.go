// Package scoring ranks insider purchases into signals with a fixed set of
// weighted rules.
package scoring

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"InsideX/internal/domain/models"
	"InsideX/pkg/util"
)

// Weights of the heuristic. A trade starts at Base and collects bonuses.
const (
	Base             = 0.4
	LargeValue       = 1_000_000.0
	LargeBonus       = 0.25
	SignificantValue = 500_000.0
	SignificantBonus = 0.15
	CEOBonus         = 0.15
	CFOBonus         = 0.12
	DirectorBonus    = 0.08
	PerfThreshold    = 0.05
	PerfBonus        = 0.1
	RecentDays       = 7
	RecentBonus      = 0.05
	Cap              = 0.95
	MinScore         = 0.35
	ReturnFactor     = 0.12
)

const (
	DefaultReason = "Insider buy activity"
	ModelType     = "heuristic"
	ModelVersion  = "1"
)

// Heuristic scores trades by value, insider role, past performance and
// filing recency.
type Heuristic struct {
	now func() time.Time
}

func NewHeuristic() *Heuristic {
	return &Heuristic{now: time.Now}
}

// ScoreTrades returns a signal for every purchase scoring at least MinScore,
// highest score first. Sells and trades without a ticker are ignored.
func (h *Heuristic) ScoreTrades(trades []models.Trade) []models.Signal {
	now := h.now()
	signals := make([]models.Signal, 0, len(trades))
	for _, t := range trades {
		if !t.IsBuy() || t.TickerOr("") == "" {
			continue
		}
		sig, ok := h.score(t, now)
		if ok {
			signals = append(signals, sig)
		}
	}
	rank(signals)
	return signals
}

func (h *Heuristic) score(t models.Trade, now time.Time) (models.Signal, bool) {
	score := Base
	var reasons []string

	value := 0.0
	if t.Value != nil {
		value = math.Abs(*t.Value)
	}
	switch {
	case value > LargeValue:
		score += LargeBonus
		reasons = append(reasons, "Large trade value: $"+humanize.Commaf(math.Round(value)))
	case value > SignificantValue:
		score += SignificantBonus
		reasons = append(reasons, "Significant trade value: $"+humanize.Commaf(math.Round(value)))
	}

	if bonus, reason := roleBonus(t.Title); bonus > 0 {
		score += bonus
		reasons = append(reasons, reason)
	}

	if t.Performance1M != nil && *t.Performance1M > PerfThreshold {
		score += PerfBonus
		reasons = append(reasons, fmt.Sprintf("Strong 1M performance history: %.1f%%", *t.Performance1M*100))
	}

	if t.FilingDate != nil {
		if d := util.DaysSince(*t.FilingDate, now); d >= 0 && d < RecentDays {
			score += RecentBonus
			reasons = append(reasons, "Recently filed")
		}
	}

	score = math.Min(score, Cap)
	if score < MinScore {
		return models.Signal{}, false
	}
	if len(reasons) == 0 {
		reasons = []string{DefaultReason}
	}

	expected := score * ReturnFactor
	sig := models.Signal{
		Ticker:         t.TickerOr(""),
		Score:          score,
		Confidence:     models.ConfidenceForScore(score),
		Reasons:        reasons,
		TradeDate:      t.TradeDate,
		ExpectedReturn: &expected,
	}
	if t.InsiderName != "" {
		name := t.InsiderName
		sig.InsiderName = &name
	}
	if t.Value != nil {
		sig.TradeValue = &value
	}
	return sig, true
}

func roleBonus(title *string) (float64, string) {
	if title == nil {
		return 0, ""
	}
	tl := strings.ToLower(*title)
	switch {
	case containsAny(tl, "ceo", "president", "chief executive"):
		return CEOBonus, "CEO-level insider trading"
	case containsAny(tl, "cfo", "chief financial"):
		return CFOBonus, "CFO-level insider trading"
	case strings.Contains(tl, "director"):
		return DirectorBonus, "Director-level insider trading"
	}
	return 0, ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// rank orders by score, then by trade value, keeping input order on ties.
func rank(signals []models.Signal) {
	slices.SortStableFunc(signals, func(a, b models.Signal) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		av, bv := 0.0, 0.0
		if a.TradeValue != nil {
			av = *a.TradeValue
		}
		if b.TradeValue != nil {
			bv = *b.TradeValue
		}
		switch {
		case av > bv:
			return -1
		case av < bv:
			return 1
		}
		return 0
	})
}

// Info describes the scorer for the model-info endpoint.
func (h *Heuristic) Info() models.ModelInfo {
	return models.ModelInfo{
		"model_loaded":  false,
		"model_type":    ModelType,
		"model_version": ModelVersion,
		"n_features":    4,
		"features":      []string{"trade_value", "insider_role", "performance_1m", "filing_recency"},
		"min_score":     MinScore,
		"score_cap":     Cap,
		"scaler_used":   false,
	}
}

// FilingTrade turns a submitted filing into the trade shape the rules read.
// Positive quantities are purchases.
func FilingTrade(f models.FilingInput) models.Trade {
	ticker := util.NormalizeTicker(f.Ticker)
	role := f.InsiderRole
	value := f.Price * float64(f.Quantity)
	qty := f.Quantity
	price := f.Price
	t := models.Trade{
		Ticker:     &ticker,
		TradeDate:  &f.TradeDate,
		FilingDate: &f.TradeDate,
		Title:      &role,
		TradeType:  models.TradeTypeBuy,
		Price:      &price,
		Qty:        &qty,
		Value:      &value,
	}
	if f.Quantity < 0 {
		t.TradeType = models.TradeTypeSell
	}
	return t
}
