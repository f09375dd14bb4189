package models

import "time"

// Confidence is the coarse bucket of a signal score.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConfidenceForScore buckets a score: above 0.7 is high, above 0.5 medium.
func ConfidenceForScore(score float64) Confidence {
	switch {
	case score > 0.7:
		return ConfidenceHigh
	case score > 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Rank orders tiers for sorting; unknown tiers rank lowest.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// Signal is a scored assessment of recent insider activity in a ticker.
// Score is a probability in [0,1].
type Signal struct {
	Ticker         string     `json:"ticker" validate:"required"`
	Score          float64    `json:"score" validate:"gte=0,lte=1"`
	Confidence     Confidence `json:"confidence" validate:"oneof=low medium high"`
	Reasons        []string   `json:"reasons" validate:"omitempty,dive,required"`
	TradeDate      *string    `json:"trade_date,omitempty"`
	InsiderName    *string    `json:"insider_name,omitempty"`
	TradeValue     *float64   `json:"trade_value,omitempty"`
	ExpectedReturn *float64   `json:"expected_return,omitempty"`
}

type TopSignalsResponse struct {
	GeneratedAt time.Time `json:"generated_at" validate:"required"`
	WindowDays  int       `json:"window_days" validate:"gte=1"`
	Signals     []Signal  `json:"signals" validate:"required,dive"`
	Total       int       `json:"total" validate:"gte=0"`
}

type ScoreResponse struct {
	GeneratedAt time.Time      `json:"generated_at" validate:"required"`
	Signals     []Signal       `json:"signals" validate:"required,dive"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ModelInfo describes the active scorer. Its shape is not fixed.
type ModelInfo map[string]any
