package models

import (
	"errors"
	"strings"
)

// Requests for the signal endpoints. Shared by the REST handlers and the API client.

var (
	ErrEmptyScoreRequest     = errors.New("score request needs a ticker or at least one filing")
	ErrAmbiguousScoreRequest = errors.New("score request must not carry both a ticker and filings")
)

type TopSignalsQuery struct {
	WindowDays int `query:"window_days" json:"window_days" default:"30" validate:"gte=1,lte=365"`
	Limit      int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=200"`
}

// FilingInput is one filing submitted for scoring.
type FilingInput struct {
	Ticker         string   `json:"ticker" validate:"required"`
	TradeDate      string   `json:"trade_date" validate:"required,datetime=2006-01-02"`
	InsiderRole    string   `json:"insider_role" validate:"required"`
	Price          float64  `json:"price" validate:"gt=0"`
	Quantity       int64    `json:"quantity" validate:"ne=0"`
	OwnershipAfter *float64 `json:"ownership_after,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// ScoreRequest is either {ticker, lookback_days?} or {filings}. Exactly one
// shape must be set.
type ScoreRequest struct {
	Ticker       string        `json:"ticker,omitempty"`
	LookbackDays *int          `json:"lookback_days,omitempty" validate:"omitempty,gte=1,lte=365"`
	Filings      []FilingInput `json:"filings,omitempty" validate:"omitempty,dive"`
}

// TickerScoreRequest builds the ticker shape. A zero lookback leaves the
// backend default in place.
func TickerScoreRequest(ticker string, lookbackDays int) ScoreRequest {
	r := ScoreRequest{Ticker: ticker}
	if lookbackDays > 0 {
		r.LookbackDays = &lookbackDays
	}
	return r
}

// FilingsScoreRequest builds the filings shape.
func FilingsScoreRequest(filings ...FilingInput) ScoreRequest {
	return ScoreRequest{Filings: filings}
}

// Shape checks that exactly one request shape is present. Field-level rules
// are enforced by the struct tags.
func (r ScoreRequest) Shape() error {
	hasTicker := strings.TrimSpace(r.Ticker) != ""
	hasFilings := len(r.Filings) > 0
	switch {
	case !hasTicker && !hasFilings:
		return ErrEmptyScoreRequest
	case hasTicker && hasFilings:
		return ErrAmbiguousScoreRequest
	}
	if !hasTicker && r.LookbackDays != nil {
		return ErrAmbiguousScoreRequest
	}
	return nil
}

// IsTicker reports whether the request scores a ticker.
func (r ScoreRequest) IsTicker() bool {
	return strings.TrimSpace(r.Ticker) != ""
}
