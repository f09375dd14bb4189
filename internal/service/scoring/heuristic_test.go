package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"InsideX/internal/domain/models"
)

func ptr[T any](v T) *T { return &v }

func fixedHeuristic() *Heuristic {
	h := NewHeuristic()
	h.now = func() time.Time { return time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC) }
	return h
}

func TestScoreTradesRules(t *testing.T) {
	h := fixedHeuristic()
	trades := []models.Trade{
		// 0.4 + 0.25 + 0.15 + 0.1 + 0.05 = 0.95
		{Ticker: ptr("NVDA"), InsiderName: "Jensen Huang", Title: ptr("President, CEO"), TradeType: "Buy",
			Value: ptr(2_000_000.0), Performance1M: ptr(0.08), FilingDate: ptr("2024-03-18"), TradeDate: ptr("2024-03-15")},
		// 0.4 + 0.15 + 0.12 = 0.67
		{Ticker: ptr("AAPL"), InsiderName: "Kevan Parekh", Title: ptr("CFO"), TradeType: "P - Purchase",
			Value: ptr(600_000.0), FilingDate: ptr("2024-01-02")},
		// 0.4 + 0.08 = 0.48
		{Ticker: ptr("MSFT"), InsiderName: "Jane Roe", Title: ptr("Director"), TradeType: "Buy", Value: ptr(10_000.0)},
		// base only
		{Ticker: ptr("AMD"), InsiderName: "John Doe", TradeType: "Buy"},
		{Ticker: ptr("TSLA"), InsiderName: "Seller", Title: ptr("CEO"), TradeType: "Sell", Value: ptr(5_000_000.0)},
		{InsiderName: "No Ticker", TradeType: "Buy", Value: ptr(5_000_000.0)},
	}

	signals := h.ScoreTrades(trades)
	require.Len(t, signals, 4)

	assert.Equal(t, "NVDA", signals[0].Ticker)
	assert.InDelta(t, 0.95, signals[0].Score, 1e-9)
	assert.Equal(t, models.ConfidenceHigh, signals[0].Confidence)
	assert.Equal(t, []string{
		"Large trade value: $2,000,000",
		"CEO-level insider trading",
		"Strong 1M performance history: 8.0%",
		"Recently filed",
	}, signals[0].Reasons)
	assert.InDelta(t, 0.95*0.12, *signals[0].ExpectedReturn, 1e-9)
	assert.Equal(t, "Jensen Huang", *signals[0].InsiderName)
	assert.Equal(t, "2024-03-15", *signals[0].TradeDate)

	assert.Equal(t, "AAPL", signals[1].Ticker)
	assert.InDelta(t, 0.67, signals[1].Score, 1e-9)
	assert.Equal(t, models.ConfidenceMedium, signals[1].Confidence)

	assert.Equal(t, "MSFT", signals[2].Ticker)
	assert.InDelta(t, 0.48, signals[2].Score, 1e-9)
	assert.Equal(t, models.ConfidenceLow, signals[2].Confidence)

	assert.Equal(t, "AMD", signals[3].Ticker)
	assert.Equal(t, []string{DefaultReason}, signals[3].Reasons)
	assert.Nil(t, signals[3].TradeValue)

	for _, s := range signals {
		assert.GreaterOrEqual(t, s.Score, 0.0)
		assert.LessOrEqual(t, s.Score, Cap)
		assert.NotEmpty(t, s.Reasons)
	}
}

func TestScoreTradesEmpty(t *testing.T) {
	signals := fixedHeuristic().ScoreTrades(nil)
	assert.NotNil(t, signals)
	assert.Empty(t, signals)
}

func TestFilingTrade(t *testing.T) {
	buy := FilingTrade(models.FilingInput{Ticker: " nvda", TradeDate: "2024-03-19", InsiderRole: "CEO", Price: 900, Quantity: 2000})
	assert.Equal(t, "NVDA", *buy.Ticker)
	assert.True(t, buy.IsBuy())
	assert.InDelta(t, 1_800_000.0, *buy.Value, 1e-9)

	signals := fixedHeuristic().ScoreTrades([]models.Trade{buy})
	require.Len(t, signals, 1)
	assert.InDelta(t, 0.85, signals[0].Score, 1e-9)

	sell := FilingTrade(models.FilingInput{Ticker: "NVDA", TradeDate: "2024-03-19", InsiderRole: "CEO", Price: 900, Quantity: -5})
	assert.True(t, sell.IsSell())
	assert.Empty(t, fixedHeuristic().ScoreTrades([]models.Trade{sell}))
}

func TestInfo(t *testing.T) {
	info := NewHeuristic().Info()
	assert.Equal(t, ModelType, info["model_type"])
	assert.Equal(t, false, info["model_loaded"])
}
