package models

import "time"

// Sentiment is a coarse market mood label.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// MarketSnapshot captures the indicators a signal computation is based on.
// Immutable once produced; one instance per computation.
type MarketSnapshot struct {
	GoldPrice     float64   `json:"goldPrice"`
	GoldChange24h float64   `json:"goldChange24h"`
	InflationRate float64   `json:"inflationRate"`
	USDStrength   float64   `json:"usdStrength"`
	Sentiment     Sentiment `json:"marketSentiment"`
	Timestamp     time.Time `json:"timestamp"`
}

// PricePoint is a single observation in the price history ring.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceStats summarizes the recent price history.
type PriceStats struct {
	CurrentPrice float64 `json:"currentPrice"`
	AvgPrice     float64 `json:"avgPrice"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Volatility   float64 `json:"volatility"`
	Trend        string  `json:"trend"`
}
