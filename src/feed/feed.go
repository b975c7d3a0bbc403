package feed

import (
	"context"

	"signalengine/src/model"
)

// PriceFeed returns an ordered price history for a symbol. A failed or
// truncated fetch is a recoverable condition for the cycle that asked.
type PriceFeed interface {
	PriceHistory(ctx context.Context, symbol string, window int) ([]model.PricePoint, error)
}

// RawSentiment is the unvalidated upstream sentiment payload. Fields may be
// missing or out of range; the sentiment analyzer clamps them.
type RawSentiment struct {
	FearGreedIndex  float64 `json:"fear_greed_index"`
	HasFearGreed    bool    `json:"has_fear_greed"`
	SocialSentiment float64 `json:"social_sentiment"`
	NewsSentiment   float64 `json:"news_sentiment"`
	WhaleActivity   string  `json:"whale_activity"`
	FundingRate     float64 `json:"funding_rate"`
	OpenInterest    float64 `json:"open_interest"`
}

type SentimentFeed interface {
	RawSentiment(ctx context.Context, symbol string) (*RawSentiment, error)
}

// LastPriceSource exposes the most recent traded price for a symbol, if any
// stream has seen one.
type LastPriceSource interface {
	LastPrice(symbol string) (float64, bool)
}
