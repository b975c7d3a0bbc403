package model

type WhaleActivity string

const (
	WhaleLow      WhaleActivity = "low"
	WhaleModerate WhaleActivity = "moderate"
	WhaleHigh     WhaleActivity = "high"
)

// MarketSentiment is the per-cycle sentiment snapshot for one symbol.
// FearGreedIndex is always within [0,100]; SocialSentiment and NewsSentiment
// are normalized to [-1,1]. Same lifecycle as TechnicalIndicators.
type MarketSentiment struct {
	FearGreedIndex  float64       `json:"fear_greed_index"`
	SocialSentiment float64       `json:"social_sentiment"`
	NewsSentiment   float64       `json:"news_sentiment"`
	WhaleActivity   WhaleActivity `json:"whale_activity"`
	FundingRate     float64       `json:"funding_rate"`
	OpenInterest    float64       `json:"open_interest"`
}
