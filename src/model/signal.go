package model

import "time"

// TradingSignal is the persisted output of the signal generator. ExpiresAt is
// derived from the strategy type at creation and never updated; expiry is
// enforced by query filtering (expires_at > now), not by a sweep job.
type TradingSignal struct {
	ID              string              `gorm:"primaryKey;size:36" json:"id"`
	Symbol          string              `gorm:"size:50;not null;index" json:"symbol"`
	SignalType      SignalAction        `gorm:"size:10;not null" json:"signal_type"`
	ConfidenceScore float64             `gorm:"not null" json:"confidence_score"`
	PriceTarget     float64             `gorm:"not null" json:"price_target"`
	StopLoss        float64             `gorm:"not null" json:"stop_loss"`
	StrategyType    StrategyType        `gorm:"size:30;not null" json:"strategy_type"`
	Indicators      TechnicalIndicators `gorm:"serializer:json" json:"technical_indicators"`
	MarketSummary   MarketSentiment     `gorm:"serializer:json" json:"market_sentiment_summary"`
	AnalysisSummary string              `gorm:"size:1024" json:"analysis_summary"`
	IsActive        bool                `gorm:"not null;default:true;index" json:"is_active"`
	ExpiresAt       time.Time           `gorm:"not null;index" json:"expires_at"`
	CreatedAt       time.Time           `json:"created_at"`
}

func (TradingSignal) TableName() string {
	return "trading_signals"
}
