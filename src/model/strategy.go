package model

import "time"

type StrategyType string

const (
	StrategyScalping   StrategyType = "scalping"
	StrategyShortTerm  StrategyType = "short_term"
	StrategyMediumTerm StrategyType = "medium_term"
	StrategyLongTerm   StrategyType = "long_term"
)

type RiskLevel string

const (
	RiskAggressive RiskLevel = "aggressive"
	RiskNeutral    RiskLevel = "neutral"
	RiskDefensive  RiskLevel = "defensive"
)

// Strategy is a user-owned trading profile. Strategies are never hard-deleted,
// only flipped inactive, so historical signals keep a valid owner.
type Strategy struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	UserID             uint         `gorm:"not null;index" json:"user_id"`
	Symbol             string       `gorm:"size:50;not null;index" json:"symbol"`
	Type               StrategyType `gorm:"size:30;not null" json:"type"`
	RiskLevel          RiskLevel    `gorm:"size:30;not null;default:neutral" json:"risk_level"`
	MaxPositionSize    float64      `gorm:"not null" json:"max_position_size"`
	StopLossPercent    float64      `gorm:"not null" json:"stop_loss_percent"`
	TakeProfitPercent  float64      `gorm:"not null" json:"take_profit_percent"`
	DailyTradeLimit    int          `gorm:"not null;default:0" json:"daily_trade_limit"`
	MinConfidenceScore float64      `gorm:"not null" json:"min_confidence_score"`
	Active             bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	LastEvaluatedAt    *time.Time   `json:"last_evaluated_at,omitempty"`
}

// PositionSizeFactor maps the risk level to the fraction of MaxPositionSize a
// recommendation is allowed to commit.
func (r RiskLevel) PositionSizeFactor() float64 {
	switch r {
	case RiskAggressive:
		return 1.0
	case RiskDefensive:
		return 0.25
	default:
		return 0.5
	}
}
