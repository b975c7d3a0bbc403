package model

import "github.com/shopspring/decimal"

type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

type TierLimits struct {
	DailyTrades       int
	MaxActiveRequests int
	MaxPositionSize   decimal.Decimal
}

// LimitsFor returns the throughput limits for a subscription tier. Unknown
// tiers get the free limits.
func LimitsFor(t Tier) TierLimits {
	switch t {
	case TierPro:
		return TierLimits{DailyTrades: 50, MaxActiveRequests: 5, MaxPositionSize: decimal.NewFromInt(25000)}
	case TierElite:
		return TierLimits{DailyTrades: 500, MaxActiveRequests: 20, MaxPositionSize: decimal.NewFromInt(250000)}
	default:
		return TierLimits{DailyTrades: 5, MaxActiveRequests: 1, MaxPositionSize: decimal.NewFromInt(1000)}
	}
}

type DailyLimit struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}
