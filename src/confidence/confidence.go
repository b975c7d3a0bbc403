package confidence

import (
	"math"

	"signalengine/src/model"
)

// ----- score bounds -----

const (
	// Floor and Ceiling bound every score: confidence never collapses to
	// zero and never claims certainty.
	Floor   = 0.3
	Ceiling = 1.0
)

// ----- config for weights and thresholds -----

type ScoreConfig struct {
	Base float64

	RSIExtremeBonus       float64
	MACDStrengthBonus     float64
	SqueezePenalty        float64
	SentimentExtremeBonus float64
	WhaleHighBonus        float64
	HighProbabilityBonus  float64
	LowProbabilityPenalty float64
	LowVolatilityBonus    float64
	MomentumBonus         float64

	// MACDStrengthFraction scales the |MACD| threshold against price.
	MACDStrengthFraction   float64
	LowVolatilityThreshold float64
	MomentumDeviation      float64
	HighProbability        float64
	LowProbability         float64
}

func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Base:                   0.5,
		RSIExtremeBonus:        0.15,
		MACDStrengthBonus:      0.10,
		SqueezePenalty:         0.05,
		SentimentExtremeBonus:  0.10,
		WhaleHighBonus:         0.05,
		HighProbabilityBonus:   0.15,
		LowProbabilityPenalty:  0.10,
		LowVolatilityBonus:     0.10,
		MomentumBonus:          0.05,
		MACDStrengthFraction:   0.005,
		LowVolatilityThreshold: 0.01,
		MomentumDeviation:      0.02,
		HighProbability:        0.8,
		LowProbability:         0.6,
	}
}

// ----- public API -----

// Score combines technical, sentiment and strategy-probability inputs into a
// deterministic weighted confidence, clamped to [Floor, Ceiling].
func Score(ind model.TechnicalIndicators, sent model.MarketSentiment, probability float64, price float64, cfg ScoreConfig) float64 {
	score := cfg.Base

	if ind.RSI > 70 || ind.RSI < 30 {
		score += cfg.RSIExtremeBonus
	}

	if price > 0 && math.Abs(ind.MACD) > price*cfg.MACDStrengthFraction {
		score += cfg.MACDStrengthBonus
	}

	if ind.BollingerBands.Squeeze {
		score -= cfg.SqueezePenalty
	}

	if sent.FearGreedIndex < 20 || sent.FearGreedIndex > 80 {
		score += cfg.SentimentExtremeBonus
	}
	if sent.WhaleActivity == model.WhaleHigh {
		score += cfg.WhaleHighBonus
	}

	if probability > cfg.HighProbability {
		score += cfg.HighProbabilityBonus
	} else if probability < cfg.LowProbability {
		score -= cfg.LowProbabilityPenalty
	}

	if ind.Volatility > 0 && ind.Volatility < cfg.LowVolatilityThreshold {
		score += cfg.LowVolatilityBonus
	}
	if math.Abs(ind.Momentum-1.0) > cfg.MomentumDeviation {
		score += cfg.MomentumBonus
	}

	if score < Floor {
		return Floor
	}
	if score > Ceiling {
		return Ceiling
	}
	return score
}
