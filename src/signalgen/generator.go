package signalgen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"signalengine/src/model"
)

type SignalStore interface {
	Save(ctx context.Context, signal *model.TradingSignal) error
}

type Generator struct {
	store  SignalStore
	logger *logrus.Entry
	now    func() time.Time
}

func NewGenerator(store SignalStore, logger *logrus.Entry) *Generator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Generator{store: store, logger: logger, now: time.Now}
}

// ExpiryFor is the fixed signal lifetime per strategy horizon.
func ExpiryFor(t model.StrategyType) time.Duration {
	switch t {
	case model.StrategyScalping:
		return 15 * time.Minute
	case model.StrategyShortTerm:
		return 240 * time.Minute
	case model.StrategyMediumTerm:
		return 1440 * time.Minute
	case model.StrategyLongTerm:
		return 10080 * time.Minute
	default:
		return 240 * time.Minute
	}
}

// Generate turns an analysis into a persisted trading signal, or (nil, nil)
// when confidence does not clear the strategy's threshold. ExpiresAt is set
// once here and never mutated afterwards.
func (g *Generator) Generate(ctx context.Context, analysis *model.AIAnalysis, strat *model.Strategy) (*model.TradingSignal, error) {
	if analysis == nil || strat == nil {
		return nil, fmt.Errorf("analysis and strategy are required")
	}

	if analysis.Confidence < strat.MinConfidenceScore {
		g.logger.WithFields(logrus.Fields{
			"strategy_id": strat.ID,
			"symbol":      analysis.Symbol,
			"confidence":  analysis.Confidence,
			"threshold":   strat.MinConfidenceScore,
		}).Debug("Confidence below strategy threshold, no signal")
		return nil, nil
	}

	createdAt := g.now()
	signal := &model.TradingSignal{
		ID:              uuid.NewString(),
		Symbol:          analysis.Symbol,
		SignalType:      model.ActionForTrend(analysis.Trend),
		ConfidenceScore: analysis.Confidence,
		PriceTarget:     analysis.Prediction.TargetPrice,
		StopLoss:        analysis.Recommendation.StopLoss,
		StrategyType:    strat.Type,
		Indicators:      analysis.Indicators,
		MarketSummary:   analysis.Sentiment,
		AnalysisSummary: Summary(analysis),
		IsActive:        true,
		ExpiresAt:       createdAt.Add(ExpiryFor(strat.Type)),
		CreatedAt:       createdAt,
	}

	if err := g.store.Save(ctx, signal); err != nil {
		return nil, fmt.Errorf("save signal: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"signal":     signal.ID,
		"symbol":     signal.Symbol,
		"type":       signal.SignalType,
		"confidence": signal.ConfidenceScore,
		"expires_at": signal.ExpiresAt,
	}).Info("Trading signal generated")

	return signal, nil
}
