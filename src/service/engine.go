package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"signalengine/src/analyzer"
	"signalengine/src/confidence"
	"signalengine/src/conflict"
	"signalengine/src/feed"
	"signalengine/src/model"
	"signalengine/src/notifier"
	"signalengine/src/sentiment"
	"signalengine/src/signalgen"
	"signalengine/src/strategy"
)

type StrategyStore interface {
	ActiveForSymbol(ctx context.Context, symbol string) ([]model.Strategy, error)
}

type TradeLogStore interface {
	LogSubmitted(ctx context.Context, entry *model.TradeLogEntry) error
}

// SubmitResult is the outcome of a trade submission. Accepted and Conflict
// are mutually exclusive; AdjustedRequest is set when the recommended action
// is a size reduction.
type SubmitResult struct {
	Accepted        bool                `json:"accepted"`
	Conflict        *model.Conflict     `json:"conflict,omitempty"`
	AdjustedRequest *model.TradeRequest `json:"adjusted_request,omitempty"`
}

// Engine is the single service instance wiring analyzers, the signal
// generator and the conflict manager together. It is constructed once at
// process startup and handed to every caller; there is no hidden global.
type Engine struct {
	prices     feed.PriceFeed
	sentiments feed.SentimentFeed
	lastPrices feed.LastPriceSource

	evaluator  *strategy.Evaluator
	generator  *signalgen.Generator
	conflicts  *conflict.Manager
	strategies StrategyStore
	tradeLog   TradeLogStore
	notify     notifier.Notifier

	analyzerCfg analyzer.Config
	scoreCfg    confidence.ScoreConfig
	window      int

	logger *logrus.Entry
	now    func() time.Time
}

type EngineParams struct {
	Prices     feed.PriceFeed
	Sentiments feed.SentimentFeed
	LastPrices feed.LastPriceSource
	Evaluator  *strategy.Evaluator
	Generator  *signalgen.Generator
	Conflicts  *conflict.Manager
	Strategies StrategyStore
	TradeLog   TradeLogStore
	Notifier   notifier.Notifier

	// HistoryWindow is the number of price points requested per cycle.
	HistoryWindow int

	Logger *logrus.Entry
}

func NewEngine(p EngineParams) *Engine {
	if p.Logger == nil {
		p.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if p.Notifier == nil {
		p.Notifier = notifier.Noop{}
	}
	if p.HistoryWindow <= 0 {
		p.HistoryWindow = 250
	}

	return &Engine{
		prices:      p.Prices,
		sentiments:  p.Sentiments,
		lastPrices:  p.LastPrices,
		evaluator:   p.Evaluator,
		generator:   p.Generator,
		conflicts:   p.Conflicts,
		strategies:  p.Strategies,
		tradeLog:    p.TradeLog,
		notify:      p.Notifier,
		analyzerCfg: analyzer.DefaultConfig(),
		scoreCfg:    confidence.DefaultScoreConfig(),
		window:      p.HistoryWindow,
		logger:      p.Logger,
		now:         time.Now,
	}
}

// defaultProfile is the strategy stand-in used when a cycle is run for a
// symbol rather than for a specific strategy.
var defaultProfile = model.Strategy{
	Type:            model.StrategyMediumTerm,
	RiskLevel:       model.RiskNeutral,
	StopLossPercent: 5,
}

// RunAnalysisCycle produces the full analysis for a symbol using the default
// profile. The result is consumed immediately; nothing is persisted.
func (e *Engine) RunAnalysisCycle(ctx context.Context, symbol string) (*model.AIAnalysis, error) {
	profile := defaultProfile
	return e.analyze(ctx, symbol, &profile)
}

func (e *Engine) analyze(ctx context.Context, symbol string, strat *model.Strategy) (*model.AIAnalysis, error) {
	history, err := e.prices.PriceHistory(ctx, symbol, e.window)
	if err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Warn("Price history unavailable for cycle")
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, symbol)
	}

	price, ok := e.lastPrice(symbol, history)
	if !ok {
		return nil, fmt.Errorf("%w: no price for %s", ErrDataUnavailable, symbol)
	}

	// Sentiment degrades to neutral; one bad feed never aborts the cycle.
	var ms model.MarketSentiment
	raw, err := e.sentiments.RawSentiment(ctx, symbol)
	if err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Warn("Sentiment feed unavailable, using neutral defaults")
		ms = sentiment.Neutral()
	} else {
		ms = sentiment.Compute(raw)
	}

	ind := analyzer.ComputeIndicators(symbol, price, history, e.analyzerCfg)
	eval := e.evaluator.Evaluate(strat, ind, ms, price)
	score := confidence.Score(ind, ms, eval.Probability, price, e.scoreCfg)

	action := model.ActionForTrend(eval.Trend)
	stopLoss := price * (1 - strat.StopLossPercent/100)
	if action == model.ActionSell {
		stopLoss = price * (1 + strat.StopLossPercent/100)
	}

	return &model.AIAnalysis{
		Symbol:       symbol,
		CurrentPrice: price,
		Trend:        eval.Trend,
		Confidence:   score,
		Prediction: model.PricePrediction{
			TargetPrice: eval.TargetPrice,
			Probability: eval.Probability,
			Timeframe:   eval.Timeframe,
		},
		Indicators: ind,
		Sentiment:  ms,
		Recommendation: model.Recommendation{
			Action:       action,
			RiskLevel:    strat.RiskLevel,
			PositionSize: strat.MaxPositionSize * strat.RiskLevel.PositionSizeFactor(),
			StopLoss:     stopLoss,
			TakeProfit:   eval.TargetPrice,
		},
		Reasoning: eval.Reasoning,
	}, nil
}

func (e *Engine) lastPrice(symbol string, history []model.PricePoint) (float64, bool) {
	if e.lastPrices != nil {
		if price, ok := e.lastPrices.LastPrice(symbol); ok {
			return price, true
		}
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Price > 0 {
			return history[i].Price, true
		}
	}
	return 0, false
}

// GenerateSignalForStrategy runs the pipeline for one strategy and emits a
// signal when confidence clears its threshold. Returns (nil, nil) when the
// threshold is not met.
func (e *Engine) GenerateSignalForStrategy(ctx context.Context, strat *model.Strategy) (*model.TradingSignal, error) {
	analysis, err := e.analyze(ctx, strat.Symbol, strat)
	if err != nil {
		return nil, err
	}

	signal, err := e.generator.Generate(ctx, analysis, strat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if signal != nil {
		e.notify.SignalGenerated(signal)
	}
	return signal, nil
}

// RunSymbolCycle evaluates every active strategy watching a symbol. Failures
// on one strategy are logged and do not stop the rest.
func (e *Engine) RunSymbolCycle(ctx context.Context, symbol string) {
	strategies, err := e.strategies.ActiveForSymbol(ctx, symbol)
	if err != nil {
		e.logger.WithError(err).WithField("symbol", symbol).Error("Failed to load strategies for cycle")
		return
	}

	for i := range strategies {
		strat := strategies[i]
		if _, err := e.GenerateSignalForStrategy(ctx, &strat); err != nil {
			e.logger.WithError(err).WithFields(logrus.Fields{
				"symbol":      symbol,
				"strategy_id": strat.ID,
			}).Warn("Strategy cycle failed")
		}
	}
}

// SubmitTradeRequest registers a trade attempt through the conflict manager.
// The registration and the trade-log insert are treated as one unit: if the
// insert fails, the registration is rolled back and the caller sees a failed
// submission, never a silently half-registered request.
func (e *Engine) SubmitTradeRequest(ctx context.Context, req *model.TradeRequest) (*SubmitResult, error) {
	c, err := e.conflicts.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	if c != nil {
		result := &SubmitResult{Accepted: false, Conflict: c}
		if c.RecommendedAction == model.ActionReduceSize && c.SizeFactor != nil {
			adjusted := *req
			adjusted.Quantity, _ = decimal.NewFromFloat(req.Quantity).Mul(*c.SizeFactor).Float64()
			result.AdjustedRequest = &adjusted
		}
		e.notify.ConflictDetected(req, c)
		return result, nil
	}

	entry := &model.TradeLogEntry{
		UserID:      req.UserID,
		Symbol:      req.Symbol,
		OrderType:   req.OrderType,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Strategy:    req.Strategy,
		SubmittedAt: req.Timestamp,
	}
	if err := e.tradeLog.LogSubmitted(ctx, entry); err != nil {
		e.conflicts.Complete(req.UserID, req.Symbol)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &SubmitResult{Accepted: true}, nil
}

// CompleteTradeRequest frees the (user, symbol) pair for new submissions.
func (e *Engine) CompleteTradeRequest(userID uint, symbol string) bool {
	return e.conflicts.Complete(userID, symbol)
}

// CheckDailyLimit reports the user's remaining daily allowance for a tier.
func (e *Engine) CheckDailyLimit(ctx context.Context, userID uint, tier model.Tier) (model.DailyLimit, error) {
	return e.conflicts.CheckDailyLimit(ctx, userID, tier)
}
