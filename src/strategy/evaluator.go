package strategy

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"signalengine/src/model"
)

// Analysis is the evaluator's directional call for one strategy profile.
// Reasoning is always non-empty; it feeds the signal's analysis summary.
type Analysis struct {
	Trend       model.Trend
	TargetPrice float64
	Probability float64
	Reasoning   string
	Timeframe   string
}

type Evaluator struct {
	logger *logrus.Entry
}

func NewEvaluator(logger *logrus.Entry) *Evaluator {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Evaluator{logger: logger}
}

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	// MACD sign below this fraction of price is treated as flat.
	macdFlatFraction = 0.0005
)

// Evaluate combines the indicator and sentiment snapshots into a directional
// call for the strategy's horizon. Probability scales with how strongly the
// underlying inputs agree, never a fixed constant.
func (e *Evaluator) Evaluate(strat *model.Strategy, ind model.TechnicalIndicators, sent model.MarketSentiment, price float64) Analysis {
	var a Analysis

	switch strat.Type {
	case model.StrategyScalping:
		a = e.evaluateScalping(ind, price)
	case model.StrategyShortTerm:
		a = e.evaluateShortTerm(ind, price)
	case model.StrategyMediumTerm:
		a = e.evaluateMediumTerm(ind, price)
	case model.StrategyLongTerm:
		a = e.evaluateLongTerm(ind, sent, price)
	default:
		a = Analysis{
			Trend:       model.TrendNeutral,
			TargetPrice: price,
			Probability: 0.5,
			Reasoning:   fmt.Sprintf("unknown strategy type %q, holding", strat.Type),
			Timeframe:   "unspecified",
		}
	}

	a.Probability = clamp(a.Probability, 0.5, 0.95)

	e.logger.WithFields(logrus.Fields{
		"strategy_id": strat.ID,
		"type":        strat.Type,
		"trend":       a.Trend,
		"probability": a.Probability,
	}).Debug("Strategy evaluated")

	return a
}

func (e *Evaluator) evaluateScalping(ind model.TechnicalIndicators, price float64) Analysis {
	// Band widens from 1% toward 2% the deeper RSI sits in its extreme.
	depth := math.Min(1, math.Abs(ind.RSI-50)/50)
	band := 0.01 + 0.01*depth

	switch {
	case ind.RSI > rsiOverbought:
		return Analysis{
			Trend:       model.TrendBearish,
			TargetPrice: price * (1 - band),
			Probability: 0.55 + 0.3*depth + agreementBonus(ind.Momentum < 1),
			Reasoning:   fmt.Sprintf("RSI %.1f overbought, fading the move toward %.0f%% below price", ind.RSI, band*100),
			Timeframe:   "minutes",
		}
	case ind.RSI < rsiOversold:
		return Analysis{
			Trend:       model.TrendBullish,
			TargetPrice: price * (1 + band),
			Probability: 0.55 + 0.3*depth + agreementBonus(ind.Momentum > 1),
			Reasoning:   fmt.Sprintf("RSI %.1f oversold, buying the dip toward %.0f%% above price", ind.RSI, band*100),
			Timeframe:   "minutes",
		}
	default:
		return Analysis{
			Trend:       model.TrendNeutral,
			TargetPrice: price,
			Probability: 0.5,
			Reasoning:   fmt.Sprintf("RSI %.1f inside the neutral zone, no scalp edge", ind.RSI),
			Timeframe:   "minutes",
		}
	}
}

func (e *Evaluator) evaluateShortTerm(ind model.TechnicalIndicators, price float64) Analysis {
	// An extreme RSI outranks the MACD sign on this horizon: a stretched
	// oscillator at intraday scale mean-reverts before the trend resumes.
	if ind.RSI > rsiOverbought || ind.RSI < rsiOversold {
		a := e.evaluateScalping(ind, price)
		a.Timeframe = "hours"
		a.Reasoning = fmt.Sprintf("%s; MACD %.2f set aside while RSI is stretched", a.Reasoning, ind.MACD)
		return a
	}

	strength := 0.0
	if price > 0 {
		strength = math.Min(1, math.Abs(ind.MACD)/(price*0.01))
	}
	band := 0.025 + 0.025*strength

	flat := price * macdFlatFraction
	switch {
	case ind.MACD > flat:
		return Analysis{
			Trend:       model.TrendBullish,
			TargetPrice: price * (1 + band),
			Probability: 0.55 + 0.25*strength + agreementBonus(ind.Momentum > 1),
			Reasoning:   fmt.Sprintf("MACD %.2f positive, short-term momentum up with target %.1f%% above price", ind.MACD, band*100),
			Timeframe:   "hours",
		}
	case ind.MACD < -flat:
		return Analysis{
			Trend:       model.TrendBearish,
			TargetPrice: price * (1 - band),
			Probability: 0.55 + 0.25*strength + agreementBonus(ind.Momentum < 1),
			Reasoning:   fmt.Sprintf("MACD %.2f negative, short-term momentum down with target %.1f%% below price", ind.MACD, band*100),
			Timeframe:   "hours",
		}
	default:
		return Analysis{
			Trend:       model.TrendNeutral,
			TargetPrice: price,
			Probability: 0.5,
			Reasoning:   fmt.Sprintf("MACD %.2f flat relative to price, no directional edge", ind.MACD),
			Timeframe:   "hours",
		}
	}
}

func (e *Evaluator) evaluateMediumTerm(ind model.TechnicalIndicators, price float64) Analysis {
	ma20 := ind.MovingAverages.MA20
	ma50 := ind.MovingAverages.MA50

	// Alignment strength: how far the averages fan out relative to price.
	spread := 0.0
	if price > 0 {
		spread = math.Min(1, math.Abs(ma20-ma50)/(price*0.05))
	}
	band := 0.05 + 0.05*spread

	switch {
	case price > ma20 && ma20 > ma50:
		return Analysis{
			Trend:       model.TrendBullish,
			TargetPrice: price * (1 + band),
			Probability: 0.6 + 0.25*spread,
			Reasoning:   fmt.Sprintf("price above MA20 %.2f above MA50 %.2f, aligned uptrend", ma20, ma50),
			Timeframe:   "days",
		}
	case price < ma20 && ma20 < ma50:
		return Analysis{
			Trend:       model.TrendBearish,
			TargetPrice: price * (1 - band),
			Probability: 0.6 + 0.25*spread,
			Reasoning:   fmt.Sprintf("price below MA20 %.2f below MA50 %.2f, aligned downtrend", ma20, ma50),
			Timeframe:   "days",
		}
	default:
		return Analysis{
			Trend:       model.TrendNeutral,
			TargetPrice: price,
			Probability: 0.5,
			Reasoning:   fmt.Sprintf("moving averages crossed (MA20 %.2f, MA50 %.2f), trend unresolved", ma20, ma50),
			Timeframe:   "days",
		}
	}
}

func (e *Evaluator) evaluateLongTerm(ind model.TechnicalIndicators, sent model.MarketSentiment, price float64) Analysis {
	ma200 := ind.MovingAverages.MA200

	score := 0
	if price > ma200 {
		score++
	} else if price < ma200 {
		score--
	}

	// Contrarian sentiment bias: deep fear favors accumulation, euphoria
	// favors distribution.
	if sent.FearGreedIndex < 30 {
		score++
	} else if sent.FearGreedIndex > 70 {
		score--
	}

	// Skew the 10-20% band by how extreme sentiment is.
	skew := math.Abs(sent.FearGreedIndex-50) / 50
	band := 0.10 + 0.10*skew

	switch {
	case score > 0:
		return Analysis{
			Trend:       model.TrendBullish,
			TargetPrice: price * (1 + band),
			Probability: 0.55 + 0.15*skew + agreementBonus(price > ma200),
			Reasoning:   fmt.Sprintf("price vs MA200 %.2f with fear/greed %.0f favors accumulation", ma200, sent.FearGreedIndex),
			Timeframe:   "weeks",
		}
	case score < 0:
		return Analysis{
			Trend:       model.TrendBearish,
			TargetPrice: price * (1 - band),
			Probability: 0.55 + 0.15*skew + agreementBonus(price < ma200),
			Reasoning:   fmt.Sprintf("price vs MA200 %.2f with fear/greed %.0f favors distribution", ma200, sent.FearGreedIndex),
			Timeframe:   "weeks",
		}
	default:
		return Analysis{
			Trend:       model.TrendNeutral,
			TargetPrice: price,
			Probability: 0.5,
			Reasoning:   fmt.Sprintf("trend and sentiment offset each other (MA200 %.2f, fear/greed %.0f)", ma200, sent.FearGreedIndex),
			Timeframe:   "weeks",
		}
	}
}

func agreementBonus(agrees bool) float64 {
	if agrees {
		return 0.05
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
