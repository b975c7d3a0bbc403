package model

type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

type SignalAction string

const (
	ActionBuy  SignalAction = "buy"
	ActionSell SignalAction = "sell"
	ActionHold SignalAction = "hold"
)

// ActionForTrend maps a directional call to the order side a signal proposes.
func ActionForTrend(t Trend) SignalAction {
	switch t {
	case TrendBullish:
		return ActionBuy
	case TrendBearish:
		return ActionSell
	default:
		return ActionHold
	}
}

type PricePrediction struct {
	TargetPrice float64 `json:"target_price"`
	Probability float64 `json:"probability"`
	Timeframe   string  `json:"timeframe"`
}

type Recommendation struct {
	Action       SignalAction `json:"action"`
	RiskLevel    RiskLevel    `json:"risk_level"`
	PositionSize float64      `json:"position_size"`
	StopLoss     float64      `json:"stop_loss"`
	TakeProfit   float64      `json:"take_profit"`
}

// AIAnalysis is the aggregate result of one analysis invocation for one
// symbol. It is consumed immediately to build a TradingSignal and not
// retained anywhere.
type AIAnalysis struct {
	Symbol         string              `json:"symbol"`
	CurrentPrice   float64             `json:"current_price"`
	Trend          Trend               `json:"trend"`
	Confidence     float64             `json:"confidence"`
	Prediction     PricePrediction     `json:"prediction"`
	Indicators     TechnicalIndicators `json:"indicators"`
	Sentiment      MarketSentiment     `json:"sentiment"`
	Recommendation Recommendation      `json:"recommendation"`
	Reasoning      string              `json:"reasoning"`
}
