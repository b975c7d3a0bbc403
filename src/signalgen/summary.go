package signalgen

import (
	"fmt"

	"signalengine/src/model"
)

// Summary renders the human-readable reduction of an analysis. It is a pure
// function of its input: the same analysis always yields the same text, so
// downstream consumers can snapshot it.
func Summary(a *model.AIAnalysis) string {
	return fmt.Sprintf(
		"%s %s (%.0f%% confidence): RSI %.1f, MACD %.2f, target %.2f within %s. %s",
		a.Symbol,
		a.Trend,
		a.Confidence*100,
		a.Indicators.RSI,
		a.Indicators.MACD,
		a.Prediction.TargetPrice,
		a.Prediction.Timeframe,
		a.Reasoning,
	)
}
