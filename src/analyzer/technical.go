package analyzer

import (
	"math"

	"signalengine/src/model"
)

// Config holds the indicator periods and thresholds. Defaults match the
// conventional 14-period RSI, 12/26 MACD and 20-period Bollinger setup.
type Config struct {
	RSIPeriod        int
	MACDFastPeriod   int
	MACDSlowPeriod   int
	BollingerPeriod  int
	BollingerStdDev  float64
	SqueezeFraction  float64
	MomentumPeriod   int
	VolatilityPeriod int
	RangePeriod      int
}

func DefaultConfig() Config {
	return Config{
		RSIPeriod:        14,
		MACDFastPeriod:   12,
		MACDSlowPeriod:   26,
		BollingerPeriod:  20,
		BollingerStdDev:  2.0,
		SqueezeFraction:  0.02,
		MomentumPeriod:   10,
		VolatilityPeriod: 20,
		RangePeriod:      20,
	}
}

// ComputeIndicators derives the full indicator snapshot from a price history.
// It is a pure function of its inputs and never fails: short histories degrade
// to neutral defaults instead of erroring out, so one thin feed response can
// not abort an analysis cycle.
func ComputeIndicators(symbol string, currentPrice float64, history []model.PricePoint, cfg Config) model.TechnicalIndicators {
	closes := make([]float64, 0, len(history))
	for _, p := range history {
		if p.Price > 0 {
			closes = append(closes, p.Price)
		}
	}

	middle := sma(closes, cfg.BollingerPeriod)
	if middle <= 0 {
		middle = currentPrice
	}
	sd := stddev(closes, cfg.BollingerPeriod)
	if sd <= 0 {
		// Degenerate window (flat or near-empty history). Keep the strict
		// upper > middle > lower ordering with a token band.
		sd = middle * 0.0005
	}
	upper := middle + cfg.BollingerStdDev*sd
	lower := middle - cfg.BollingerStdDev*sd
	squeeze := middle > 0 && (upper-lower) < cfg.SqueezeFraction*middle

	support, resistance := rangeBounds(closes, cfg.RangePeriod, currentPrice)

	return model.TechnicalIndicators{
		RSI:  rsi(closes, cfg.RSIPeriod),
		MACD: ema(closes, cfg.MACDFastPeriod) - ema(closes, cfg.MACDSlowPeriod),
		MovingAverages: model.MovingAverages{
			MA20:  smaOrPrice(closes, 20, currentPrice),
			MA50:  smaOrPrice(closes, 50, currentPrice),
			MA200: smaOrPrice(closes, 200, currentPrice),
		},
		SupportResistance: model.SupportResistance{
			Support:    support,
			Resistance: resistance,
		},
		BollingerBands: model.BollingerBands{
			Upper:   upper,
			Middle:  middle,
			Lower:   lower,
			Squeeze: squeeze,
		},
		Momentum:   momentum(closes, cfg.MomentumPeriod, currentPrice),
		Volatility: returnsVolatility(closes, cfg.VolatilityPeriod),
	}
}

// rsi is the standard relative-strength computation. With fewer than
// period+1 closes it returns the neutral midpoint 50.
func rsi(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50
	}

	gains := 0.0
	losses := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return clamp(100-(100/(1+rs)), 0, 100)
}

func ema(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < period {
		// Documented approximation: average over the available window.
		return sma(closes, len(closes))
	}

	multiplier := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += closes[i]
	}
	value := sum / float64(period)

	for i := period; i < len(closes); i++ {
		value = (closes[i]-value)*multiplier + value
	}

	return value
}

func sma(closes []float64, period int) float64 {
	if len(closes) == 0 || period <= 0 {
		return 0
	}
	if len(closes) < period {
		period = len(closes)
	}

	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period)
}

func smaOrPrice(closes []float64, period int, fallback float64) float64 {
	if v := sma(closes, period); v > 0 {
		return v
	}
	return fallback
}

func stddev(closes []float64, period int) float64 {
	if len(closes) < 2 {
		return 0
	}
	if len(closes) < period {
		period = len(closes)
	}

	mean := sma(closes, period)
	variance := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		diff := closes[i] - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(period))
}

// momentum is current price over the price N periods ago, 1.0 when the
// history is too short to look back.
func momentum(closes []float64, period int, currentPrice float64) float64 {
	if len(closes) <= period {
		return 1.0
	}
	past := closes[len(closes)-1-period]
	if past <= 0 {
		return 1.0
	}
	price := currentPrice
	if price <= 0 {
		price = closes[len(closes)-1]
	}
	return price / past
}

// returnsVolatility is the standard deviation of simple period returns.
func returnsVolatility(closes []float64, period int) float64 {
	if len(closes) < 3 {
		return 0
	}
	start := len(closes) - period - 1
	if start < 1 {
		start = 1
	}

	var returns []float64
	for i := start; i < len(closes); i++ {
		if closes[i-1] > 0 {
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(returns)))
}

func rangeBounds(closes []float64, period int, currentPrice float64) (support, resistance float64) {
	if len(closes) == 0 {
		// No history at all: bracket the current price.
		return currentPrice * 0.97, currentPrice * 1.03
	}
	if len(closes) < period {
		period = len(closes)
	}

	lowest := closes[len(closes)-period]
	highest := lowest
	for i := len(closes) - period; i < len(closes); i++ {
		if closes[i] < lowest {
			lowest = closes[i]
		}
		if closes[i] > highest {
			highest = closes[i]
		}
	}
	return lowest, highest
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
