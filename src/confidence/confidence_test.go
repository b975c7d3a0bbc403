package confidence

import (
	"math"
	"math/rand"
	"testing"

	"signalengine/src/model"
)

func TestScoreComponents(t *testing.T) {
	cfg := DefaultScoreConfig()
	price := 50000.0

	tests := []struct {
		name        string
		ind         model.TechnicalIndicators
		sent        model.MarketSentiment
		probability float64
		want        float64
	}{
		{
			name:        "all neutral stays at base minus low probability",
			ind:         model.TechnicalIndicators{RSI: 50, Momentum: 1.0},
			sent:        model.MarketSentiment{FearGreedIndex: 50},
			probability: 0.5,
			want:        0.4, // base 0.5 - 0.10 low probability
		},
		{
			name:        "RSI extreme adds its bonus",
			ind:         model.TechnicalIndicators{RSI: 75, Momentum: 1.0},
			sent:        model.MarketSentiment{FearGreedIndex: 50},
			probability: 0.7,
			want:        0.65,
		},
		{
			name:        "squeeze subtracts under otherwise neutral inputs",
			ind:         model.TechnicalIndicators{RSI: 50, Momentum: 1.0, BollingerBands: model.BollingerBands{Squeeze: true}},
			sent:        model.MarketSentiment{FearGreedIndex: 50},
			probability: 0.7,
			want:        0.45,
		},
		{
			name:        "extreme sentiment with high whale activity",
			ind:         model.TechnicalIndicators{RSI: 50, Momentum: 1.0},
			sent:        model.MarketSentiment{FearGreedIndex: 12, WhaleActivity: model.WhaleHigh},
			probability: 0.7,
			want:        0.65,
		},
		{
			name:        "strong probability and strong MACD stack",
			ind:         model.TechnicalIndicators{RSI: 50, MACD: 400, Momentum: 1.0},
			sent:        model.MarketSentiment{FearGreedIndex: 50},
			probability: 0.85,
			want:        0.75,
		},
		{
			name:        "everything extreme clamps at the ceiling",
			ind:         model.TechnicalIndicators{RSI: 95, MACD: 2000, Momentum: 1.3, Volatility: 0.005},
			sent:        model.MarketSentiment{FearGreedIndex: 5, WhaleActivity: model.WhaleHigh},
			probability: 0.9,
			want:        1.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.ind, tc.sent, tc.probability, price, cfg)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("score = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestScoreAlwaysBounded(t *testing.T) {
	cfg := DefaultScoreConfig()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		ind := model.TechnicalIndicators{
			RSI:        rng.Float64()*200 - 50,
			MACD:       rng.NormFloat64() * 5000,
			Momentum:   rng.Float64() * 3,
			Volatility: rng.Float64() * 0.5,
			BollingerBands: model.BollingerBands{
				Squeeze: rng.Intn(2) == 0,
			},
		}
		sent := model.MarketSentiment{
			FearGreedIndex: rng.Float64()*200 - 50,
			WhaleActivity:  []model.WhaleActivity{model.WhaleLow, model.WhaleModerate, model.WhaleHigh}[rng.Intn(3)],
		}

		got := Score(ind, sent, rng.Float64()*2-0.5, rng.Float64()*100000, cfg)
		if got < Floor || got > Ceiling {
			t.Fatalf("score %f escaped [%f, %f] on iteration %d", got, Floor, Ceiling, i)
		}
	}
}
