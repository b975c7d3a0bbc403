package sentiment

import (
	"math"

	"signalengine/src/feed"
	"signalengine/src/model"
)

// Neutral is the sentiment snapshot used when the feed is unavailable: a
// cycle degrades to it rather than aborting.
func Neutral() model.MarketSentiment {
	return model.MarketSentiment{
		FearGreedIndex: 50,
		WhaleActivity:  model.WhaleModerate,
	}
}

// Compute normalizes a raw upstream payload into a bounded MarketSentiment.
// Malformed upstream data falls back to the field's neutral default and
// never escapes the documented ranges.
func Compute(raw *feed.RawSentiment) model.MarketSentiment {
	if raw == nil {
		return Neutral()
	}

	social := clamp(sanitize(raw.SocialSentiment, 0), -1, 1)
	news := clamp(sanitize(raw.NewsSentiment, 0), -1, 1)

	fearGreed := 0.0
	if raw.HasFearGreed {
		fearGreed = clamp(sanitize(raw.FearGreedIndex, 50), 0, 100)
	} else {
		// Composite proxy: center the social/news consensus around 50.
		fearGreed = clamp(50+25*social+25*news, 0, 100)
	}

	return model.MarketSentiment{
		FearGreedIndex:  fearGreed,
		SocialSentiment: social,
		NewsSentiment:   news,
		WhaleActivity:   normalizeWhale(raw.WhaleActivity),
		FundingRate:     clamp(sanitize(raw.FundingRate, 0), -0.05, 0.05),
		OpenInterest:    math.Max(sanitize(raw.OpenInterest, 0), 0),
	}
}

func normalizeWhale(s string) model.WhaleActivity {
	switch model.WhaleActivity(s) {
	case model.WhaleLow, model.WhaleModerate, model.WhaleHigh:
		return model.WhaleActivity(s)
	default:
		return model.WhaleModerate
	}
}

func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
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
