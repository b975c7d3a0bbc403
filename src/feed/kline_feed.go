package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"

	"signalengine/src/model"
)

// KlineFeed fetches price history as exchange klines. The HTTP client carries
// a hard timeout so a stalled exchange call surfaces as a recoverable error
// for the requesting cycle instead of hanging it.
type KlineFeed struct {
	exchange goex.API
	quote    string
	period   goex.KlinePeriod
}

func NewKlineFeed(cfg Config) *KlineFeed {
	apiConfig := &goex.APIConfig{
		HttpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}

	return &KlineFeed{
		exchange: binance.NewWithConfig(apiConfig),
		quote:    cfg.Quote,
		period:   parseKlinePeriod(cfg.KlinePeriod),
	}
}

func (f *KlineFeed) PriceHistory(_ context.Context, symbol string, window int) ([]model.PricePoint, error) {
	base := strings.TrimSuffix(symbol, f.quote)
	if base == "" || base == symbol {
		return nil, fmt.Errorf("symbol %q does not match quote currency %s", symbol, f.quote)
	}

	pair := goex.NewCurrencyPair(goex.Currency{Symbol: base}, goex.Currency{Symbol: f.quote})

	klines, err := f.exchange.GetKlineRecords(pair, f.period, window)
	if err != nil {
		return nil, fmt.Errorf("fetch klines for %s: %w", symbol, err)
	}

	points := make([]model.PricePoint, 0, len(klines))
	for i := range klines {
		k := klines[i]
		points = append(points, model.PricePoint{
			Time:   time.Unix(k.Timestamp, 0).UTC(),
			Price:  k.Close,
			Volume: k.Vol,
		})
	}

	logger.WithFields(logger.Fields{
		"symbol": symbol,
		"points": len(points),
	}).Debug("Fetched price history")

	return points, nil
}

func parseKlinePeriod(s string) goex.KlinePeriod {
	switch s {
	case "1m":
		return goex.KLINE_PERIOD_1MIN
	case "5m":
		return goex.KLINE_PERIOD_5MIN
	case "15m":
		return goex.KLINE_PERIOD_15MIN
	case "1h":
		return goex.KLINE_PERIOD_1H
	case "1d":
		return goex.KLINE_PERIOD_1DAY
	default:
		panic(fmt.Sprintf("invalid FEED_KLINE_PERIOD %q", s))
	}
}
