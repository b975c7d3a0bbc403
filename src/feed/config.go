package feed

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Quote            string        `envconfig:"FEED_QUOTE" default:"USDT"`
	KlinePeriod      string        `envconfig:"FEED_KLINE_PERIOD" default:"1m"`
	HTTPTimeout      time.Duration `envconfig:"FEED_HTTP_TIMEOUT" default:"15s"`
	SentimentBaseURL string        `envconfig:"SENTIMENT_BASE_URL" default:"https://api.alternative.me"`
	FundingBaseURL   string        `envconfig:"FUNDING_BASE_URL" default:"https://fapi.binance.com"`
	StreamURL        string        `envconfig:"STREAM_URL" default:"wss://stream.binance.com:9443/ws/!miniTicker@arr"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
