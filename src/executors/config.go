package executors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Symbols       []string      `envconfig:"TRACKED_SYMBOLS" default:"BTCUSDT,ETHUSDT,SOLUSDT"`
	LoopPeriod    time.Duration `envconfig:"LOOP_PERIOD" default:"60s"`
	Workers       int           `envconfig:"CYCLE_WORKERS" default:"4"`
	HistoryWindow int           `envconfig:"HISTORY_WINDOW" default:"250"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
