package conflict

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Window is the rolling interval in which concurrent activity on the
	// same symbol counts as potentially conflicting.
	Window time.Duration `envconfig:"CONFLICT_WINDOW" default:"5m"`

	// SymbolPressureLimit is the number of active requests for one symbol
	// beyond which new submissions are steered to alternatives.
	SymbolPressureLimit int `envconfig:"CONFLICT_SYMBOL_PRESSURE_LIMIT" default:"3"`

	// MaxLifetime bounds how long an uncompleted request stays registered.
	MaxLifetime time.Duration `envconfig:"CONFLICT_MAX_LIFETIME" default:"30m"`

	SweepInterval time.Duration `envconfig:"CONFLICT_SWEEP_INTERVAL" default:"1m"`
	MinDelay      time.Duration `envconfig:"CONFLICT_MIN_DELAY" default:"30s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
