package executors

import (
	"context"
	"errors"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"signalengine/src/service"
)

// StartLoop runs the periodic analysis cycles. Each (symbol) run is an
// independent unit of work; a bounded worker pool fans the tracked symbols
// out per tick and the tick waits for its own batch, so slow cycles never
// stack up unbounded.
func StartLoop(ctx context.Context, engine *service.Engine, config Config) error {
	if len(config.Symbols) == 0 {
		return errors.New("no tracked symbols configured")
	}
	if config.Workers <= 0 {
		return errors.New("cycle workers must be positive")
	}

	logger.WithFields(logger.Fields{
		"symbols": config.Symbols,
		"period":  config.LoopPeriod,
		"workers": config.Workers,
	}).Info("Starting analysis loop")

	ticker := time.NewTicker(config.LoopPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Analysis loop stopped")
			return nil
		case <-ticker.C:
			runTick(ctx, engine, config)
		}
	}
}

func runTick(ctx context.Context, engine *service.Engine, config Config) {
	sem := make(chan struct{}, config.Workers)
	var wg sync.WaitGroup

	for _, symbol := range config.Symbols {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			engine.RunSymbolCycle(ctx, symbol)
		}(symbol)
	}

	wg.Wait()
}
