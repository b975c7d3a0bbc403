package engine

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"signalengine/src/conflict"
	"signalengine/src/database"
	"signalengine/src/executors"
	"signalengine/src/feed"
	"signalengine/src/notifier"
	"signalengine/src/repository"
	"signalengine/src/server"
	"signalengine/src/service"
	"signalengine/src/signalgen"
	"signalengine/src/strategy"
)

type Engine struct{}

// Start wires the whole engine together: feeds, analyzers, conflict manager
// and the HTTP API. The service object is built exactly once here and handed
// to every consumer.
func (e *Engine) Start() error {
	config := GetConfig()
	loopConfig := executors.GetConfig()
	feedConfig := feed.GetConfig()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := database.InitDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	signalRepo := repository.NewSignalRepository()
	strategyRepo := repository.NewStrategyRepository()
	tradeLogRepo := repository.NewTradeLogRepository()

	var notify notifier.Notifier = notifier.Noop{}
	if config.WebhookURL != "" {
		notify = notifier.NewWebhookNotifier(config.WebhookURL, config.WebhookTimeout)
	}

	manager := conflict.NewManager(
		conflict.NewRegistry(),
		tradeLogRepo,
		conflict.GetConfig(),
		logrus.WithField("component", "conflict"),
	)
	go manager.RunSweeper(ctx)

	var lastPrices feed.LastPriceSource
	if config.StreamEnabled {
		stream := feed.NewPriceStream(feedConfig)
		go stream.Run(ctx)
		lastPrices = stream
	}

	engine := service.NewEngine(service.EngineParams{
		Prices:        feed.NewKlineFeed(feedConfig),
		Sentiments:    feed.NewSentimentClient(feedConfig),
		LastPrices:    lastPrices,
		Evaluator:     strategy.NewEvaluator(logrus.WithField("component", "evaluator")),
		Generator:     signalgen.NewGenerator(signalRepo, logrus.WithField("component", "signalgen")),
		Conflicts:     manager,
		Strategies:    strategyRepo,
		TradeLog:      tradeLogRepo,
		Notifier:      notify,
		HistoryWindow: loopConfig.HistoryWindow,
		Logger:        logrus.WithField("component", "engine"),
	})

	go func() {
		if err := executors.StartLoop(ctx, engine, loopConfig); err != nil {
			logrus.WithError(err).Error("Analysis loop exited")
			stop()
		}
	}()

	server.StartServer(ctx, config.Port, engine, signalRepo)
	return nil
}
