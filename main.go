package main

import (
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"signalengine/cmd/backfill"
	"signalengine/cmd/engine"
	"signalengine/src/database"
)

var Version string

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()

	app := cli.NewApp()
	app.Name = "Signal Engine CMD"
	app.Usage = "The signal engine command line interface"

	app.Commands = []cli.Command{
		engineCMD,
		backfillCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	engineCMD = cli.Command{
		Name:        "engine",
		Usage:       "run the signal engine",
		Action:      engineAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the analysis loop, conflict manager and HTTP API`,
	}
	backfillCMD = cli.Command{
		Name:        "backfill",
		Usage:       "backfill OHLCV candles",
		Action:      backfillAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Fetch historical candles from the exchange into the ohlcv table`,
	}
)

func engineAction(_ *cli.Context) error {

	logger.Info("Starting engine CMD")

	e := &engine.Engine{}
	err := e.Start()
	if err != nil {
		logger.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func backfillAction(_ *cli.Context) error {

	logger.Info("Starting backfill CMD")
	if err := database.InitDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	b := &backfill.Backfill{
		Log: logger.WithField("cmd", "backfill"),
		DB:  database.DB,
	}

	err := b.Start()
	if err != nil {
		logger.WithError(err).Error("Starting backfill cmd")
		return err
	}

	return nil
}
