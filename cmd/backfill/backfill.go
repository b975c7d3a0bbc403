package backfill

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"

	"signalengine/src/model"
)

const (
	Timeframe1m = "1m"
	Timeframe1h = "1h"
)

// Backfill pulls historical candles from the exchange and upserts them into
// the ohlcv table. The table is a standalone archive for offline inspection
// and replay; the live analysis loop fetches its history from the exchange
// directly.
type Backfill struct {
	Log      *logger.Entry
	DB       *gorm.DB
	Config   *Config
	exchange goex.API
}

func (b *Backfill) Start() error {
	b.Config = GetConfig()

	b.exchange = b.newBinanceInstance()

	if b.Config.AutoMode {
		if err := b.determineStartPoint(); err != nil {
			return err
		}
	}

	return b.fetchAndSave()
}

func (*Backfill) newBinanceInstance() *binance.Binance {
	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}
	return binance.NewWithConfig(apiConfig)
}

func (b *Backfill) fetchAndSave() error {
	series, err := b.fetchCandleSeries()
	if err != nil {
		return err
	}

	for i := range series {
		result := series[i]

		candle := &model.OHLCV{
			Datetime:  time.Unix(result.Timestamp, 0).UTC(),
			Symbol:    b.Config.Symbol + b.Config.Quote,
			Timeframe: b.Config.Timeframe,
			Open:      decimal.NewFromFloat(result.Open),
			High:      decimal.NewFromFloat(result.High),
			Low:       decimal.NewFromFloat(result.Low),
			Close:     decimal.NewFromFloat(result.Close),
			Volume:    decimal.NewFromFloat(result.Vol),
		}

		// Upsert: on conflict on (datetime, symbol, timeframe) do update
		if err := b.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "datetime"}, {Name: "symbol"}, {Name: "timeframe"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
		}).Create(candle).Error; err != nil {
			b.Log.WithError(err).Error("fetchAndSave, Create, ")
			return err
		}
	}

	b.Log.WithFields(logger.Fields{
		"Symbol":    b.Config.Symbol + b.Config.Quote,
		"Timeframe": b.Config.Timeframe,
		"Candles":   len(series),
	}).Info("OHLCV data inserted or updated in database")

	return nil
}

func (b *Backfill) determineStartPoint() error {
	b.Config.StartDt = b.Config.StartDt.Add(-b.parseTimeframe())
	b.Config.EndDt = time.Now()

	var latestTime *sql.NullTime
	result := b.DB.Model(&model.OHLCV{}).
		Select("MAX(datetime)").
		Where("symbol = ? AND timeframe = ?", b.Config.Symbol+b.Config.Quote, b.Config.Timeframe).
		Take(&latestTime)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			b.Log.
				WithField("StartDt", b.Config.StartDt.String()).
				Info("no records found, start from the configured StartDt")
		} else {
			b.Log.
				WithError(result.Error).
				Error("Failed to query latest datetime")
			return result.Error
		}
	}

	if latestTime != nil && latestTime.Valid {
		// Resume one interval before the last recorded candle so the
		// still-open candle at the boundary gets refreshed.
		b.Config.StartDt = latestTime.Time.Add(-b.parseTimeframe())
		b.Log.
			WithField("StartDt", b.Config.StartDt.String()).
			WithField("EndDt", b.Config.EndDt.String()).
			Info("determineStartPoint resuming from latest stored candle")
	}

	return nil
}

func (b *Backfill) fetchCandleSeries() ([]goex.Kline, error) {
	targetSymbol := goex.NewCurrencyPair(
		goex.Currency{Symbol: b.Config.Symbol},
		goex.Currency{Symbol: b.Config.Quote},
	)

	const millis = 1000
	klines, err := b.exchange.GetKlineRecords(
		targetSymbol,
		b.parseTimeframeToGoex(),
		b.Config.Limit,
		goex.OptionalParameter{}.
			Optional("startTime", b.Config.StartDt.Unix()*millis).
			Optional("endTime", b.Config.EndDt.Unix()*millis),
	)
	if err != nil {
		return nil, err
	}

	return klines, nil
}

func (b *Backfill) parseTimeframe() time.Duration {
	switch b.Config.Timeframe {
	case Timeframe1m:
		return time.Minute
	case Timeframe1h:
		return time.Hour
	default:
		panic("invalid TIMEFRAME env var")
	}
}

func (b *Backfill) parseTimeframeToGoex() goex.KlinePeriod {
	switch b.Config.Timeframe {
	case Timeframe1m:
		return goex.KLINE_PERIOD_1MIN
	case Timeframe1h:
		return goex.KLINE_PERIOD_1H
	default:
		panic("invalid TIMEFRAME env var")
	}
}
