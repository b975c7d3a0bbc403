package backfill

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDBMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func setupMockBinanceServer() *httptest.Server {
	handler := http.NewServeMux()
	handler.HandleFunc("/api/v3/klines", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`[
			[1499040000000, "0.01634790", "0.80000000", "0.01575800", "0.01577100", "148976.11427815", 1499644799999, "2434.19055334", 308, "1756.87402397", "28.46694368", "17928899.62484339"]
		]`))
		if err != nil {
			return
		}
	})
	return httptest.NewServer(handler)
}

func TestBackfill_fetchCandleSeries(t *testing.T) {
	server := setupMockBinanceServer()
	defer server.Close()

	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   server.URL,
	}

	db, _ := setupDBMock(t)
	b := Backfill{
		DB: db,
		Config: &Config{
			Symbol:    "BTC",
			Quote:     "USDT",
			StartDt:   time.Now().Add(-24 * time.Hour),
			EndDt:     time.Now(),
			Timeframe: Timeframe1h,
		},
		exchange: binance.NewWithConfig(apiConfig),
	}

	klines, err := b.fetchCandleSeries()
	require.NoError(t, err)
	require.Len(t, klines, 1, "Should fetch exactly one OHLCV record")
	require.InDelta(t, 0.01634790, klines[0].Open, 0, "Open price should match")
}

func TestBackfill_determineStartPoint(t *testing.T) {
	db, mock := setupDBMock(t)

	latest := time.Now().Add(-time.Hour).Truncate(time.Minute)
	config := &Config{
		Timeframe: Timeframe1h,
		Symbol:    "BTC",
		Quote:     "USDT",
		StartDt:   time.Now().Add(-24 * time.Hour).Truncate(time.Minute),
		EndDt:     time.Now(),
	}

	b := Backfill{
		Log:    logrus.NewEntry(logrus.New()),
		DB:     db,
		Config: config,
	}
	b.exchange = b.newBinanceInstance()

	mock.ExpectQuery(`SELECT MAX\(datetime\)`).WillReturnRows(sqlmock.NewRows([]string{"MAX(datetime)"}).
		AddRow(sql.NullTime{Time: latest, Valid: true}))

	err := b.determineStartPoint()
	require.NoError(t, err)
	require.Equal(t, latest.Add(-time.Hour).String(), config.StartDt.String(), "Start date should resume one interval before the last stored candle")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfill_parseTimeframe(t *testing.T) {
	tests := []struct {
		timeframe   string
		expected    time.Duration
		shouldPanic bool
	}{
		{"1m", time.Minute, false},
		{"1h", time.Hour, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.timeframe, func(t *testing.T) {
			b := Backfill{Config: &Config{Timeframe: tt.timeframe}}

			if tt.shouldPanic {
				require.Panics(t, func() { _ = b.parseTimeframe() })
			} else {
				require.Equal(t, tt.expected, b.parseTimeframe())
			}
		})
	}
}

func TestBackfill_parseTimeframeToGoex(t *testing.T) {
	tests := []struct {
		timeframe   string
		expected    goex.KlinePeriod
		shouldPanic bool
	}{
		{"1m", goex.KLINE_PERIOD_1MIN, false},
		{"1h", goex.KLINE_PERIOD_1H, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.timeframe, func(t *testing.T) {
			b := Backfill{Config: &Config{Timeframe: tt.timeframe}}

			if tt.shouldPanic {
				require.Panics(t, func() { _ = b.parseTimeframeToGoex() })
			} else {
				require.Equal(t, tt.expected, b.parseTimeframeToGoex())
			}
		})
	}
}
