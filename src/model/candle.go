package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one element of the ordered price history a feed returns.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Price  float64   `json:"price"`
	Volume float64   `json:"volume"`
}

// OHLCV is the persisted candle used by the backfill command. The composite
// unique index backs the upsert on (datetime, symbol, timeframe).
type OHLCV struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Datetime  time.Time       `gorm:"not null;uniqueIndex:idx_ohlcv_dt_symbol_tf" json:"datetime"`
	Symbol    string          `gorm:"size:50;not null;uniqueIndex:idx_ohlcv_dt_symbol_tf" json:"symbol"`
	Timeframe string          `gorm:"size:10;not null;uniqueIndex:idx_ohlcv_dt_symbol_tf" json:"timeframe"`
	Open      decimal.Decimal `gorm:"type:decimal(20,8)" json:"open"`
	High      decimal.Decimal `gorm:"type:decimal(20,8)" json:"high"`
	Low       decimal.Decimal `gorm:"type:decimal(20,8)" json:"low"`
	Close     decimal.Decimal `gorm:"type:decimal(20,8)" json:"close"`
	Volume    decimal.Decimal `gorm:"type:decimal(20,8)" json:"volume"`
}

func (OHLCV) TableName() string {
	return "ohlcv"
}

// TradeLogEntry records every accepted trade submission. The daily tier-limit
// check counts these rows, so the insert happens inside the submission path
// and a failed insert rolls the registration back.
type TradeLogEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_trade_log_user_time" json:"user_id"`
	Symbol      string    `gorm:"size:50;not null" json:"symbol"`
	OrderType   OrderType `gorm:"size:10;not null" json:"order_type"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	Price       float64   `gorm:"not null" json:"price"`
	Strategy    string    `gorm:"size:255" json:"strategy"`
	SubmittedAt time.Time `gorm:"not null;index:idx_trade_log_user_time" json:"submitted_at"`
}

func (TradeLogEntry) TableName() string {
	return "trade_log"
}
