package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signalengine/src/database"
	"signalengine/src/model"
)

// SignalRepository persists generated trading signals. Signal expiry is
// implicit: reads filter on expires_at, no sweep job touches the rows.
type SignalRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSignalRepository() *SignalRepository {
	return &SignalRepository{db: database.DB, now: time.Now}
}

// WithDB overrides the underlying *gorm.DB instance. Useful for tests or
// custom sessions/transactions.
func (r *SignalRepository) WithDB(db *gorm.DB) *SignalRepository {
	return &SignalRepository{db: db, now: r.nowFunc()}
}

func (r *SignalRepository) nowFunc() func() time.Time {
	if r.now == nil {
		return time.Now
	}
	return r.now
}

func (r *SignalRepository) Save(ctx context.Context, signal *model.TradingSignal) error {
	logger.WithFields(map[string]interface{}{
		"repo":   "SignalRepository",
		"op":     "Save",
		"signal": signal.ID,
		"symbol": signal.Symbol,
	}).Debug("Persisting trading signal")

	return r.db.WithContext(ctx).Create(signal).Error
}

// ListActive returns unexpired active signals for a symbol, newest first.
func (r *SignalRepository) ListActive(ctx context.Context, symbol string) ([]model.TradingSignal, error) {
	var signals []model.TradingSignal

	err := r.db.WithContext(ctx).
		Where("symbol = ? AND is_active = ? AND expires_at > ?", symbol, true, r.nowFunc()()).
		Order("created_at DESC").
		Find(&signals).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "SignalRepository",
			"op":     "ListActive",
			"symbol": symbol,
		}).WithError(err).Error("Failed to list active signals")
		return nil, err
	}

	return signals, nil
}

// Deactivate flips a signal inactive ahead of its natural expiry.
func (r *SignalRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.TradingSignal{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
