package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signalengine/src/database"
	"signalengine/src/model"
)

// TradeLogRepository records accepted trade submissions and answers the
// tier-limit count queries.
type TradeLogRepository struct {
	db *gorm.DB
}

func NewTradeLogRepository() *TradeLogRepository {
	return &TradeLogRepository{db: database.DB}
}

func (r *TradeLogRepository) WithDB(db *gorm.DB) *TradeLogRepository {
	return &TradeLogRepository{db: db}
}

func (r *TradeLogRepository) LogSubmitted(ctx context.Context, entry *model.TradeLogEntry) error {
	logger.WithFields(map[string]interface{}{
		"repo":   "TradeLogRepository",
		"op":     "LogSubmitted",
		"user":   entry.UserID,
		"symbol": entry.Symbol,
	}).Debug("Recording trade submission")

	return r.db.WithContext(ctx).Create(entry).Error
}

// CountSince counts a user's submissions at or after the cutoff.
func (r *TradeLogRepository) CountSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.TradeLogEntry{}).
		Where("user_id = ? AND submitted_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradeLogRepository",
			"op":   "CountSince",
			"user": userID,
		}).WithError(err).Error("Failed to count trade submissions")
		return 0, err
	}

	return count, nil
}
