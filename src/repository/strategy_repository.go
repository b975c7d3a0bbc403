package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signalengine/src/database"
	"signalengine/src/model"
)

type StrategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository() *StrategyRepository {
	return &StrategyRepository{db: database.DB}
}

func (r *StrategyRepository) WithDB(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

func (r *StrategyRepository) Save(ctx context.Context, strat *model.Strategy) error {
	return r.db.WithContext(ctx).Save(strat).Error
}

// FindByID fetches a strategy by primary ID. Returns (nil, nil) if not found.
func (r *StrategyRepository) FindByID(ctx context.Context, id uint) (*model.Strategy, error) {
	var strat model.Strategy

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&strat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo": "StrategyRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch strategy")
		return nil, err
	}

	return &strat, nil
}

// ActiveForSymbol lists every active strategy watching a symbol, across users.
func (r *StrategyRepository) ActiveForSymbol(ctx context.Context, symbol string) ([]model.Strategy, error) {
	var strategies []model.Strategy

	err := r.db.WithContext(ctx).
		Where("symbol = ? AND active = ?", symbol, true).
		Order("id ASC").
		Find(&strategies).Error
	if err != nil {
		return nil, err
	}

	return strategies, nil
}

// ActiveForUser lists a user's active strategies.
func (r *StrategyRepository) ActiveForUser(ctx context.Context, userID uint) ([]model.Strategy, error) {
	var strategies []model.Strategy

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id ASC").
		Find(&strategies).Error
	if err != nil {
		return nil, err
	}

	return strategies, nil
}

// Deactivate soft-deletes a strategy. The row stays for audit and ownership
// of already-emitted signals.
func (r *StrategyRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Strategy{}).
		Where("id = ?", id).
		Update("active", false).Error
}
