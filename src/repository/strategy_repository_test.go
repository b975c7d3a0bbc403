package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"signalengine/src/model"
)

func TestStrategyRepositoryActiveForSymbol(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &StrategyRepository{db: mockDB}

	rows := sqlmock.NewRows([]string{"id", "user_id", "symbol", "type", "risk_level", "min_confidence_score", "active"}).
		AddRow(1, 10, "BTCUSDT", "short_term", "neutral", 0.6, true).
		AddRow(2, 11, "BTCUSDT", "scalping", "aggressive", 0.7, true)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "strategies" WHERE symbol = $1 AND active = $2 ORDER BY id ASC`)).
		WithArgs("BTCUSDT", true).
		WillReturnRows(rows)

	strategies, err := repo.ActiveForSymbol(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("unexpected error listing strategies: %v", err)
	}

	if len(strategies) != 2 {
		t.Fatalf("expected 2 strategies, got %d", len(strategies))
	}
	if strategies[0].Type != model.StrategyShortTerm || strategies[1].Type != model.StrategyScalping {
		t.Fatalf("strategies not returned in expected order: %+v", strategies)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStrategyRepositoryFindByIDNotFound(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &StrategyRepository{db: mockDB}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "strategies" WHERE id = $1 ORDER BY "strategies"."id" LIMIT $2`)).
		WithArgs(uint(99), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	strat, err := repo.FindByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("not-found should not be an error: %v", err)
	}
	if strat != nil {
		t.Fatalf("expected nil strategy, got %+v", strat)
	}
}

func TestStrategyRepositoryDeactivate(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &StrategyRepository{db: mockDB}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "strategies" SET "active"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(false, sqlmock.AnyArg(), uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Deactivate(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error deactivating strategy: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
