package handler

import (
	"context"
	"net/http"
	"strconv"

	logger "github.com/sirupsen/logrus"

	"signalengine/src/model"
)

type signalLister interface {
	ListActive(ctx context.Context, symbol string) ([]model.TradingSignal, error)
}

// ListSignalsHandler returns the unexpired active signals for a symbol.
// Expired signals never appear here; the repository filters on expires_at.
func ListSignalsHandler(repo signalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			http.Error(w, "symbol is required", http.StatusBadRequest)
			return
		}

		signals, err := repo.ListActive(r.Context(), symbol)
		if err != nil {
			logger.WithError(err).WithField("symbol", symbol).Error("Failed to list signals")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, signals)
	}
}

type limitChecker interface {
	CheckDailyLimit(ctx context.Context, userID uint, tier model.Tier) (model.DailyLimit, error)
}

// DailyLimitHandler reports a user's remaining daily trade allowance.
func DailyLimitHandler(svc limitChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseUint(r.URL.Query().Get("userId"), 10, 64)
		if err != nil || userID == 0 {
			http.Error(w, "invalid userId", http.StatusBadRequest)
			return
		}

		tier := model.Tier(r.URL.Query().Get("tier"))
		if tier == "" {
			tier = model.TierFree
		}

		limit, err := svc.CheckDailyLimit(r.Context(), uint(userID), tier)
		if err != nil {
			logger.WithError(err).WithField("user", userID).Error("Failed to check daily limit")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, limit)
	}
}
