package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	logger "github.com/sirupsen/logrus"

	"signalengine/src/model"
	"signalengine/src/service"
)

type tradeSubmitter interface {
	SubmitTradeRequest(ctx context.Context, req *model.TradeRequest) (*service.SubmitResult, error)
	CompleteTradeRequest(userID uint, symbol string) bool
}

type submitTradeBody struct {
	UserID    uint    `json:"user_id"`
	Symbol    string  `json:"symbol"`
	OrderType string  `json:"order_type"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Strategy  string  `json:"strategy"`
	UserTier  string  `json:"user_tier"`
}

// SubmitTradeHandler accepts a trade request and runs it through conflict
// detection. A conflicted submission is a 409 with the full recommendation
// payload, never a bare failure code.
func SubmitTradeHandler(svc tradeSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body submitTradeBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if body.UserID == 0 || body.Symbol == "" {
			http.Error(w, "user_id and symbol are required", http.StatusBadRequest)
			return
		}

		orderType := model.OrderType(body.OrderType)
		if orderType != model.OrderBuy && orderType != model.OrderSell {
			http.Error(w, "order_type must be buy or sell", http.StatusBadRequest)
			return
		}

		if body.Quantity <= 0 || body.Price <= 0 {
			http.Error(w, "quantity and price must be positive", http.StatusBadRequest)
			return
		}

		req := &model.TradeRequest{
			UserID:    body.UserID,
			Symbol:    body.Symbol,
			OrderType: orderType,
			Quantity:  body.Quantity,
			Price:     body.Price,
			Strategy:  body.Strategy,
			UserTier:  model.Tier(body.UserTier),
		}

		result, err := svc.SubmitTradeRequest(r.Context(), req)
		if err != nil {
			if errors.Is(err, service.ErrPersistence) {
				http.Error(w, "submission could not be recorded, please retry", http.StatusServiceUnavailable)
				return
			}
			logger.WithError(err).Error("Trade submission failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		status := http.StatusCreated
		if !result.Accepted {
			status = http.StatusConflict
		}
		writeJSON(w, status, result)
	}
}

// CompleteTradeHandler frees an active (user, symbol) pair.
func CompleteTradeHandler(svc tradeSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseUint(r.URL.Query().Get("userId"), 10, 64)
		if err != nil || userID == 0 {
			http.Error(w, "invalid userId", http.StatusBadRequest)
			return
		}

		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			http.Error(w, "symbol is required", http.StatusBadRequest)
			return
		}

		if !svc.CompleteTradeRequest(uint(userID), symbol) {
			http.Error(w, "no active request for this user and symbol", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}
