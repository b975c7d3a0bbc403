package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalengine/src/model"
	"signalengine/src/service"
)

type mockSubmitter struct {
	result      *service.SubmitResult
	err         error
	submitted   *model.TradeRequest
	completed   bool
	completeOK  bool
	calledCount int
}

func (m *mockSubmitter) SubmitTradeRequest(_ context.Context, req *model.TradeRequest) (*service.SubmitResult, error) {
	m.calledCount++
	m.submitted = req
	return m.result, m.err
}

func (m *mockSubmitter) CompleteTradeRequest(uint, string) bool {
	m.completed = true
	return m.completeOK
}

func TestSubmitTradeHandlerAccepted(t *testing.T) {
	svc := &mockSubmitter{result: &service.SubmitResult{Accepted: true}}
	handler := SubmitTradeHandler(svc)

	body := `{"user_id":1,"symbol":"BTCUSDT","order_type":"buy","quantity":0.01,"price":50000,"user_tier":"pro"}`
	req := httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, svc.submitted)
	assert.Equal(t, model.OrderBuy, svc.submitted.OrderType)
	assert.Equal(t, model.TierPro, svc.submitted.UserTier)
}

func TestSubmitTradeHandlerConflictIs409WithPayload(t *testing.T) {
	svc := &mockSubmitter{result: &service.SubmitResult{
		Accepted: false,
		Conflict: &model.Conflict{
			Type:              model.ConflictOpposing,
			Message:           "an opposing sell order on BTCUSDT is in flight",
			RecommendedAction: model.ActionDelay,
		},
	}}
	handler := SubmitTradeHandler(svc)

	body := `{"user_id":2,"symbol":"BTCUSDT","order_type":"buy","quantity":0.01,"price":50000}`
	req := httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	var result service.SubmitResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.NotNil(t, result.Conflict)
	assert.Equal(t, model.ActionDelay, result.Conflict.RecommendedAction)
	assert.NotEmpty(t, result.Conflict.Message)
}

func TestSubmitTradeHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"user_id":`},
		{"missing symbol", `{"user_id":1,"order_type":"buy","quantity":1,"price":1}`},
		{"bad order type", `{"user_id":1,"symbol":"BTCUSDT","order_type":"hold","quantity":1,"price":1}`},
		{"non-positive quantity", `{"user_id":1,"symbol":"BTCUSDT","order_type":"buy","quantity":0,"price":1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSubmitter{}
			handler := SubmitTradeHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Zero(t, svc.calledCount)
		})
	}
}

func TestSubmitTradeHandlerPersistenceFailure(t *testing.T) {
	svc := &mockSubmitter{err: service.ErrPersistence}
	handler := SubmitTradeHandler(svc)

	body := `{"user_id":1,"symbol":"BTCUSDT","order_type":"buy","quantity":0.01,"price":50000}`
	req := httptest.NewRequest(http.MethodPost, "/trades", strings.NewReader(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCompleteTradeHandler(t *testing.T) {
	svc := &mockSubmitter{completeOK: true}
	handler := CompleteTradeHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/trades?userId=1&symbol=BTCUSDT", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, svc.completed)
}

func TestCompleteTradeHandlerNotFound(t *testing.T) {
	svc := &mockSubmitter{completeOK: false}
	handler := CompleteTradeHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/trades?userId=1&symbol=BTCUSDT", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
