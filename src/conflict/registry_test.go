package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"signalengine/src/model"
)

func registerDirect(reg *Registry, req *model.TradeRequest) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.add(req)
}

func TestSweepOlderThanEvictsOnlyStale(t *testing.T) {
	reg := NewRegistry()
	now := time.Now()

	stale := &model.TradeRequest{
		UserID:    1,
		Symbol:    "BTCUSDT",
		OrderType: model.OrderBuy,
		Timestamp: now.Add(-time.Hour),
	}
	fresh := &model.TradeRequest{
		UserID:    2,
		Symbol:    "ETHUSDT",
		OrderType: model.OrderSell,
		Timestamp: now,
	}
	registerDirect(reg, stale)
	registerDirect(reg, fresh)

	evicted := reg.sweepOlderThan(now.Add(-30 * time.Minute))
	require.Len(t, evicted, 1)
	require.Equal(t, uint(1), evicted[0].UserID)

	reg.mu.Lock()
	_, staleLeft := reg.get(1, "BTCUSDT")
	_, freshLeft := reg.get(2, "ETHUSDT")
	reg.mu.Unlock()
	require.False(t, staleLeft, "stale entry should be evicted")
	require.True(t, freshLeft, "fresh entry should survive the sweep")
}

func TestSweepOlderThanKeepsReRegisteredEntry(t *testing.T) {
	reg := NewRegistry()
	now := time.Now()

	registerDirect(reg, &model.TradeRequest{
		UserID:    1,
		Symbol:    "BTCUSDT",
		OrderType: model.OrderBuy,
		Timestamp: now.Add(-time.Hour),
	})

	// Same key, fresh timestamp: overwrites the stale registration the way
	// a complete-then-resubmit does between sweep passes.
	registerDirect(reg, &model.TradeRequest{
		UserID:    1,
		Symbol:    "BTCUSDT",
		OrderType: model.OrderBuy,
		Timestamp: now,
	})

	evicted := reg.sweepOlderThan(now.Add(-30 * time.Minute))
	require.Empty(t, evicted)

	reg.mu.Lock()
	req, ok := reg.get(1, "BTCUSDT")
	reg.mu.Unlock()
	require.True(t, ok)
	require.Equal(t, now, req.Timestamp)
}

func TestSweepOlderThanEmptyRegistry(t *testing.T) {
	reg := NewRegistry()
	require.Empty(t, reg.sweepOlderThan(time.Now()))
}
