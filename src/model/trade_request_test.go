package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictJSONDelayPayload(t *testing.T) {
	c := Conflict{
		Type:              ConflictOpposing,
		Message:           "an opposing sell order on BTCUSDT is in flight",
		RecommendedAction: ActionDelay,
		RetryAfter:        90 * time.Second,
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	assert.Contains(t, string(b), `"retry_after":"1m30s"`)
	assert.NotContains(t, string(b), "size_factor", "non-reduce-size conflicts should omit the factor")

	var back Conflict
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 90*time.Second, back.RetryAfter)
	assert.Equal(t, ActionDelay, back.RecommendedAction)
}

func TestConflictJSONReduceSizePayload(t *testing.T) {
	factor := decimal.NewFromFloat(0.5)
	c := Conflict{
		Type:              ConflictTierThrottle,
		Message:           "free tier limits reached",
		RecommendedAction: ActionReduceSize,
		SizeFactor:        &factor,
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	assert.Contains(t, string(b), `"size_factor":"0.5"`)
	assert.NotContains(t, string(b), "retry_after", "no delay on a size reduction")
}
