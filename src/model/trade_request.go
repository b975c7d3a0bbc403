package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderBuy  OrderType = "buy"
	OrderSell OrderType = "sell"
)

// Opposite reports whether two order sides collide head-on.
func (o OrderType) Opposite(other OrderType) bool {
	return (o == OrderBuy && other == OrderSell) || (o == OrderSell && other == OrderBuy)
}

// TradeRequest is an in-flight order attempt. While active it is owned
// exclusively by the conflict manager's registry; it disappears on explicit
// completion or on the registry's lifetime sweep.
type TradeRequest struct {
	UserID    uint      `json:"user_id"`
	Symbol    string    `json:"symbol"`
	OrderType OrderType `json:"order_type"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Strategy  string    `json:"strategy"`
	UserTier  Tier      `json:"user_tier"`
}

// Notional is the request's cash exposure, used for tier position caps.
func (r *TradeRequest) Notional() decimal.Decimal {
	return decimal.NewFromFloat(r.Quantity).Mul(decimal.NewFromFloat(r.Price))
}

type ConflictType string

const (
	ConflictDuplicate      ConflictType = "duplicate_request"
	ConflictOpposing       ConflictType = "opposing_direction"
	ConflictSymbolPressure ConflictType = "symbol_pressure"
	ConflictTierThrottle   ConflictType = "tier_throttle"
)

type ConflictAction string

const (
	ActionDelay             ConflictAction = "delay"
	ActionReduceSize        ConflictAction = "reduce_size"
	ActionAlternativeSymbol ConflictAction = "alternative_symbol"
	ActionReject            ConflictAction = "reject"
)

// Conflict is a designed outcome, not an error: the caller always receives a
// human-readable message plus the concrete recommended next step.
type Conflict struct {
	Type              ConflictType     `json:"type"`
	Message           string           `json:"message"`
	RecommendedAction ConflictAction   `json:"recommended_action"`
	RetryAfter        time.Duration    `json:"retry_after,omitempty"`
	SizeFactor        *decimal.Decimal `json:"size_factor,omitempty"`
	Alternatives      []string         `json:"alternatives,omitempty"`
}

// MarshalJSON renders RetryAfter as a duration string ("1m30s") instead of
// raw nanoseconds. SizeFactor is a pointer so non-reduce-size conflicts omit
// it entirely.
func (c Conflict) MarshalJSON() ([]byte, error) {
	type conflictJSON Conflict
	out := struct {
		conflictJSON
		RetryAfter string `json:"retry_after,omitempty"`
	}{conflictJSON: conflictJSON(c)}
	if c.RetryAfter > 0 {
		out.RetryAfter = c.RetryAfter.String()
	}
	return json.Marshal(out)
}

func (c *Conflict) UnmarshalJSON(data []byte) error {
	type conflictJSON Conflict
	aux := struct {
		*conflictJSON
		RetryAfter string `json:"retry_after,omitempty"`
	}{conflictJSON: (*conflictJSON)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.RetryAfter != "" {
		d, err := time.ParseDuration(aux.RetryAfter)
		if err != nil {
			return fmt.Errorf("invalid retry_after: %w", err)
		}
		c.RetryAfter = d
	}
	return nil
}
