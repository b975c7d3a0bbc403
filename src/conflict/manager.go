package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"signalengine/src/model"
)

// TradeCounter reports how many trades a user has submitted since a cutoff.
// Backed by the trade log repository in production.
type TradeCounter interface {
	CountSince(ctx context.Context, userID uint, since time.Time) (int64, error)
}

var reduceSizeFactor = decimal.NewFromFloat(0.5)

// Manager detects conflicting concurrent trade requests and owns all
// mutation of the registry. Check-then-register runs as one critical
// section, so two near-simultaneous requests for the same (user, symbol)
// can never both pass the duplicate check.
type Manager struct {
	registry *Registry
	counter  TradeCounter
	cfg      Config
	logger   *logrus.Entry
	now      func() time.Time
}

func NewManager(registry *Registry, counter TradeCounter, cfg Config, logger *logrus.Entry) *Manager {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{
		registry: registry,
		counter:  counter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit runs conflict detection and, when no conflict is found, registers
// the request atomically. The tier count is fetched before the critical
// section so no database call ever runs under the registry lock.
func (m *Manager) Submit(ctx context.Context, req *model.TradeRequest) (*model.Conflict, error) {
	now := m.now()
	if req.Timestamp.IsZero() {
		req.Timestamp = now
	}

	dailyCount, err := m.dailyCount(ctx, req.UserID, now)
	if err != nil {
		return nil, err
	}

	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()

	if c := m.detectLocked(req, dailyCount, now); c != nil {
		m.logger.WithFields(logrus.Fields{
			"user":   req.UserID,
			"symbol": req.Symbol,
			"type":   c.Type,
			"action": c.RecommendedAction,
		}).Info("Trade request conflicted")
		return c, nil
	}

	m.registry.add(req)
	return nil, nil
}

// DetectConflict runs the detection rules without registering. Exposed for
// dry-run checks; Submit is the only path that mutates the registry.
func (m *Manager) DetectConflict(ctx context.Context, req *model.TradeRequest) (*model.Conflict, error) {
	now := m.now()

	dailyCount, err := m.dailyCount(ctx, req.UserID, now)
	if err != nil {
		return nil, err
	}

	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()
	return m.detectLocked(req, dailyCount, now), nil
}

// detectLocked applies the detection rules in order; the first match wins.
// Callers must hold the registry lock.
func (m *Manager) detectLocked(req *model.TradeRequest, dailyCount int64, now time.Time) *model.Conflict {
	// Rule 1: duplicate active request for the same (user, symbol).
	if _, ok := m.registry.get(req.UserID, req.Symbol); ok {
		return &model.Conflict{
			Type:              model.ConflictDuplicate,
			Message:           fmt.Sprintf("you already have an active %s request; complete or cancel it first", req.Symbol),
			RecommendedAction: model.ActionReject,
		}
	}

	windowStart := now.Add(-m.cfg.Window)

	// Rule 2: opposing-direction collision on the same symbol.
	sameSymbol := 0
	for key, other := range m.registry.active {
		if key.Symbol != req.Symbol || other.Timestamp.Before(windowStart) {
			continue
		}
		sameSymbol++
		if other.OrderType.Opposite(req.OrderType) {
			delay := m.optimalDelayLocked(req.Symbol, now)
			return &model.Conflict{
				Type:              model.ConflictOpposing,
				Message:           fmt.Sprintf("an opposing %s order on %s is in flight; retry in %s to avoid thrashing the instrument", other.OrderType, req.Symbol, delay),
				RecommendedAction: model.ActionDelay,
				RetryAfter:        delay,
			}
		}
	}

	// Rule 3: high-volume pressure on the symbol across users.
	if sameSymbol > m.cfg.SymbolPressureLimit {
		alts := Alternatives(req.Symbol, 3)
		return &model.Conflict{
			Type:              model.ConflictSymbolPressure,
			Message:           fmt.Sprintf("%d requests are already active on %s; consider a correlated instrument", sameSymbol, req.Symbol),
			RecommendedAction: model.ActionAlternativeSymbol,
			Alternatives:      alts,
		}
	}

	// Rule 4: tier throttling. Preserve partial participation with a
	// reduced size instead of rejecting outright.
	limits := model.LimitsFor(req.UserTier)
	activeForUser := 0
	for key := range m.registry.active {
		if key.UserID == req.UserID {
			activeForUser++
		}
	}

	overDaily := limits.DailyTrades > 0 && dailyCount >= int64(limits.DailyTrades)
	overActive := activeForUser >= limits.MaxActiveRequests
	overPosition := req.Notional().GreaterThan(limits.MaxPositionSize)

	if overDaily || overActive || overPosition {
		factor := reduceSizeFactor
		return &model.Conflict{
			Type:              model.ConflictTierThrottle,
			Message:           fmt.Sprintf("%s tier limits reached (daily %d/%d, active %d/%d); resubmit at %s of the size", req.UserTier, dailyCount, limits.DailyTrades, activeForUser, limits.MaxActiveRequests, reduceSizeFactor),
			RecommendedAction: model.ActionReduceSize,
			SizeFactor:        &factor,
		}
	}

	return nil
}

// Complete removes an active request. Must run before any new request for
// the same (user, symbol) is accepted; a completed pair is immediately free
// for resubmission.
func (m *Manager) Complete(userID uint, symbol string) bool {
	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()

	removed := m.registry.remove(userID, symbol)
	if removed {
		m.logger.WithFields(logrus.Fields{
			"user":   userID,
			"symbol": symbol,
		}).Debug("Trade request completed")
	}
	return removed
}

// OptimalDelay is a deterministic function of how recently the symbol was
// touched: the more recent the touch, the longer the wait, bounded by
// [MinDelay, Window].
func (m *Manager) OptimalDelay(symbol string) time.Duration {
	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()
	return m.optimalDelayLocked(symbol, m.now())
}

func (m *Manager) optimalDelayLocked(symbol string, now time.Time) time.Duration {
	touched, ok := m.registry.lastTouch[symbol]
	if !ok {
		return m.cfg.MinDelay
	}

	age := now.Sub(touched)
	if age >= m.cfg.Window {
		return m.cfg.MinDelay
	}

	delay := m.cfg.Window - age
	if delay < m.cfg.MinDelay {
		delay = m.cfg.MinDelay
	}
	return delay
}

// CheckDailyLimit reports whether the user may still trade today under the
// tier's daily allowance, and how many submissions remain.
func (m *Manager) CheckDailyLimit(ctx context.Context, userID uint, tier model.Tier) (model.DailyLimit, error) {
	count, err := m.dailyCount(ctx, userID, m.now())
	if err != nil {
		return model.DailyLimit{}, err
	}

	limits := model.LimitsFor(tier)
	remaining := limits.DailyTrades - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return model.DailyLimit{Allowed: remaining > 0, Remaining: remaining}, nil
}

func (m *Manager) dailyCount(ctx context.Context, userID uint, now time.Time) (int64, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, err := m.counter.CountSince(ctx, userID, startOfDay)
	if err != nil {
		return 0, fmt.Errorf("count trades for user %d: %w", userID, err)
	}
	return count, nil
}

// RunSweeper evicts requests older than MaxLifetime on a fixed interval so
// callers that never complete cannot leak registrations. Each sweep holds
// the registry lock only for the eviction itself.
func (m *Manager) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := m.now().Add(-m.cfg.MaxLifetime)
			for _, req := range m.registry.sweepOlderThan(cutoff) {
				m.logger.WithFields(logrus.Fields{
					"user":   req.UserID,
					"symbol": req.Symbol,
					"age":    m.now().Sub(req.Timestamp),
				}).Warn("Evicted stale trade request")
			}
		}
	}
}
