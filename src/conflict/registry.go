package conflict

import (
	"sync"
	"time"

	"signalengine/src/model"
)

type requestKey struct {
	UserID uint
	Symbol string
}

// Registry owns the authoritative in-memory set of active trade requests.
// All mutation goes through the Manager; no other component may add or
// remove entries directly.
type Registry struct {
	mu        sync.Mutex
	active    map[requestKey]*model.TradeRequest
	lastTouch map[string]time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		active:    make(map[requestKey]*model.TradeRequest),
		lastTouch: make(map[string]time.Time),
	}
}

func (r *Registry) get(userID uint, symbol string) (*model.TradeRequest, bool) {
	req, ok := r.active[requestKey{UserID: userID, Symbol: symbol}]
	return req, ok
}

func (r *Registry) add(req *model.TradeRequest) {
	r.active[requestKey{UserID: req.UserID, Symbol: req.Symbol}] = req
	r.lastTouch[req.Symbol] = req.Timestamp
}

func (r *Registry) remove(userID uint, symbol string) bool {
	key := requestKey{UserID: userID, Symbol: symbol}
	if _, ok := r.active[key]; !ok {
		return false
	}
	delete(r.active, key)
	return true
}

// ActiveForSymbol lists active requests for a symbol across users. The
// returned slice is a snapshot; callers never see the live map.
func (r *Registry) ActiveForSymbol(symbol string) []model.TradeRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.TradeRequest
	for key, req := range r.active {
		if key.Symbol == symbol {
			out = append(out, *req)
		}
	}
	return out
}

// ActiveForUser lists a user's active requests across symbols.
func (r *Registry) ActiveForUser(userID uint) []model.TradeRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.TradeRequest
	for key, req := range r.active {
		if key.UserID == userID {
			out = append(out, *req)
		}
	}
	return out
}

// LastTouch reports when any request last arrived for the symbol.
func (r *Registry) LastTouch(symbol string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.lastTouch[symbol]
	return t, ok
}

// sweepOlderThan removes requests whose timestamp is older than the cutoff
// and returns the evicted entries. The entries are snapshotted under the
// lock and filtered outside it, so registration only waits for the two
// short map passes. The delete pass re-checks each timestamp: an entry
// re-registered between the passes stays.
func (r *Registry) sweepOlderThan(cutoff time.Time) []model.TradeRequest {
	type entry struct {
		key       requestKey
		timestamp time.Time
	}

	r.mu.Lock()
	snapshot := make([]entry, 0, len(r.active))
	for key, req := range r.active {
		snapshot = append(snapshot, entry{key: key, timestamp: req.Timestamp})
	}
	r.mu.Unlock()

	var expiredKeys []requestKey
	for _, e := range snapshot {
		if e.timestamp.Before(cutoff) {
			expiredKeys = append(expiredKeys, e.key)
		}
	}
	if len(expiredKeys) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []model.TradeRequest
	for _, key := range expiredKeys {
		req, ok := r.active[key]
		if !ok || !req.Timestamp.Before(cutoff) {
			continue
		}
		evicted = append(evicted, *req)
		delete(r.active, key)
	}
	return evicted
}
