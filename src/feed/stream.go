package feed

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"
)

// PriceStream keeps a live last-price cache per symbol from the exchange
// mini-ticker stream. Analysis cycles read from the cache and fall back to
// the latest close when the stream has not seen the symbol yet.
type PriceStream struct {
	url string

	mu     sync.RWMutex
	prices map[string]float64
}

func NewPriceStream(cfg Config) *PriceStream {
	return &PriceStream{
		url:    cfg.StreamURL,
		prices: make(map[string]float64),
	}
}

func (s *PriceStream) LastPrice(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[symbol]
	return price, ok
}

type miniTicker struct {
	Symbol    string `json:"s"`
	LastPrice string `json:"c"`
}

// Run connects and consumes ticker frames until the context is canceled,
// reconnecting with a fixed backoff on any read or dial failure.
func (s *PriceStream) Run(ctx context.Context) {
	const reconnectDelay = 5 * time.Second

	for {
		if err := s.consume(ctx); err != nil {
			logger.WithError(err).Warn("Price stream disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *PriceStream) consume(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.WithField("url", s.url).Info("Price stream connected")

	// The watcher is tied to this connection, not to the process: it must
	// exit when consume returns or every reconnect would strand one.
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var tickers []miniTicker
		if err := json.Unmarshal(payload, &tickers); err != nil {
			// Single-ticker frames arrive as a bare object.
			var one miniTicker
			if err := json.Unmarshal(payload, &one); err != nil {
				continue
			}
			tickers = []miniTicker{one}
		}

		s.mu.Lock()
		for _, t := range tickers {
			if price, convErr := strconv.ParseFloat(t.LastPrice, 64); convErr == nil && price > 0 {
				s.prices[t.Symbol] = price
			}
		}
		s.mu.Unlock()
	}
}
