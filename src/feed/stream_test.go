package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{}

// newDropServer accepts a websocket connection, writes one mini-ticker frame
// and drops the connection, like a flaky upstream.
func newDropServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`[{"s":"BTCUSDT","c":"50000.5"},{"s":"ETHUSDT","c":"3200.25"}]`))
		_ = conn.Close()
	}))

	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPriceStream_consumeUpdatesCache(t *testing.T) {
	srv, url := newDropServer(t)
	defer srv.Close()

	s := NewPriceStream(Config{StreamURL: url})

	err := s.consume(context.Background())
	require.Error(t, err, "consume should return once the upstream drops")

	price, ok := s.LastPrice("BTCUSDT")
	require.True(t, ok)
	require.InDelta(t, 50000.5, price, 0)

	price, ok = s.LastPrice("ETHUSDT")
	require.True(t, ok)
	require.InDelta(t, 3200.25, price, 0)

	_, ok = s.LastPrice("SOLUSDT")
	require.False(t, ok)
}

func TestPriceStream_consumeReleasesWatcherOnDisconnect(t *testing.T) {
	srv, url := newDropServer(t)
	defer srv.Close()

	s := NewPriceStream(Config{StreamURL: url})
	ctx := context.Background()

	before := runtime.NumGoroutine()

	for i := 0; i < 25; i++ {
		require.Error(t, s.consume(ctx))
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+3
	}, 2*time.Second, 50*time.Millisecond,
		"per-connection watchers must exit with their connection, not accumulate across reconnects")
}

func TestPriceStream_consumeStopsOnContextCancel(t *testing.T) {
	connected := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		close(connected)
		// Hold the connection open until the client side closes it.
		_, _, _ = conn.ReadMessage()
		_ = conn.Close()
	}))
	defer srv.Close()

	s := NewPriceStream(Config{StreamURL: "ws" + strings.TrimPrefix(srv.URL, "http")})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.consume(ctx)
	}()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("stream never connected")
	}

	cancel()

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not return after cancellation")
	}
}
