package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroker(t *testing.T) *Broker {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := NewBroker()
	go b.Run(ctx)
	return b
}

func TestSubscribeReceivesBroadcast(t *testing.T) {
	b := startBroker(t)

	messages, cancel := b.Subscribe(context.Background())
	defer cancel()

	b.Broadcast("group_progress", map[string]int{"completed": 1, "total": 2})

	select {
	case raw := <-messages:
		var msg struct {
			Event   string         `json:"event"`
			Payload map[string]int `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "group_progress", msg.Event)
		assert.Equal(t, 2, msg.Payload["total"])
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	cancel()
	assert.Eventually(t, func() bool { return b.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeSSE(t *testing.T) {
	b := startBroker(t)
	srv := httptest.NewServer(b)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	b.Broadcast("stocks_loaded", map[string]int{"count": 3})

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: "))
	assert.Contains(t, line, `"event":"stocks_loaded"`)
}

func TestServeWebSocket(t *testing.T) {
	b := startBroker(t)
	srv := httptest.NewServer(http.HandlerFunc(b.ServeWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	b.Broadcast("analysis_started", map[string]string{"ticker": "AAPL"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ticker":"AAPL"`)
}

func TestRunStopClosesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBroker()
	go b.Run(ctx)

	messages, unsubscribe := b.Subscribe(context.Background())
	defer unsubscribe()
	cancel()

	select {
	case _, ok := <-messages:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber not closed")
	}
}
