package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-sector-analyzer/database"
	"stock-sector-analyzer/models"
)

type memoryLog struct {
	mu      sync.Mutex
	entries []database.WebhookDelivery
}

func (m *memoryLog) SaveWebhookDelivery(d *database.WebhookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *d)
	return nil
}

func summary() models.GroupSummary {
	return models.GroupSummary{
		RunID:         "run-1",
		GroupName:     "Banks",
		Total:         3,
		Completed:     3,
		Failed:        1,
		Opportunities: []string{"1120.SR"},
	}
}

func TestCreatePayload(t *testing.T) {
	p := CreatePayload(summary())
	assert.Equal(t, "group_completed", p.Event)
	assert.Equal(t, "📊 GROUP ANALYSIS DONE! Banks | 3/3 analyzed | 1 failed | Opportunities: 1120.SR", p.Message)

	s := summary()
	s.Opportunities = nil
	assert.Contains(t, CreatePayload(s).Message, "Opportunities: -")
}

func TestNotifyGroupCompleted(t *testing.T) {
	var received atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p WebhookPayload
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&p)) {
			received.Store(p)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	deliveries := &memoryLog{}
	wm := NewWebhookManager([]string{srv.URL}, time.Second, 1, deliveries)
	wm.NotifyGroupCompleted(summary())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wm.Wait(ctx))

	p, ok := received.Load().(WebhookPayload)
	require.True(t, ok)
	assert.Equal(t, "run-1", p.RunID)

	require.Len(t, deliveries.entries, 1)
	assert.Equal(t, "SUCCESS", deliveries.entries[0].Status)
	assert.Equal(t, 1, deliveries.entries[0].Attempts)
}

func TestNotifyRetriesThenFails(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	deliveries := &memoryLog{}
	wm := NewWebhookManager([]string{srv.URL}, time.Second, 3, deliveries)
	wm.retryDelay = time.Millisecond
	wm.NotifyGroupCompleted(summary())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, wm.Wait(ctx))

	assert.Equal(t, int32(3), hits.Load())
	require.Len(t, deliveries.entries, 1)
	assert.Equal(t, "FAILED", deliveries.entries[0].Status)
	require.NotNil(t, deliveries.entries[0].HTTPStatusCode)
	assert.Equal(t, http.StatusBadGateway, *deliveries.entries[0].HTTPStatusCode)
}

func TestNotifyWithoutURLs(t *testing.T) {
	wm := NewWebhookManager(nil, time.Second, 0, nil)
	wm.NotifyGroupCompleted(summary())
	assert.NoError(t, wm.Wait(context.Background()))
}
