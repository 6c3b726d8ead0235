// Package notifications delivers group-run summaries to configured webhooks.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"

	"stock-sector-analyzer/database"
	"stock-sector-analyzer/models"
)

const defaultRetryDelay = 2 * time.Second

// DeliveryLog records delivery outcomes
type DeliveryLog interface {
	SaveWebhookDelivery(d *database.WebhookDelivery) error
}

// WebhookManager handles webhook notifications
type WebhookManager struct {
	urls       []string
	deliveries DeliveryLog
	client     *http.Client
	retries    int
	retryDelay time.Duration
	wg         sync.WaitGroup
}

// WebhookPayload represents the JSON payload sent to webhooks
type WebhookPayload struct {
	Event         string    `json:"event"`
	RunID         string    `json:"runId"`
	GroupName     string    `json:"groupName"`
	Total         int       `json:"total"`
	Completed     int       `json:"completed"`
	Failed        int       `json:"failed"`
	Opportunities []string  `json:"opportunities"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
	Message       string    `json:"message"`
}

// NewWebhookManager creates a manager posting to urls. attempts below 1 mean
// a single attempt. deliveries may be nil.
func NewWebhookManager(urls []string, timeout time.Duration, attempts int, deliveries DeliveryLog) *WebhookManager {
	if attempts < 1 {
		attempts = 1
	}
	return &WebhookManager{
		urls:       urls,
		deliveries: deliveries,
		client: &http.Client{
			Timeout: timeout,
		},
		retries:    attempts,
		retryDelay: defaultRetryDelay,
	}
}

// NotifyGroupCompleted sends the summary to every webhook asynchronously
func (wm *WebhookManager) NotifyGroupCompleted(summary models.GroupSummary) {
	if len(wm.urls) == 0 {
		return
	}

	payloadBytes, err := json.Marshal(CreatePayload(summary))
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to marshal webhook payload")
		return
	}

	for _, url := range wm.urls {
		wm.wg.Add(1)
		go func() {
			defer wm.wg.Done()
			wm.deliverWebhook(url, summary.RunID, payloadBytes)
		}()
	}
}

// Wait blocks until in-flight deliveries finish or ctx is done
func (wm *WebhookManager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		wm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreatePayload builds the webhook payload for a finished run
func CreatePayload(summary models.GroupSummary) WebhookPayload {
	opportunities := "-"
	if len(summary.Opportunities) > 0 {
		opportunities = strings.Join(summary.Opportunities, ", ")
	}

	// Example: "📊 GROUP ANALYSIS DONE! Banks | 5/5 analyzed | 1 failed | Opportunities: 1120.SR, 1180.SR"
	message := fmt.Sprintf("📊 GROUP ANALYSIS DONE! %s | %d/%d analyzed | %d failed | Opportunities: %s",
		summary.GroupName,
		summary.Completed,
		summary.Total,
		summary.Failed,
		opportunities,
	)

	return WebhookPayload{
		Event:         "group_completed",
		RunID:         summary.RunID,
		GroupName:     summary.GroupName,
		Total:         summary.Total,
		Completed:     summary.Completed,
		Failed:        summary.Failed,
		Opportunities: summary.Opportunities,
		StartedAt:     summary.StartedAt,
		FinishedAt:    summary.FinishedAt,
		Message:       message,
	}
}

func (wm *WebhookManager) deliverWebhook(url, runID string, payload []byte) {
	var (
		statusCode int
		lastErr    error
	)

	for attempt := 1; attempt <= wm.retries; attempt++ {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			wm.logDelivery(url, runID, "FAILED", 0, err.Error(), attempt)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "Sector-Scout-Webhook/1.0")

		log.Debug().Str("url", url).Int("attempt", attempt).Int("max", wm.retries).Msg("🔹 Sending webhook")

		resp, err := wm.client.Do(req)
		if err == nil {
			statusCode = resp.StatusCode
			resp.Body.Close()
			if statusCode >= 200 && statusCode < 300 {
				wm.logDelivery(url, runID, "SUCCESS", statusCode, "", attempt)
				return
			}
			lastErr = fmt.Errorf("unexpected status %d", statusCode)
		} else {
			statusCode = 0
			lastErr = err
		}

		if attempt < wm.retries {
			time.Sleep(wm.retryDelay)
		}
	}

	log.Warn().Err(lastErr).Str("url", url).Msg("⚠️ Webhook delivery failed")
	wm.logDelivery(url, runID, "FAILED", statusCode, lastErr.Error(), wm.retries)
}

func (wm *WebhookManager) logDelivery(url, runID, status string, code int, errMsg string, attempts int) {
	if wm.deliveries == nil {
		return
	}

	entry := &database.WebhookDelivery{
		URL:          url,
		Event:        "group_completed",
		RunID:        runID,
		TriggeredAt:  time.Now(),
		Status:       status,
		ErrorMessage: errMsg,
		Attempts:     attempts,
	}
	if code != 0 {
		entry.HTTPStatusCode = &code
	}

	if err := wm.deliveries.SaveWebhookDelivery(entry); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to save webhook delivery")
	}
}
