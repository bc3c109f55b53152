// Package notify pushes reconciliation warning batches to an operator
// webhook so catalog drift gets looked at instead of scrolling past in logs.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type Alert struct {
	Job      string    `json:"job"`
	Game     string    `json:"game"`
	Version  string    `json:"version"`
	Warnings []string  `json:"warnings"`
	At       time.Time `json:"at"`
}

type Webhook struct {
	URL    string
	Client *http.Client
	Logger *log.Logger
}

func NewWebhook(url string, logger *log.Logger) *Webhook {
	if logger == nil {
		logger = log.Default()
	}
	return &Webhook{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
		Logger: logger,
	}
}

// Send posts the alert, retrying once on failure. A missing URL or an empty
// warning list is a no-op; the jobs call this unconditionally.
func (w *Webhook) Send(ctx context.Context, alert Alert) {
	if w.URL == "" || len(alert.Warnings) == 0 {
		return
	}
	if alert.At.IsZero() {
		alert.At = time.Now().UTC()
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		w.Logger.Printf("[notify] marshal alert: %v", err)
		return
	}

	if err := w.post(ctx, payload); err == nil {
		return
	}
	if err := w.post(ctx, payload); err != nil {
		w.Logger.Printf("[notify] webhook delivery failed after retry: %v", err)
	}
}

func (w *Webhook) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
