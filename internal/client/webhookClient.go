package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"payment-notify-relay/internal/config"
	"time"

	"github.com/pkg/errors"
)

// WebhookClient posts Discord style embed payloads to an operator channel.
type WebhookClient interface {
	Notify(ctx context.Context, url string, payload *WebhookPayload) error
}

type WebhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

type Embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []EmbedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

var ErrWebhookURLNotSet = errors.New("webhook url not configured")

type webhookClientImpl struct {
	httpClient *http.Client
}

func NewWebhookClient(cfg *config.Webhook) WebhookClient {
	return &webhookClientImpl{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Notify makes a single POST attempt. Any transport failure or non 2xx
// status is returned; there is no retry.
func (c *webhookClientImpl) Notify(ctx context.Context, url string, payload *WebhookPayload) error {
	if url == "" {
		return ErrWebhookURLNotSet
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "webhook request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("webhook error %d: %s", resp.StatusCode, string(b))
	}

	return nil
}

// Timestamp formats t the way Discord embeds expect (ISO-8601, UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
