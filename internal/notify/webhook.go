package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietanh2810/basepoint-api/internal/domain"
)

const (
	colorReward  = 0xF1C40F
	colorCapture = 0xE74C3C
)

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

type webhookEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []webhookField `json:"fields,omitempty"`
	Footer      *webhookFooter `json:"footer,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

// WebhookNotifier posts notifications as a single embed to a
// Discord-compatible webhook URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (w *WebhookNotifier) Notify(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(newWebhookPayload(n))
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("w.client.Do -> %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	return nil
}

func newWebhookPayload(n domain.Notification) webhookPayload {
	embed := webhookEmbed{
		Title:       n.Title,
		Description: n.Body,
		Color:       colorCapture,
	}
	if n.Kind == domain.NotificationReward {
		embed.Color = colorReward
	}
	if n.Channel != "" {
		embed.Footer = &webhookFooter{Text: n.Channel}
	}
	if !n.Timestamp.IsZero() {
		embed.Timestamp = n.Timestamp.UTC().Format(time.RFC3339)
	}
	for _, f := range n.Fields {
		embed.Fields = append(embed.Fields, webhookField{Name: f.Name, Value: f.Value, Inline: true})
	}

	return webhookPayload{Embeds: []webhookEmbed{embed}}
}
