package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Chat posts a Slack-compatible block message to an incoming webhook.
type Chat struct {
	webhookURL string
	http       *http.Client
}

func NewChat(webhookURL string, timeout time.Duration) *Chat {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Chat{webhookURL: strings.TrimSpace(webhookURL), http: &http.Client{Timeout: timeout}}
}

func (c *Chat) Channel() Channel { return ChannelChat }

func (c *Chat) Send(ctx context.Context, msg Message) error {
	if c.webhookURL == "" {
		return fmt.Errorf("chat: %w", ErrNotConfigured)
	}
	body, err := json.Marshal(ChatPayload(msg))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}

// ChatPayload builds the {text, blocks} body: two sections and a link button.
func ChatPayload(msg Message) map[string]any {
	return map[string]any{
		"text": "📰 *New News Report* 📰",
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{"type": "mrkdwn", "text": "*New report on:* " + msg.Topic},
			},
			{
				"type": "section",
				"text": map[string]any{"type": "mrkdwn", "text": "View the full report:"},
			},
			{
				"type": "actions",
				"elements": []map[string]any{
					{
						"type": "button",
						"text": map[string]any{"type": "plain_text", "text": "Open report"},
						"url":  msg.URL,
					},
				},
			},
		},
	}
}
