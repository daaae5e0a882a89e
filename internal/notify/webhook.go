package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultWebhookTimeout = 10 * time.Second

// Webhook posts announcements as JSON. The "text" field keeps Slack and
// Mattermost incoming hooks working; the other fields are for machines.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook validates rawURL. timeout <= 0 uses DefaultWebhookTimeout.
func NewWebhook(rawURL string, timeout time.Duration) (*Webhook, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("webhook url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("webhook url %q: want an absolute http(s) url", rawURL)
	}
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	return &Webhook{url: u.String(), client: &http.Client{Timeout: timeout}}, nil
}

type announcementPayload struct {
	Text   string `json:"text"`
	Event  string `json:"event"`
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Date   string `json:"date"`
}

func payloadFor(a Announcement) announcementPayload {
	return announcementPayload{
		Text:   "*" + a.Title() + "*\n" + a.Text(),
		Event:  "prayer_time",
		Prayer: string(a.Prayer),
		Time:   a.Time,
		Date:   a.Date.String(),
	}
}

func (w *Webhook) Announce(ctx context.Context, a Announcement) error {
	body, err := json.Marshal(payloadFor(a))
	if err != nil {
		return fmt.Errorf("encode announcement: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("announce %s %s: %w", a.Prayer, a.Date, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("announce %s %s: webhook returned %s", a.Prayer, a.Date, resp.Status)
	}
	return nil
}
