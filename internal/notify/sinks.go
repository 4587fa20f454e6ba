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

// Mail is one rendered message.
type Mail struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer sends mail. Delivery itself lives outside this service.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// LogMailer writes mail to the process log instead of sending it.
type LogMailer struct{}

// Send logs m instead of delivering it.
func (LogMailer) Send(_ context.Context, m Mail) error {
	log.Printf("mail: to=%s subject=%q", m.To, m.Subject)
	return nil
}

// Publisher posts announcements to an external channel.
type Publisher interface {
	Publish(ctx context.Context, content string) error
}

// Webhook posts Discord-style {"content": ...} payloads.
type Webhook struct {
	URL    string
	Client *http.Client
}

// NewWebhook returns a webhook publisher with a bounded client timeout.
func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

// Publish posts content to the webhook. Non-2xx responses are errors.
func (w *Webhook) Publish(ctx context.Context, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post webhook: unexpected status %s", resp.Status)
	}
	return nil
}
