package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const pushbulletURL = "https://api.pushbullet.com/v2/pushes"

// Pushbullet implements ports.Notifier over the Pushbullet v2 push API.
type Pushbullet struct {
	http  *http.Client
	url   string
	token string
}

// NewPushbullet creates a notifier with the given access token.
func NewPushbullet(token string) *Pushbullet {
	return &Pushbullet{
		http:  &http.Client{Timeout: 10 * time.Second},
		url:   pushbulletURL,
		token: token,
	}
}

// SendMessage pushes a note to every device on the account.
func (p *Pushbullet) SendMessage(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(map[string]string{
		"type":  "note",
		"title": title,
		"body":  body,
	})
	if err != nil {
		return fmt.Errorf("notify.SendMessage: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify.SendMessage: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Access-Token", p.token)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify.SendMessage: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify.SendMessage: HTTP %d", resp.StatusCode)
	}
	return nil
}
