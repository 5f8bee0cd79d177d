// Package notify delivers license messages to a Slack incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oncallops/opteam/internal/team"
)

const defaultTimeout = 30 * time.Second

// payload is the Slack incoming-webhook body.
type payload struct {
	Text string `json:"text"`
}

// Notifier posts messages to a single webhook URL.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a notifier for the webhook URL. A non-positive timeout
// falls back to 30 seconds.
func NewNotifier(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Send posts a text message. Non-2xx responses are errors; delivery is never
// retried.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if n == nil || n.url == "" {
		return fmt.Errorf("webhook URL is not configured")
	}

	body, err := json.Marshal(payload{Text: text})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// LicenseMessage formats the Slack message for a license summary. Overage
// selects the alert variant; used == total is still within limit.
func LicenseMessage(s team.Summary) string {
	if s.OverLimit() {
		return fmt.Sprintf(
			":rotating_light::1password: *1Password License Alert* :1password::rotating_light:\n\n"+
				"Used Licenses: %d\n"+
				"Total Licenses: %d\n"+
				"Overage: %d\n\n"+
				"*Immediate action required to resolve the overage.*",
			s.Used, s.Total, s.Overage())
	}
	return fmt.Sprintf(
		":1password: *1Password License Report* :1password:\n\n"+
			"Used Licenses: %d\n"+
			"Total Licenses: %d\n"+
			"Available Licenses: %d\n\n"+
			"*All licenses are within the allocated limit.*",
		s.Used, s.Total, s.Available())
}
