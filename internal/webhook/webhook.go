// Package webhook delivers screening results to an HTTP endpoint.
// Delivery is best-effort: the caller logs and ignores failures, and a
// failed delivery never affects the primary output.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apomeroy/aitrade/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// Notifier posts JSON payloads to a fixed endpoint URL.
type Notifier struct {
	url    string
	client *http.Client
}

// NewNotifier creates a notifier for the given endpoint.
func NewNotifier(url string) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Send marshals the payload and POSTs it as application/json. A non-2xx
// response is an error; the body is drained either way so the connection
// can be reused.
func (n *Notifier) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWebhookFailed, "failed to encode webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeWebhookFailed, "failed to build webhook request", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWebhookFailed, "webhook request failed", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(errors.ErrCodeWebhookFailed, fmt.Sprintf("webhook returned status %d", resp.StatusCode))
	}

	return nil
}
