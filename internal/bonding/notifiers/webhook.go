package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/daniacca/bondsim/internal/bonding"
)

const webhookTimeout = 5 * time.Second

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 512

// WebhookNotifier posts each bond event as a JSON document. The event kind
// and simulation are repeated in X-Bondsim-Event and X-Bondsim-Simulation so
// receivers can route without decoding the body.
type WebhookNotifier struct {
	id     string
	target string
	client *http.Client
	header http.Header
}

func NewWebhookNotifier(id, target string) *WebhookNotifier {
	return &WebhookNotifier{
		id:     id,
		target: target,
		client: &http.Client{Timeout: webhookTimeout},
		header: make(http.Header),
	}
}

// SetHeader adds a header sent with every delivery, typically a token.
func (wn *WebhookNotifier) SetHeader(key, value string) {
	wn.header.Set(key, value)
}

func (wn *WebhookNotifier) ID() string   { return wn.id }
func (wn *WebhookNotifier) Type() string { return "webhook" }
func (wn *WebhookNotifier) URL() string  { return wn.target }

// Notify delivers one event. Transport failures and non-2xx replies are
// returned so the manager can retry them.
func (wn *WebhookNotifier) Notify(ctx context.Context, event bonding.BondEvent) error {
	payload, err := event.JSON()
	if err != nil {
		return fmt.Errorf("encode bond event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	for key, values := range wn.header {
		req.Header[key] = values
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Bondsim-Event", string(event.Kind))
	req.Header.Set("X-Bondsim-Simulation", string(event.SimulationID))

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to %s: %w", wn.target, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode/100 != 2 {
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("webhook %s answered %d: %s", wn.id, resp.StatusCode, msg)
		}
		return fmt.Errorf("webhook %s answered %d", wn.id, resp.StatusCode)
	}
	return nil
}

// Close does nothing; idle connections belong to the shared transport.
func (wn *WebhookNotifier) Close() error {
	return nil
}
