package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

const (
	SignatureHeader = "X-Marketplace-Signature"
	EventHeader     = "X-Marketplace-Event"
)

// WebhookNotifier posts every event to a single callback URL. When a secret
// is configured the body is signed with HMAC-SHA256.
type WebhookNotifier struct {
	callbackURL string
	secret      []byte
	client      *http.Client
}

func NewWebhookNotifier(callbackURL, secret string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		callbackURL: callbackURL,
		secret:      []byte(secret),
		client:      &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) PublishEvent(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(CallbackPayload{
		Topic:      event.Topic,
		Type:       event.Type,
		Key:        event.Key,
		OccurredAt: event.OccurredAt,
		Payload:    event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, event.Type)
	if len(n.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: callback failed: %v", domain.ErrCallbackFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: callback returned status %d", domain.ErrCallbackFailed, resp.StatusCode)
	}
	slog.DebugContext(ctx, "callback sent", "type", event.Type, "key", event.Key)
	return nil
}

// Sign returns the hex HMAC-SHA256 of body, prefixed with the scheme name.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
