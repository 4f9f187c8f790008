package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

func TestWebhookSignsBody(t *testing.T) {
	secret := "s3cret"
	var (
		gotBody      []byte
		gotSignature string
		gotEvent     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get(SignatureHeader)
		gotEvent = r.Header.Get(EventHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, secret, time.Second)
	event := domain.Event{
		Topic:      domain.TopicOrderEvents,
		Key:        "order-1",
		Type:       "order.paid",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Payload:    map[string]any{"total": 2900},
	}
	if err := n.PublishEvent(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if gotEvent != "order.paid" {
		t.Errorf("event header = %q", gotEvent)
	}
	if want := Sign([]byte(secret), gotBody); gotSignature != want {
		t.Errorf("signature = %q, want %q", gotSignature, want)
	}
	var payload CallbackPayload
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Topic != domain.TopicOrderEvents || payload.Key != "order-1" || payload.Payload["total"] != float64(2900) {
		t.Errorf("payload = %+v", payload)
	}
}

func TestWebhookWithoutSecretIsUnsigned(t *testing.T) {
	var signature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get(SignatureHeader)
	}))
	defer srv.Close()

	if err := NewWebhookNotifier(srv.URL, "", 0).PublishEvent(context.Background(), domain.Event{Type: "x"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if signature != "" {
		t.Errorf("unexpected signature %q", signature)
	}
}

func TestWebhookNon2xxIsExternalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, "k", time.Second).PublishEvent(context.Background(), domain.Event{Type: "x"})
	if !errors.Is(err, domain.ErrCallbackFailed) {
		t.Fatalf("err = %v, want ErrCallbackFailed", err)
	}
	if domain.Kind(err) != domain.KindExternal {
		t.Errorf("kind = %v", domain.Kind(err))
	}
}

func TestSignIsStable(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	got := Sign([]byte("key"), []byte("The quick brown fox jumps over the lazy dog"))
	want := "sha256=f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"
	if got != want {
		t.Fatalf("Sign = %s", got)
	}
}
