package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

func TestHTTPGatewayCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/charges" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req ChargeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Amount != 2900 || req.Currency != "KES" {
			t.Errorf("request = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(ChargeResponse{TransactionID: "tx-1", Status: "succeeded"})
	}))
	defer srv.Close()

	g := NewHTTPPaymentGateway(srv.URL, time.Second)
	res, err := g.Charge(context.Background(), domain.ChargeRequest{Amount: 2900, Currency: "KES"})
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if res.TransactionID != "tx-1" {
		t.Errorf("transaction id = %q", res.TransactionID)
	}
}

func TestHTTPGatewayDecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "card declined"})
	}))
	defer srv.Close()

	g := NewHTTPPaymentGateway(srv.URL, time.Second)
	_, err := g.Charge(context.Background(), domain.ChargeRequest{Amount: 100})
	if !errors.Is(err, domain.ErrPaymentFailed) {
		t.Fatalf("err = %v, want ErrPaymentFailed", err)
	}
}

func TestSimulatedGatewayRefundBounds(t *testing.T) {
	g, err := NewSimulatedGateway()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	res, err := g.Charge(ctx, domain.ChargeRequest{Amount: 500})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Refund(ctx, res.TransactionID, 500); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if err := g.Refund(ctx, res.TransactionID, 1); !errors.Is(err, domain.ErrPaymentFailed) {
		t.Errorf("over-refund err = %v", err)
	}

	g.FailNextCharge(errors.New("declined"))
	if _, err := g.Charge(ctx, domain.ChargeRequest{Amount: 1}); !errors.Is(err, domain.ErrPaymentFailed) {
		t.Errorf("queued failure err = %v", err)
	}
	if _, err := g.Charge(ctx, domain.ChargeRequest{Amount: 1}); err != nil {
		t.Errorf("failure not cleared: %v", err)
	}
}
