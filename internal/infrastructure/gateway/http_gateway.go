package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

// HTTPPaymentGateway talks to the external payment provider over JSON/HTTP.
type HTTPPaymentGateway struct {
	Address string
	client  *http.Client
}

func NewHTTPPaymentGateway(address string, timeout time.Duration) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{
		Address: address,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *HTTPPaymentGateway) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResult, error) {
	body, err := g.post(ctx, "/charges", ChargeRequest{
		UserID:        req.UserID,
		Reference:     req.Reference,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	var chargeResponse ChargeResponse
	if err := json.Unmarshal(body, &chargeResponse); err != nil {
		return nil, fmt.Errorf("%w: decode charge response: %v", domain.ErrPaymentFailed, err)
	}
	if chargeResponse.TransactionID == "" {
		return nil, fmt.Errorf("%w: charge response without transaction id", domain.ErrPaymentFailed)
	}
	return &domain.ChargeResult{TransactionID: chargeResponse.TransactionID, RawResponse: string(body)}, nil
}

func (g *HTTPPaymentGateway) Refund(ctx context.Context, transactionID string, amount int64) error {
	_, err := g.post(ctx, "/refunds", RefundRequest{TransactionID: transactionID, Amount: amount})
	return err
}

func (g *HTTPPaymentGateway) post(ctx context.Context, path string, payload any) ([]byte, error) {
	requestBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Address+path, bytes.NewReader(requestBodyBytes))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrPaymentFailed, err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBodyBytes, nil
	}
	var errorResponse ErrorResponse
	if err := json.Unmarshal(responseBodyBytes, &errorResponse); err != nil || errorResponse.Error == "" {
		return nil, fmt.Errorf("%w: gateway returned %d", domain.ErrPaymentFailed, response.StatusCode)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, errorResponse.Error)
}
