// internal/domain/payment/razorpay.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// MinChargeAmount is the smallest amount (in paise) the gateway accepts.
const MinChargeAmount = 100

// GatewayClient talks to the Razorpay REST API
type GatewayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewGatewayClient creates a gateway client from configuration
func NewGatewayClient(cfg *config.Config) *GatewayClient {
	return &GatewayClient{
		keyID:     cfg.Razorpay.KeyID,
		keySecret: cfg.Razorpay.KeySecret,
		baseURL:   cfg.Razorpay.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Razorpay.Timeout,
		},
	}
}

// KeyID exposes the public key for payment widgets.
func (g *GatewayClient) KeyID() string {
	return g.keyID
}

// GatewayOrder is the gateway's order representation
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder registers an order with the gateway. amount is in paise
// and must meet the gateway minimum.
func (g *GatewayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	if amount < MinChargeAmount {
		return nil, apperr.Validation("amount %d is below the gateway minimum of %d", amount, MinChargeAmount)
	}

	payload, err := json.Marshal(createOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Internal(err, "failed to build gateway request")
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream(err, "payment gateway unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to read gateway response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream(
			fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body)),
			"payment gateway rejected the order")
	}

	var gatewayOrder GatewayOrder
	if err := json.Unmarshal(body, &gatewayOrder); err != nil {
		return nil, apperr.Upstream(err, "failed to decode gateway response")
	}

	return &gatewayOrder, nil
}

// VerifySignature recomputes the gateway callback signature and
// compares it in constant time.
func (g *GatewayClient) VerifySignature(gatewayOrderRef, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(gatewayOrderRef + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
