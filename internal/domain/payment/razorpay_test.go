package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

func testClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		keyID:      "rzp_test_key",
		keySecret:  "rzp_test_secret",
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func signPayload(secret, orderRef, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := testClient("")

	orderRef := "order_ABC123"
	paymentID := "pay_XYZ789"
	valid := signPayload("rzp_test_secret", orderRef, paymentID)

	assert.True(t, client.VerifySignature(orderRef, paymentID, valid))
	assert.False(t, client.VerifySignature(orderRef, paymentID, "deadbeef"))
	assert.False(t, client.VerifySignature(orderRef, "pay_other", valid))
	assert.False(t, client.VerifySignature("order_other", paymentID, valid))
	assert.False(t, client.VerifySignature(orderRef, paymentID, ""))

	// Signature computed with the wrong secret
	wrongSecret := signPayload("other_secret", orderRef, paymentID)
	assert.False(t, client.VerifySignature(orderRef, paymentID, wrongSecret))
}

func TestCreateOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "rzp_test_key", user)
			assert.Equal(t, "rzp_test_secret", pass)

			var req createOrderRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(125000), req.Amount)
			assert.Equal(t, "INR", req.Currency)
			assert.Equal(t, "ORD-1-ABCDEF", req.Receipt)

			json.NewEncoder(w).Encode(GatewayOrder{
				ID:       "order_ABC123",
				Amount:   req.Amount,
				Currency: req.Currency,
				Receipt:  req.Receipt,
				Status:   "created",
			})
		}))
		defer srv.Close()

		client := testClient(srv.URL)
		gatewayOrder, err := client.CreateOrder(context.Background(), 125000, "INR", "ORD-1-ABCDEF")

		assert.NoError(t, err)
		assert.Equal(t, "order_ABC123", gatewayOrder.ID)
		assert.Equal(t, int64(125000), gatewayOrder.Amount)
	})

	t.Run("below minimum amount", func(t *testing.T) {
		client := testClient("http://unused.invalid")

		_, err := client.CreateOrder(context.Background(), MinChargeAmount-1, "INR", "ORD-1-ABCDEF")

		assert.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("gateway rejection maps to upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := testClient(srv.URL)
		_, err := client.CreateOrder(context.Background(), 125000, "INR", "ORD-1-ABCDEF")

		assert.Error(t, err)
		assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	})

	t.Run("unreachable gateway maps to upstream error", func(t *testing.T) {
		client := testClient("http://127.0.0.1:1")

		_, err := client.CreateOrder(context.Background(), 125000, "INR", "ORD-1-ABCDEF")

		assert.Error(t, err)
		assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	})
}
