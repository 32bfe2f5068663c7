// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/response"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
	"github.com/your-org/storefront-backend/internal/pkg/email"
)

// PaymentHandler handles payment verification endpoints
type PaymentHandler struct {
	paymentService  *payment.Service
	checkoutService *checkout.Service
	config          *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	gateway := payment.NewGatewayClient(cfg)

	return &PaymentHandler{
		paymentService: payment.NewService(db, cfg, gateway, order.NewService(db, cfg)),
		checkoutService: checkout.NewService(
			db,
			cfg,
			cart.NewService(db, cfg),
			coupon.NewService(db, cfg),
			gateway,
			email.NewService(cfg),
		),
		config: cfg,
	}
}

// VerifyPayment handles POST /checkout/verify-payment
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req payment.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	verifiedOrder, err := h.paymentService.VerifyPayment(userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.checkoutService.NotifyPaymentVerified(userID, verifiedOrder)

	response.OK(c, "Payment verified successfully", verifiedOrder)
}
