// internal/domain/payment/service.go
package payment

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// Service handles payment verification against placed orders
type Service struct {
	db           *gorm.DB
	config       *config.Config
	gateway      *GatewayClient
	orderService *order.Service
}

// NewService creates a new payment service
func NewService(db *gorm.DB, cfg *config.Config, gateway *GatewayClient, orderService *order.Service) *Service {
	return &Service{
		db:           db,
		config:       cfg,
		gateway:      gateway,
		orderService: orderService,
	}
}

// VerifyPaymentRequest is the client callback after the payment widget
type VerifyPaymentRequest struct {
	OrderID          uint   `json:"order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// VerifyPayment checks the gateway signature for an order owned by the
// user. A valid signature marks the order PAID/CONFIRMED; an invalid
// one marks it FAILED/CANCELLED and returns a validation error.
func (s *Service) VerifyPayment(userID uint, req *VerifyPaymentRequest) (*order.Order, error) {
	var o order.Order
	if err := s.db.Where("id = ? AND user_id = ?", req.OrderID, userID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve order")
	}

	if o.PaymentMethod != order.MethodOnline {
		return nil, apperr.Validation("order was not placed with online payment")
	}
	if o.PaymentStatus == order.PaymentPaid {
		return &o, nil
	}
	if o.GatewayOrderRef == "" {
		return nil, apperr.Validation("order has no gateway reference")
	}

	valid := s.gateway.VerifySignature(o.GatewayOrderRef, req.GatewayPaymentID, req.Signature)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		return s.orderService.MarkPaymentOutcome(tx, &o, valid, req.GatewayPaymentID, userID)
	})
	if txErr != nil {
		return nil, apperr.Internal(txErr, "failed to record payment outcome")
	}

	if !valid {
		logrus.WithFields(logrus.Fields{
			"order_id":           o.ID,
			"gateway_order_ref":  o.GatewayOrderRef,
			"gateway_payment_id": req.GatewayPaymentID,
		}).Warn("Payment signature mismatch")
		return nil, apperr.Validation("payment signature verification failed")
	}

	return &o, nil
}
