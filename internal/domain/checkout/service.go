// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// ConfirmationSender sends order confirmations; failures are logged,
// never surfaced to the customer.
type ConfirmationSender interface {
	SendOrderConfirmation(toEmail, toName, orderCode string, totalAmount int64) error
}

// Service orchestrates the checkout flow
type Service struct {
	db            *gorm.DB
	config        *config.Config
	cartService   *cart.Service
	couponService *coupon.Service
	gateway       *payment.GatewayClient
	mailer        ConfirmationSender
}

// NewService creates a new checkout service
func NewService(
	db *gorm.DB,
	cfg *config.Config,
	cartService *cart.Service,
	couponService *coupon.Service,
	gateway *payment.GatewayClient,
	mailer ConfirmationSender,
) *Service {
	return &Service{
		db:            db,
		config:        cfg,
		cartService:   cartService,
		couponService: couponService,
		gateway:       gateway,
		mailer:        mailer,
	}
}

// SelectedLine identifies one cart line chosen for checkout. Quantity,
// when given, overrides the quantity stored on the cart line.
type SelectedLine struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

// CheckoutRequest represents the place-order request
type CheckoutRequest struct {
	AddressID      uint           `json:"address_id" binding:"required"`
	Items          []SelectedLine `json:"items" binding:"required,min=1"`
	PaymentMethod  string         `json:"payment_method" binding:"required,oneof=COD ONLINE"`
	CouponCode     string         `json:"coupon_code"`
	ExpectedAmount int64          `json:"expected_amount"`
}

// PaymentInitiation carries what the payment widget needs for ONLINE orders
type PaymentInitiation struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// CheckoutResponse is the result of a successful checkout
type CheckoutResponse struct {
	Order   *order.Order       `json:"order"`
	Payment *PaymentInitiation `json:"payment,omitempty"`
}

// Checkout places an order from the user's cart. Order creation, cart
// line removal, and coupon redemption run in one transaction; for
// ONLINE payments the gateway order is created after commit and a
// gateway failure cancels the order and restores the cart lines.
func (s *Service) Checkout(ctx context.Context, userID uint, req *CheckoutRequest) (*CheckoutResponse, error) {
	address, err := s.loadAddress(userID, req.AddressID)
	if err != nil {
		return nil, err
	}

	userCart, cartLines, err := s.cartService.FindActiveCart(userID)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			return nil, apperr.Validation("cart is empty")
		}
		return nil, err
	}

	matched, removedIDs := s.matchSelectedLines(userCart.ID, cartLines, req.Items)
	if len(matched) == 0 {
		return nil, apperr.Validation("no matching items found in cart")
	}

	items, subtotal, err := s.snapshotItems(matched)
	if err != nil {
		return nil, err
	}

	var appliedCoupon *coupon.Coupon
	var discount int64
	if req.CouponCode != "" {
		appliedCoupon, discount, err = s.evaluateCoupon(userID, req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	shippingFee := s.config.Checkout.ShippingFee
	var taxAmount int64 // taxes are not levied separately
	total := subtotal + shippingFee + taxAmount - discount

	if req.ExpectedAmount > 0 && req.ExpectedAmount != total {
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,
			"expected": req.ExpectedAmount,
			"computed": total,
		}).Warn("Checkout expected amount differs from computed total")
	}

	newOrder := &order.Order{
		OrderCode:      order.GenerateOrderCode(),
		UserID:         userID,
		ShipFullName:   address.FullName,
		ShipPhone:      address.Phone,
		ShipHouse:      address.House,
		ShipStreet:     address.Street,
		ShipCity:       address.City,
		ShipState:      address.State,
		ShipPinCode:    address.PinCode,
		ShipCountry:    address.Country,
		Subtotal:       subtotal,
		ShippingFee:    shippingFee,
		TaxAmount:      taxAmount,
		DiscountAmount: discount,
		TotalAmount:    total,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  order.PaymentPending,
		Status:         order.StatusCreated,
		Items:          items,
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if appliedCoupon != nil {
			if err := coupon.Redeem(tx, appliedCoupon.ID); err != nil {
				// Redemption lost a race on the usage limit; the
				// order proceeds without the discount.
				logrus.WithFields(logrus.Fields{
					"user_id": userID,
					"coupon":  appliedCoupon.Code,
				}).Warn("Coupon exhausted during checkout, placing order without discount")
				newOrder.CouponID = nil
				newOrder.CouponCode = ""
				newOrder.DiscountAmount = 0
				newOrder.TotalAmount = subtotal + shippingFee + taxAmount
			} else {
				newOrder.CouponID = &appliedCoupon.ID
				newOrder.CouponCode = appliedCoupon.Code
			}
		}

		if err := tx.Create(newOrder).Error; err != nil {
			return err
		}

		history := order.OrderStatusHistory{
			OrderID:   newOrder.ID,
			Status:    order.StatusCreated,
			Note:      "order placed",
			ChangedBy: userID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if err := tx.Where("id IN ?", removedIDs).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&cart.CartItem{}).Where("cart_id = ?", userCart.ID).Count(&remaining).Error; err != nil {
			return err
		}
		cartStatus := cart.StatusActive
		if remaining == 0 {
			cartStatus = cart.StatusOrdered
		}
		return tx.Model(&cart.Cart{}).Where("id = ?", userCart.ID).Update("status", cartStatus).Error
	})
	if txErr != nil {
		return nil, apperr.Internal(txErr, "failed to place order")
	}

	if req.PaymentMethod == order.MethodOnline {
		initiation, err := s.initiateGatewayPayment(ctx, newOrder, userCart.ID, matched)
		if err != nil {
			return nil, err
		}
		return &CheckoutResponse{Order: newOrder, Payment: initiation}, nil
	}

	s.sendConfirmation(userID, newOrder)

	return &CheckoutResponse{Order: newOrder}, nil
}

// NotifyPaymentVerified sends the confirmation email after a
// successful online payment.
func (s *Service) NotifyPaymentVerified(userID uint, o *order.Order) {
	s.sendConfirmation(userID, o)
}

func (s *Service) loadAddress(userID, addressID uint) (*user.Address, error) {
	var address user.Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("delivery address not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve address")
	}
	return &address, nil
}

// matchSelectedLines pairs the request's selected lines with cart
// lines by (product, size). A selection carrying a quantity overrides
// the cart line's stored quantity on the returned copy. Unmatched
// selections are logged and skipped.
func (s *Service) matchSelectedLines(cartID uint, cartLines []cart.CartItem, selected []SelectedLine) ([]cart.CartItem, []uint) {
	byKey := make(map[lineID]cart.CartItem, len(cartLines))
	for _, line := range cartLines {
		byKey[lineKey(line.ProductID, line.Size)] = line
	}

	var matched []cart.CartItem
	var removedIDs []uint
	seen := make(map[lineID]bool, len(selected))
	for _, sel := range selected {
		key := lineKey(sel.ProductID, sel.Size)
		if seen[key] {
			continue
		}
		seen[key] = true

		line, ok := byKey[key]
		if !ok {
			logrus.WithFields(logrus.Fields{
				"cart_id":    cartID,
				"product_id": sel.ProductID,
				"size":       sel.Size,
			}).Warn("Skipping selected item not present in cart")
			continue
		}
		if sel.Quantity > 0 {
			line.Quantity = sel.Quantity
		}
		matched = append(matched, line)
		removedIDs = append(removedIDs, line.ID)
	}

	return matched, removedIDs
}

// snapshotItems loads current product data and freezes it into order items
func (s *Service) snapshotItems(lines []cart.CartItem) ([]order.OrderItem, int64, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	var products []product.Product
	if err := s.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Where("id IN ? AND is_active = ?", ids, true).Find(&products).Error; err != nil {
		return nil, 0, apperr.Internal(err, "failed to load products for checkout")
	}

	byID := make(map[uint]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var items []order.OrderItem
	var subtotal int64
	for _, line := range lines {
		prod, ok := byID[line.ProductID]
		if !ok {
			return nil, 0, apperr.Validation("product %d is no longer available", line.ProductID)
		}
		lineTotal := prod.Price * int64(line.Quantity)
		items = append(items, order.OrderItem{
			ProductID:   prod.ID,
			ProductName: prod.Name,
			Image:       prod.PrimaryImage(),
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   prod.Price,
			LineTotal:   lineTotal,
		})
		subtotal += lineTotal
	}

	return items, subtotal, nil
}

// evaluateCoupon applies the coupon best-effort: an invalid coupon is
// logged and ignored rather than failing the checkout.
func (s *Service) evaluateCoupon(userID uint, code string, subtotal int64) (*coupon.Coupon, int64, error) {
	c, err := s.couponService.FindByCode(code)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			logrus.WithField("coupon", code).Warn("Unknown coupon code at checkout, ignoring")
			return nil, 0, nil
		}
		return nil, 0, err
	}

	used, err := s.couponService.UsedByUser(c.ID, userID)
	if err != nil {
		return nil, 0, err
	}

	eval := coupon.Evaluate(c, subtotal, used, time.Now().UTC())
	if !eval.Valid {
		logrus.WithFields(logrus.Fields{
			"coupon": c.Code,
			"reason": eval.Reason,
		}).Warn("Coupon not applicable at checkout, ignoring")
		return nil, 0, nil
	}

	return c, eval.Discount, nil
}

// initiateGatewayPayment creates the gateway order after the local
// order committed. On gateway failure the order is marked
// FAILED/CANCELLED, the removed cart lines are restored, and an
// upstream error is returned.
func (s *Service) initiateGatewayPayment(ctx context.Context, newOrder *order.Order, cartID uint, removed []cart.CartItem) (*PaymentInitiation, error) {
	gatewayOrder, err := s.gateway.CreateOrder(ctx, newOrder.TotalAmount, s.config.Checkout.Currency, newOrder.OrderCode)
	if err != nil {
		s.compensateGatewayFailure(newOrder, cartID, removed)
		return nil, err
	}

	if err := s.db.Model(newOrder).Update("gateway_order_ref", gatewayOrder.ID).Error; err != nil {
		return nil, apperr.Internal(err, "failed to store gateway order reference")
	}
	newOrder.GatewayOrderRef = gatewayOrder.ID

	return &PaymentInitiation{
		GatewayOrderID: gatewayOrder.ID,
		Amount:         newOrder.TotalAmount,
		Currency:       s.config.Checkout.Currency,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

func (s *Service) compensateGatewayFailure(failedOrder *order.Order, cartID uint, removed []cart.CartItem) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		failedOrder.PaymentStatus = order.PaymentFailed
		order.ApplyStatus(failedOrder, order.StatusCancelled, now)
		if err := tx.Save(failedOrder).Error; err != nil {
			return err
		}

		history := order.OrderStatusHistory{
			OrderID: failedOrder.ID,
			Status:  order.StatusCancelled,
			Note:    "payment gateway order creation failed",
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		// Put the purchased lines back so the customer can retry
		for _, line := range removed {
			restored := cart.CartItem{
				CartID:    cartID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Size:      line.Size,
			}
			if err := tx.Create(&restored).Error; err != nil {
				return err
			}
		}

		return tx.Model(&cart.Cart{}).Where("id = ?", cartID).Update("status", cart.StatusActive).Error
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"order_id": failedOrder.ID,
			"error":    err.Error(),
		}).Error("Failed to compensate after gateway failure")
	}
}

func (s *Service) sendConfirmation(userID uint, o *order.Order) {
	if s.mailer == nil {
		return
	}

	var account user.User
	if err := s.db.First(&account, userID).Error; err != nil {
		logrus.WithField("user_id", userID).Warn("Skipping confirmation email, user lookup failed")
		return
	}

	if err := s.mailer.SendOrderConfirmation(account.Email, account.Name, o.OrderCode, o.TotalAmount); err != nil {
		logrus.WithFields(logrus.Fields{
			"order_id": o.ID,
			"error":    err.Error(),
		}).Warn("Failed to send order confirmation email")
	}
}

type lineID struct {
	productID uint
	size      string
}

func lineKey(productID uint, size string) lineID {
	return lineID{productID: productID, size: size}
}
