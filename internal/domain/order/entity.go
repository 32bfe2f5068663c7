// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the order status
type Status string

const (
	StatusCreated        Status = "CREATED"
	StatusConfirmed      Status = "CONFIRMED"
	StatusShipped        Status = "SHIPPED"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment methods
const (
	MethodCOD    = "COD"
	MethodOnline = "ONLINE"
)

// Order represents a placed order with item and address snapshots
type Order struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderCode string `gorm:"uniqueIndex;not null;size:50" json:"order_code"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`

	// Address snapshot taken at checkout
	ShipFullName string `gorm:"size:100" json:"ship_full_name"`
	ShipPhone    string `gorm:"size:20" json:"ship_phone"`
	ShipHouse    string `gorm:"size:255" json:"ship_house"`
	ShipStreet   string `gorm:"size:255" json:"ship_street"`
	ShipCity     string `gorm:"size:100" json:"ship_city"`
	ShipState    string `gorm:"size:100" json:"ship_state"`
	ShipPinCode  string `gorm:"size:20" json:"ship_pin_code"`
	ShipCountry  string `gorm:"size:100" json:"ship_country"`

	// Financials in paise; TotalAmount = Subtotal + ShippingFee + TaxAmount - DiscountAmount
	Subtotal       int64 `gorm:"not null" json:"subtotal"`
	ShippingFee    int64 `gorm:"default:0" json:"shipping_fee"`
	TaxAmount      int64 `gorm:"default:0" json:"tax_amount"`
	DiscountAmount int64 `gorm:"default:0" json:"discount_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	CouponID   *uint  `gorm:"index" json:"coupon_id"`
	CouponCode string `gorm:"size:50" json:"coupon_code"`

	PaymentMethod    string        `gorm:"size:20;not null" json:"payment_method"`
	PaymentStatus    PaymentStatus `gorm:"size:20;not null;default:'PENDING'" json:"payment_status"`
	GatewayOrderRef  string        `gorm:"size:100;index" json:"gateway_order_ref"`
	GatewayPaymentID string        `gorm:"size:100" json:"gateway_payment_id"`

	Status Status `gorm:"size:30;not null;default:'CREATED'" json:"status"`

	ConfirmedAt        *time.Time `json:"confirmed_at"`
	ShippedAt          *time.Time `json:"shipped_at"`
	OutForDeliveryAt   *time.Time `json:"out_for_delivery_at"`
	DeliveredAt        *time.Time `json:"delivered_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a product snapshot captured when the order was placed
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	ProductName string    `gorm:"not null;size:255" json:"product_name"`
	Image       string    `gorm:"size:500" json:"image"`
	Size        string    `gorm:"size:20" json:"size"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   int64     `gorm:"not null" json:"unit_price"` // paise at order time
	LineTotal   int64     `gorm:"not null" json:"line_total"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderStatusHistory is the append-only status audit trail
type OrderStatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"size:30;not null" json:"status"`
	Note      string    `gorm:"size:500" json:"note"`
	ChangedBy uint      `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// GenerateOrderCode builds a human-readable unique order code.
func GenerateOrderCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// IsTerminal reports whether no further transitions are allowed.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

// CanBeCancelledByUser reports whether the owner may still cancel.
// Shipped orders are no longer cancellable by the customer.
func (o *Order) CanBeCancelledByUser() bool {
	return o.Status == StatusCreated || o.Status == StatusConfirmed
}
