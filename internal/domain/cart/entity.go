// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Cart status values
const (
	StatusActive  = "active"
	StatusOrdered = "ordered"
)

// Cart represents a user's single shopping cart. One row per user:
// a cart consumed by checkout is revived on the next add, never
// re-inserted.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Status    string     `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem represents one line in a cart, unique per (cart, product, size)
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index" json:"cart_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Size      string    `gorm:"size:20" json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// CartLineView is a cart item joined with its product snapshot for display
type CartLineView struct {
	ItemID      uint   `json:"item_id"`
	ProductID   uint   `json:"product_id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
	InStock     bool   `json:"in_stock"`
	IsAvailable bool   `json:"is_available"`
}

// CartView is the cart as returned to clients; totals are always
// computed on read, never persisted.
type CartView struct {
	CartID     uint           `json:"cart_id"`
	Status     string         `json:"status"`
	Items      []CartLineView `json:"items"`
	TotalItems int            `json:"total_items"`
	SubTotal   int64          `json:"sub_total"`
}
