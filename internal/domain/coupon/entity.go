// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"gorm.io/gorm"
)

// Discount types
const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

// Coupon represents a discount coupon
type Coupon struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Code              string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Description       string         `gorm:"size:500" json:"description"`
	DiscountType      string         `gorm:"size:20;not null" json:"discount_type"` // percentage or fixed
	DiscountValue     int64          `gorm:"not null" json:"discount_value"`        // percent (1-100) or paise
	MinPurchaseAmount int64          `gorm:"default:0" json:"min_purchase_amount"`  // paise, 0 = none
	MaxDiscountAmount int64          `gorm:"default:0" json:"max_discount_amount"`  // paise cap for percentage, 0 = uncapped
	StartDate         time.Time      `gorm:"not null" json:"start_date"`
	ExpiryDate        time.Time      `gorm:"not null" json:"expiry_date"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	UsageLimit        int            `gorm:"default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount         int            `gorm:"default:0" json:"used_count"`
	CreatedBy         uint           `gorm:"index" json:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string {
	return "coupons"
}

// IsExhausted reports whether the usage limit has been reached.
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// InWindow reports whether now falls within the validity window.
func (c *Coupon) InWindow(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.ExpiryDate)
}
