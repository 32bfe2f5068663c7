// internal/domain/coupon/evaluator.go
package coupon

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Evaluation is the outcome of checking a coupon against an order
// subtotal. When Valid is false, Reason explains the first rule that
// failed; rules are checked in a fixed order.
type Evaluation struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	Discount int64  `json:"discount"` // paise
}

// Evaluate applies the coupon rules in order: active flag, validity
// window, usage limit, minimum purchase, prior use by this user. The
// first failing rule wins. subtotal is in paise; usedBefore reports
// whether this user has already redeemed the coupon.
func Evaluate(c *Coupon, subtotal int64, usedBefore bool, now time.Time) Evaluation {
	if !c.IsActive {
		return Evaluation{Valid: false, Reason: "coupon is not active"}
	}

	if now.Before(c.StartDate) {
		return Evaluation{Valid: false, Reason: "coupon is not valid yet"}
	}
	if now.After(c.ExpiryDate) {
		return Evaluation{Valid: false, Reason: "coupon has expired"}
	}

	if c.IsExhausted() {
		return Evaluation{Valid: false, Reason: "coupon usage limit reached"}
	}

	if c.MinPurchaseAmount > 0 && subtotal < c.MinPurchaseAmount {
		shortfall := c.MinPurchaseAmount - subtotal
		return Evaluation{
			Valid:  false,
			Reason: fmt.Sprintf("minimum purchase not met, add %d more to use this coupon", shortfall),
		}
	}

	if usedBefore {
		return Evaluation{Valid: false, Reason: "coupon has already been used"}
	}

	return Evaluation{Valid: true, Discount: ComputeDiscount(c, subtotal)}
}

// ComputeDiscount calculates the discount in paise for a subtotal.
// Percentage discounts are rounded to whole paise and capped by
// MaxDiscountAmount when set; fixed discounts never exceed the
// subtotal. The result is never negative or larger than the subtotal.
func ComputeDiscount(c *Coupon, subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}

	var discount int64
	switch c.DiscountType {
	case TypePercentage:
		pct := decimal.NewFromInt(c.DiscountValue).Div(decimal.NewFromInt(100))
		discount = decimal.NewFromInt(subtotal).Mul(pct).Round(0).IntPart()
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
	case TypeFixed:
		discount = c.DiscountValue
	default:
		return 0
	}

	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
