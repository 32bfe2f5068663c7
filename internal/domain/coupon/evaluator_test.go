package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validCoupon() *Coupon {
	return &Coupon{
		Code:          "WELCOME10",
		DiscountType:  TypePercentage,
		DiscountValue: 10,
		StartDate:     time.Now().Add(-24 * time.Hour),
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestEvaluateRuleOrder(t *testing.T) {
	now := time.Now()

	t.Run("inactive coupon fails first", func(t *testing.T) {
		c := validCoupon()
		c.IsActive = false
		c.ExpiryDate = now.Add(-time.Hour) // expired too, but inactive wins

		eval := Evaluate(c, 100000, false, now)
		assert.False(t, eval.Valid)
		assert.Equal(t, "coupon is not active", eval.Reason)
	})

	t.Run("not started yet", func(t *testing.T) {
		c := validCoupon()
		c.StartDate = now.Add(time.Hour)

		eval := Evaluate(c, 100000, false, now)
		assert.False(t, eval.Valid)
		assert.Equal(t, "coupon is not valid yet", eval.Reason)
	})

	t.Run("expired", func(t *testing.T) {
		c := validCoupon()
		c.ExpiryDate = now.Add(-time.Hour)

		eval := Evaluate(c, 100000, false, now)
		assert.False(t, eval.Valid)
		assert.Equal(t, "coupon has expired", eval.Reason)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		c := validCoupon()
		c.UsageLimit = 5
		c.UsedCount = 5

		eval := Evaluate(c, 100000, false, now)
		assert.False(t, eval.Valid)
		assert.Equal(t, "coupon usage limit reached", eval.Reason)
	})

	t.Run("zero usage limit means unlimited", func(t *testing.T) {
		c := validCoupon()
		c.UsageLimit = 0
		c.UsedCount = 1000

		eval := Evaluate(c, 100000, false, now)
		assert.True(t, eval.Valid)
	})

	t.Run("minimum purchase shortfall", func(t *testing.T) {
		c := validCoupon()
		c.MinPurchaseAmount = 50000

		eval := Evaluate(c, 30000, false, now)
		assert.False(t, eval.Valid)
		assert.Equal(t, "minimum purchase not met, add 20000 more to use this coupon", eval.Reason)
	})

	t.Run("subtotal exactly at minimum purchase passes", func(t *testing.T) {
		c := validCoupon()
		c.MinPurchaseAmount = 50000

		eval := Evaluate(c, 50000, false, now)
		assert.True(t, eval.Valid)
	})

	t.Run("already used by this user", func(t *testing.T) {
		c := validCoupon()

		eval := Evaluate(c, 100000, true, now)
		assert.False(t, eval.Valid)
		assert.Equal(t, "coupon has already been used", eval.Reason)
	})

	t.Run("valid coupon carries discount", func(t *testing.T) {
		c := validCoupon()

		eval := Evaluate(c, 100000, false, now)
		assert.True(t, eval.Valid)
		assert.Empty(t, eval.Reason)
		assert.Equal(t, int64(10000), eval.Discount)
	})
}

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		subtotal int64
		want     int64
	}{
		{
			name:     "percentage discount",
			coupon:   Coupon{DiscountType: TypePercentage, DiscountValue: 10},
			subtotal: 250000,
			want:     25000,
		},
		{
			name:     "percentage rounds to whole paise",
			coupon:   Coupon{DiscountType: TypePercentage, DiscountValue: 15},
			subtotal: 99999,
			want:     15000, // 14999.85 rounds up
		},
		{
			name:     "percentage capped by max discount",
			coupon:   Coupon{DiscountType: TypePercentage, DiscountValue: 50, MaxDiscountAmount: 20000},
			subtotal: 100000,
			want:     20000,
		},
		{
			name:     "fixed discount",
			coupon:   Coupon{DiscountType: TypeFixed, DiscountValue: 5000},
			subtotal: 100000,
			want:     5000,
		},
		{
			name:     "fixed discount clamped to subtotal",
			coupon:   Coupon{DiscountType: TypeFixed, DiscountValue: 150000},
			subtotal: 100000,
			want:     100000,
		},
		{
			name:     "zero subtotal yields no discount",
			coupon:   Coupon{DiscountType: TypePercentage, DiscountValue: 10},
			subtotal: 0,
			want:     0,
		},
		{
			name:     "negative subtotal yields no discount",
			coupon:   Coupon{DiscountType: TypeFixed, DiscountValue: 5000},
			subtotal: -100,
			want:     0,
		},
		{
			name:     "unknown type yields no discount",
			coupon:   Coupon{DiscountType: "bogus", DiscountValue: 10},
			subtotal: 100000,
			want:     0,
		},
		{
			name:     "full percentage equals subtotal",
			coupon:   Coupon{DiscountType: TypePercentage, DiscountValue: 100},
			subtotal: 100000,
			want:     100000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscount(&tt.coupon, tt.subtotal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsExhausted(t *testing.T) {
	assert.False(t, (&Coupon{UsageLimit: 0, UsedCount: 99}).IsExhausted())
	assert.False(t, (&Coupon{UsageLimit: 100, UsedCount: 99}).IsExhausted())
	assert.True(t, (&Coupon{UsageLimit: 100, UsedCount: 100}).IsExhausted())
}
