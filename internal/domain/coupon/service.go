// internal/domain/coupon/service.go
package coupon

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// Service handles coupon business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateCouponRequest represents coupon creation data
type CreateCouponRequest struct {
	Code              string    `json:"code" binding:"required"`
	Description       string    `json:"description"`
	DiscountType      string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue     int64     `json:"discount_value" binding:"required,gt=0"`
	MinPurchaseAmount int64     `json:"min_purchase_amount"`
	MaxDiscountAmount int64     `json:"max_discount_amount"`
	StartDate         time.Time `json:"start_date" binding:"required"`
	ExpiryDate        time.Time `json:"expiry_date" binding:"required"`
	IsActive          *bool     `json:"is_active"`
	UsageLimit        int       `json:"usage_limit"`
}

// UpdateCouponRequest represents coupon update data
type UpdateCouponRequest struct {
	Description       *string    `json:"description"`
	DiscountValue     *int64     `json:"discount_value"`
	MinPurchaseAmount *int64     `json:"min_purchase_amount"`
	MaxDiscountAmount *int64     `json:"max_discount_amount"`
	StartDate         *time.Time `json:"start_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	IsActive          *bool      `json:"is_active"`
	UsageLimit        *int       `json:"usage_limit"`
}

// ValidateCouponRequest represents the soft validation request
type ValidateCouponRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal int64  `json:"subtotal" binding:"required,gt=0"`
}

// ValidationResult is the soft validation response; invalid coupons
// still produce an HTTP 200 with Valid false.
type ValidationResult struct {
	Valid    bool    `json:"valid"`
	Reason   string  `json:"reason,omitempty"`
	Discount int64   `json:"discount,omitempty"`
	Coupon   *Coupon `json:"coupon,omitempty"`
}

// CreateCoupon creates a new coupon (admin)
func (s *Service) CreateCoupon(adminID uint, req *CreateCouponRequest) (*Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperr.Validation("coupon code is required")
	}

	if req.DiscountType == TypePercentage && (req.DiscountValue <= 0 || req.DiscountValue > 100) {
		return nil, apperr.Validation("percentage discount must be between 1 and 100")
	}

	if !req.ExpiryDate.After(req.StartDate) {
		return nil, apperr.Validation("expiry date must be after start date")
	}

	var existing Coupon
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("coupon code %s already exists", code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err, "failed to check existing coupon")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	c := Coupon{
		Code:              code,
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		StartDate:         req.StartDate,
		ExpiryDate:        req.ExpiryDate,
		IsActive:          isActive,
		UsageLimit:        req.UsageLimit,
		CreatedBy:         adminID,
	}

	if err := s.db.Create(&c).Error; err != nil {
		return nil, apperr.Internal(err, "failed to create coupon")
	}

	return &c, nil
}

// UpdateCoupon applies a partial update to a coupon (admin)
func (s *Service) UpdateCoupon(id uint, req *UpdateCouponRequest) (*Coupon, error) {
	c, err := s.getByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DiscountValue != nil {
		if c.DiscountType == TypePercentage && (*req.DiscountValue <= 0 || *req.DiscountValue > 100) {
			return nil, apperr.Validation("percentage discount must be between 1 and 100")
		}
		updates["discount_value"] = *req.DiscountValue
	}
	if req.MinPurchaseAmount != nil {
		updates["min_purchase_amount"] = *req.MinPurchaseAmount
	}
	if req.MaxDiscountAmount != nil {
		updates["max_discount_amount"] = *req.MaxDiscountAmount
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}

	start := c.StartDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	expiry := c.ExpiryDate
	if req.ExpiryDate != nil {
		expiry = *req.ExpiryDate
	}
	if !expiry.After(start) {
		return nil, apperr.Validation("expiry date must be after start date")
	}

	if err := s.db.Model(c).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err, "failed to update coupon")
	}

	return s.getByID(id)
}

// DeleteCoupon soft-deletes a coupon (admin)
func (s *Service) DeleteCoupon(id uint) error {
	result := s.db.Delete(&Coupon{}, id)
	if result.Error != nil {
		return apperr.Internal(result.Error, "failed to delete coupon")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("coupon not found")
	}
	return nil
}

// ListCoupons returns all coupons (admin)
func (s *Service) ListCoupons() ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve coupons")
	}
	return coupons, nil
}

// AvailableCoupons returns the coupons a user can still redeem:
// active, in window, not exhausted, and not already used by this user.
func (s *Service) AvailableCoupons(userID uint) ([]Coupon, error) {
	now := time.Now().UTC()

	var coupons []Coupon
	if err := s.db.
		Where("is_active = ? AND start_date <= ? AND expiry_date >= ?", true, now, now).
		Order("expiry_date ASC").
		Find(&coupons).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve coupons")
	}

	available := make([]Coupon, 0, len(coupons))
	for _, c := range coupons {
		if c.IsExhausted() {
			continue
		}
		used, err := s.UsedByUser(c.ID, userID)
		if err != nil {
			return nil, err
		}
		if used {
			continue
		}
		available = append(available, c)
	}

	return available, nil
}

// Validate evaluates a coupon code against a subtotal without
// reserving it. Unknown codes report valid:false rather than erroring.
func (s *Service) Validate(userID uint, req *ValidateCouponRequest) (*ValidationResult, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var c Coupon
	if err := s.db.Where("code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Valid: false, Reason: "coupon not found"}, nil
		}
		return nil, apperr.Internal(err, "failed to retrieve coupon")
	}

	used, err := s.UsedByUser(c.ID, userID)
	if err != nil {
		return nil, err
	}

	eval := Evaluate(&c, req.Subtotal, used, time.Now().UTC())
	result := &ValidationResult{
		Valid:    eval.Valid,
		Reason:   eval.Reason,
		Discount: eval.Discount,
	}
	if eval.Valid {
		result.Coupon = &c
	}
	return result, nil
}

// FindByCode returns a coupon by its normalized code
func (s *Service) FindByCode(code string) (*Coupon, error) {
	var c Coupon
	if err := s.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve coupon")
	}
	return &c, nil
}

// UsedByUser reports whether the user has a non-cancelled order that
// redeemed this coupon. The check scans the order history rather than
// a separate redemption table.
func (s *Service) UsedByUser(couponID, userID uint) (bool, error) {
	var count int64
	err := s.db.Table("orders").
		Where("user_id = ? AND coupon_id = ? AND status <> ?", userID, couponID, "CANCELLED").
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal(err, "failed to check coupon usage")
	}
	return count > 0, nil
}

// Redeem atomically increments the coupon's used count, refusing when
// the usage limit has been reached. Intended to run inside the
// checkout transaction.
func Redeem(tx *gorm.DB, couponID uint) error {
	result := tx.Model(&Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return apperr.Internal(result.Error, "failed to redeem coupon")
	}
	if result.RowsAffected == 0 {
		return apperr.Conflict("coupon usage limit reached")
	}
	return nil
}

func (s *Service) getByID(id uint) (*Coupon, error) {
	var c Coupon
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve coupon")
	}
	return &c, nil
}
