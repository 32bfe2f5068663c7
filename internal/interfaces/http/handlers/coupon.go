// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/coupon"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/response"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	couponService *coupon.Service
	config        *config.Config
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(db *gorm.DB, cfg *config.Config) *CouponHandler {
	return &CouponHandler{
		couponService: coupon.NewService(db, cfg),
		config:        cfg,
	}
}

// GetAvailableCoupons handles GET /coupons
func (h *CouponHandler) GetAvailableCoupons(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	coupons, err := h.couponService.AvailableCoupons(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupons retrieved successfully", coupons)
}

// ValidateCoupon handles POST /coupons/validate
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req coupon.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	result, err := h.couponService.Validate(userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon validation completed", result)
}

// ListCoupons handles GET /admin/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponService.ListCoupons()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupons retrieved successfully", coupons)
}

// CreateCoupon handles POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	adminID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req coupon.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	created, err := h.couponService.CreateCoupon(adminID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Coupon created successfully", created)
}

// UpdateCoupon handles PUT /admin/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	couponID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req coupon.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	updated, err := h.couponService.UpdateCoupon(couponID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon updated successfully", updated)
}

// DeleteCoupon handles DELETE /admin/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	couponID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.couponService.DeleteCoupon(couponID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon deleted successfully", nil)
}
