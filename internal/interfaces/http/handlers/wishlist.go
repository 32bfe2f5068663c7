// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/response"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	config          *config.Config
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(db *gorm.DB, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlist.NewService(db, cfg),
		config:          cfg,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	items, err := h.wishlistService.GetWishlist(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Wishlist retrieved successfully", items)
}

// AddToWishlist handles POST /wishlist/:productId
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	result, err := h.wishlistService.AddProduct(userID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !result.Added {
		response.OK(c, "Product already in wishlist", result)
		return
	}

	response.OK(c, "Product added to wishlist", result)
}

// RemoveFromWishlist handles DELETE /wishlist/:productId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	result, err := h.wishlistService.RemoveProduct(userID, productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !result.Removed {
		response.OK(c, "Product was not in wishlist", result)
		return
	}

	response.OK(c, "Product removed from wishlist", result)
}
