// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/response"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg),
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	view, err := h.cartService.GetCart(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", view)
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	view, err := h.cartService.AddItem(userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart successfully", view)
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	view, err := h.cartService.UpdateItem(userID, productID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart item updated successfully", view)
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	size := c.Query("size")

	view, err := h.cartService.RemoveItem(userID, productID, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart successfully", view)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		response.Error(c, apperr.Unauthorized("authentication required"))
		return
	}

	if err := h.cartService.ClearCart(userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared successfully", nil)
}
