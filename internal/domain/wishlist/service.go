// internal/domain/wishlist/service.go
package wishlist

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// Service handles wishlist business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// WishlistItemView represents a wishlist item with product details
type WishlistItemView struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Price       int64     `json:"price"`
	IsAvailable bool      `json:"is_available"`
	AddedAt     time.Time `json:"added_at"`
}

// MutationResult reports whether an add/remove changed the wishlist
type MutationResult struct {
	Added   bool `json:"added,omitempty"`
	Removed bool `json:"removed,omitempty"`
	Count   int  `json:"count"`
}

// AddProduct adds a product to the user's wishlist. Duplicates report
// added false; a full wishlist is a conflict.
func (s *Service) AddProduct(userID, productID uint) (*MutationResult, error) {
	var prod product.Product
	if err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve product")
	}

	var count int64
	if err := s.db.Model(&WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count wishlist items")
	}

	var existing WishlistItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return &MutationResult{Added: false, Count: int(count)}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err, "failed to check wishlist")
	}

	if count >= MaxItems {
		return nil, apperr.Conflict("wishlist is full (maximum %d items)", MaxItems)
	}

	item := WishlistItem{UserID: userID, ProductID: productID}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apperr.Internal(err, "failed to add to wishlist")
	}

	return &MutationResult{Added: true, Count: int(count) + 1}, nil
}

// RemoveProduct removes a product from the wishlist; removing an
// absent product succeeds with removed false and an unchanged count.
func (s *Service) RemoveProduct(userID, productID uint) (*MutationResult, error) {
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&WishlistItem{})
	if result.Error != nil {
		return nil, apperr.Internal(result.Error, "failed to remove from wishlist")
	}

	var count int64
	if err := s.db.Model(&WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count wishlist items")
	}

	return &MutationResult{Removed: result.RowsAffected > 0, Count: int(count)}, nil
}

// GetWishlist lists the user's wishlisted products with current details
func (s *Service) GetWishlist(userID uint) ([]WishlistItemView, error) {
	var items []WishlistItem
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve wishlist")
	}

	if len(items) == 0 {
		return []WishlistItemView{}, nil
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []product.Product
	if err := s.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load wishlist products")
	}

	byID := make(map[uint]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	views := make([]WishlistItemView, 0, len(items))
	for _, item := range items {
		prod, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		views = append(views, WishlistItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Name:        prod.Name,
			Image:       prod.PrimaryImage(),
			Price:       prod.Price,
			IsAvailable: prod.IsActive && prod.Stock > 0,
			AddedAt:     item.CreatedAt,
		})
	}

	return views, nil
}
