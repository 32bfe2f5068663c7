// internal/domain/cart/service.go
package cart

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Size     string `json:"size"`
}

// AddItem adds a product line to the user's cart, lazily creating the
// cart. An existing (product, size) line has its quantity incremented.
func (s *Service) AddItem(userID uint, req *AddToCartRequest) (*CartView, error) {
	var prod product.Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve product")
	}

	if req.Size != "" && !prod.HasSize(req.Size) {
		return nil, apperr.Validation("size %q is not available for this product", req.Size)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userCart, err := s.getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var line CartItem
		result := tx.Where("cart_id = ? AND product_id = ? AND size = ?",
			userCart.ID, req.ProductID, req.Size).First(&line)
		if result.Error == nil {
			return tx.Model(&line).Update("quantity", line.Quantity+req.Quantity).Error
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		line = CartItem{
			CartID:    userCart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Size:      req.Size,
		}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to add item to cart")
	}

	return s.GetCart(userID)
}

// UpdateItem sets the exact quantity of a cart line
func (s *Service) UpdateItem(userID, productID uint, req *UpdateCartItemRequest) (*CartView, error) {
	userCart, err := s.findCart(userID)
	if err != nil {
		return nil, err
	}

	var line CartItem
	result := s.db.Where("cart_id = ? AND product_id = ? AND size = ?",
		userCart.ID, productID, req.Size).First(&line)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item not found in cart")
		}
		return nil, apperr.Internal(result.Error, "failed to retrieve cart item")
	}

	if err := s.db.Model(&line).Update("quantity", req.Quantity).Error; err != nil {
		return nil, apperr.Internal(err, "failed to update cart item")
	}

	return s.GetCart(userID)
}

// RemoveItem removes a (product, size) line; removing an absent line succeeds
func (s *Service) RemoveItem(userID, productID uint, size string) (*CartView, error) {
	userCart, err := s.findCart(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("cart_id = ? AND product_id = ? AND size = ?",
		userCart.ID, productID, size).Delete(&CartItem{}).Error; err != nil {
		return nil, apperr.Internal(err, "failed to remove cart item")
	}

	return s.GetCart(userID)
}

// ClearCart removes every line from the user's cart
func (s *Service) ClearCart(userID uint) error {
	userCart, err := s.findCart(userID)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			return nil
		}
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", userCart.ID).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Cart{}, userCart.ID).Error
	})
	if err != nil {
		return apperr.Internal(err, "failed to clear cart")
	}
	return nil
}

// GetCart returns the user's cart with product details and computed
// totals. Lines whose product no longer exists (or was deactivated)
// are dropped and the stored cart is rewritten without them; when the
// healing empties the cart, the cart row itself is deleted.
func (s *Service) GetCart(userID uint) (*CartView, error) {
	userCart, err := s.findCart(userID)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			return &CartView{Items: []CartLineView{}}, nil
		}
		return nil, err
	}

	var lines []CartItem
	if err := s.db.Where("cart_id = ?", userCart.ID).Order("created_at ASC").Find(&lines).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve cart items")
	}

	products, err := s.loadProducts(lines)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		CartID: userCart.ID,
		Status: userCart.Status,
		Items:  []CartLineView{},
	}

	var orphanedIDs []uint
	for _, line := range lines {
		prod, ok := products[line.ProductID]
		if !ok {
			orphanedIDs = append(orphanedIDs, line.ID)
			logrus.WithFields(logrus.Fields{
				"cart_id":    userCart.ID,
				"product_id": line.ProductID,
			}).Warn("Dropping cart line for missing product")
			continue
		}

		lineTotal := prod.Price * int64(line.Quantity)
		view.Items = append(view.Items, CartLineView{
			ItemID:      line.ID,
			ProductID:   line.ProductID,
			Name:        prod.Name,
			Image:       prod.PrimaryImage(),
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   prod.Price,
			LineTotal:   lineTotal,
			InStock:     prod.Stock > 0,
			IsAvailable: prod.IsActive,
		})
		view.TotalItems += line.Quantity
		view.SubTotal += lineTotal
	}

	if len(orphanedIDs) > 0 {
		if err := s.healCart(userCart, orphanedIDs, len(view.Items) == 0); err != nil {
			return nil, err
		}
		if len(view.Items) == 0 {
			return &CartView{Items: []CartLineView{}}, nil
		}
	}

	return view, nil
}

// FindActiveCart returns the raw cart and its lines for checkout
func (s *Service) FindActiveCart(userID uint) (*Cart, []CartItem, error) {
	userCart, err := s.findCart(userID)
	if err != nil {
		return nil, nil, err
	}

	var lines []CartItem
	if err := s.db.Where("cart_id = ?", userCart.ID).Find(&lines).Error; err != nil {
		return nil, nil, apperr.Internal(err, "failed to retrieve cart items")
	}

	return userCart, lines, nil
}

func (s *Service) findCart(userID uint) (*Cart, error) {
	var userCart Cart
	result := s.db.Where("user_id = ? AND status = ?", userID, StatusActive).First(&userCart)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart not found")
		}
		return nil, apperr.Internal(result.Error, "failed to retrieve cart")
	}
	return &userCart, nil
}

// getOrCreateCart returns the user's single cart row. A cart consumed
// by a previous checkout (status "ordered") is revived rather than
// duplicated; the carts table holds at most one row per user.
func (s *Service) getOrCreateCart(tx *gorm.DB, userID uint) (*Cart, error) {
	var userCart Cart
	result := tx.Where("user_id = ?", userID).First(&userCart)
	if result.Error == nil {
		if userCart.Status != StatusActive {
			if err := tx.Model(&userCart).Update("status", StatusActive).Error; err != nil {
				return nil, err
			}
			userCart.Status = StatusActive
		}
		return &userCart, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	userCart = Cart{UserID: userID, Status: StatusActive}
	if err := tx.Create(&userCart).Error; err != nil {
		return nil, err
	}
	return &userCart, nil
}

func (s *Service) loadProducts(lines []CartItem) (map[uint]*product.Product, error) {
	if len(lines) == 0 {
		return map[uint]*product.Product{}, nil
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	var products []product.Product
	if err := s.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Where("id IN ? AND is_active = ?", ids, true).Find(&products).Error; err != nil {
		return nil, apperr.Internal(err, "failed to load cart products")
	}

	byID := make(map[uint]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (s *Service) healCart(userCart *Cart, orphanedIDs []uint, emptied bool) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", orphanedIDs).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		if emptied {
			return tx.Delete(&Cart{}, userCart.ID).Error
		}
		return nil
	})
	if err != nil {
		return apperr.Internal(err, "failed to heal cart")
	}
	return nil
}
