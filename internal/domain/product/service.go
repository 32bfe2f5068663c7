// internal/domain/product/service.go
package product

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page          int    `form:"page,default=1"`
	Limit         int    `form:"limit,default=20"`
	CategoryID    uint   `form:"category_id"`
	SubCategoryID uint   `form:"sub_category_id"`
	Search        string `form:"search"`
	SortBy        string `form:"sort_by,default=created_at"`
	SortOrder     string `form:"sort_order,default=desc"`
	MinPrice      int64  `form:"min_price"`
	MaxPrice      int64  `form:"max_price"`
	IsActive      *bool  `form:"is_active"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" binding:"required,gt=0"`
	CategoryID    uint     `json:"category_id" binding:"required"`
	SubCategoryID *uint    `json:"sub_category_id"`
	Sizes         []string `json:"sizes"`
	Stock         int      `json:"stock"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"is_active"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *int64   `json:"price"`
	CategoryID    *uint    `json:"category_id"`
	SubCategoryID *uint    `json:"sub_category_id"`
	Sizes         []string `json:"sizes"`
	Stock         *int     `json:"stock"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"is_active"`
}

// ProductListResponse represents product response with pagination
type ProductListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("SubCategory").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.SubCategoryID > 0 {
		query = query.Where("sub_category_id = ?", req.SubCategoryID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}

	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count products")
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve products")
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductListResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.
		Preload("Category").
		Preload("SubCategory").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(result.Error, "failed to retrieve product")
	}

	return &product, nil
}

// CreateProduct creates a new product with its images
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	if len(req.Images) > MaxImagesPerProduct {
		return nil, apperr.Validation("a product can have at most %d images", MaxImagesPerProduct)
	}

	var category Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("category not found")
		}
		return nil, apperr.Internal(err, "failed to verify category")
	}

	if req.SubCategoryID != nil {
		var sub SubCategory
		if err := s.db.Where("id = ? AND category_id = ?", *req.SubCategoryID, req.CategoryID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("sub-category not found under category")
			}
			return nil, apperr.Internal(err, "failed to verify sub-category")
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Sizes:         joinSizes(req.Sizes),
		Stock:         req.Stock,
		IsActive:      isActive,
	}
	for i, url := range req.Images {
		product.Images = append(product.Images, ProductImage{URL: url, SortOrder: i})
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, apperr.Internal(err, "failed to create product")
	}

	return s.GetProduct(product.ID)
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	if len(req.Images) > MaxImagesPerProduct {
		return nil, apperr.Validation("a product can have at most %d images", MaxImagesPerProduct)
	}

	var product Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve product")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperr.Validation("price must be positive")
		}
		updates["price"] = *req.Price
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.SubCategoryID != nil {
		updates["sub_category_id"] = *req.SubCategoryID
	}
	if req.Sizes != nil {
		updates["sizes"] = joinSizes(req.Sizes)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&ProductImage{}).Error; err != nil {
				return err
			}
			for i, url := range req.Images {
				img := ProductImage{ProductID: product.ID, URL: url, SortOrder: i}
				if err := tx.Create(&img).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(err, "failed to update product")
	}

	return s.GetProduct(product.ID)
}

// DeleteProduct soft-deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return apperr.Internal(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	allowed := map[string]bool{
		"created_at": true,
		"price":      true,
		"name":       true,
		"stock":      true,
	}
	if !allowed[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	return sortBy + " " + sortOrder
}

func joinSizes(sizes []string) string {
	cleaned := make([]string, 0, len(sizes))
	for _, s := range sizes {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}
