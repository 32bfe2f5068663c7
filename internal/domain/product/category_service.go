// internal/domain/product/category_service.go
package product

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// SubCategoryCreateRequest represents sub-category creation data
type SubCategoryCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// GetCategories retrieves all categories with their sub-categories
func (s *CategoryService) GetCategories(includeInactive bool) ([]Category, error) {
	var categories []Category

	query := s.db.Model(&Category{}).
		Preload("SubCategories").
		Order("name ASC")

	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&categories).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve categories")
	}

	return categories, nil
}

// GetSubCategories retrieves the sub-categories of one category
func (s *CategoryService) GetSubCategories(categoryID uint) ([]SubCategory, error) {
	var category Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve category")
	}

	var subs []SubCategory
	if err := s.db.Where("category_id = ?", categoryID).Order("name ASC").Find(&subs).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve sub-categories")
	}

	return subs, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}

	var existing Category
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("category %q already exists", name)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category := Category{Name: name, IsActive: isActive}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperr.Internal(err, "failed to create category")
	}

	return &category, nil
}

// CreateSubCategory creates a sub-category under a category
func (s *CategoryService) CreateSubCategory(categoryID uint, req *SubCategoryCreateRequest) (*SubCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("sub-category name is required")
	}

	var category Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve category")
	}

	var existing SubCategory
	if err := s.db.Where("category_id = ? AND LOWER(name) = LOWER(?)", categoryID, name).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("sub-category %q already exists", name)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	sub := SubCategory{CategoryID: categoryID, Name: name, IsActive: isActive}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, apperr.Internal(err, "failed to create sub-category")
	}

	return &sub, nil
}

// DeleteCategory soft-deletes a category when no products reference it
func (s *CategoryService) DeleteCategory(id uint) error {
	var productCount int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return apperr.Internal(err, "failed to count category products")
	}
	if productCount > 0 {
		return apperr.Conflict("category has %d products and cannot be deleted", productCount)
	}

	result := s.db.Delete(&Category{}, id)
	if result.Error != nil {
		return apperr.Internal(result.Error, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}
