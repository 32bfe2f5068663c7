// internal/domain/product/entity.go
package product

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// MaxImagesPerProduct caps the number of images stored per product.
const MaxImagesPerProduct = 5

// Product represents the product entity
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         int64          `gorm:"not null" json:"price"` // Price in paise
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`
	SubCategoryID *uint          `gorm:"index" json:"sub_category_id"`
	Sizes         string         `gorm:"size:255" json:"sizes"` // Comma-separated sizes
	Stock         int            `gorm:"default:0" json:"stock"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category    Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	SubCategory *SubCategory   `gorm:"foreignKey:SubCategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"sub_category,omitempty"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// Category represents top-level product categories
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex;size:255" json:"name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID" json:"sub_categories,omitempty"`
}

// SubCategory represents second-level categories under a category
type SubCategory struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	Name       string         `gorm:"not null;size:255" json:"name"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (Category) TableName() string     { return "categories" }
func (SubCategory) TableName() string  { return "sub_categories" }
func (ProductImage) TableName() string { return "product_images" }

// SizeList splits the stored comma-separated sizes.
func (p *Product) SizeList() []string {
	if p.Sizes == "" {
		return nil
	}
	parts := strings.Split(p.Sizes, ",")
	sizes := make([]string, 0, len(parts))
	for _, s := range parts {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sizes = append(sizes, trimmed)
		}
	}
	return sizes
}

// HasSize reports whether the product offers the given size.
// Products without a size list accept any size.
func (p *Product) HasSize(size string) bool {
	sizes := p.SizeList()
	if len(sizes) == 0 {
		return true
	}
	for _, s := range sizes {
		if strings.EqualFold(s, size) {
			return true
		}
	}
	return false
}

// PrimaryImage returns the first image URL, or empty when none exist.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
