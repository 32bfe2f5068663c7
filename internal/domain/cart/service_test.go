package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

func setupCartDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&product.Category{}, &product.SubCategory{}, &product.Product{}, &product.ProductImage{},
		&Cart{}, &CartItem{},
	))
	return db
}

func seedShirt(t *testing.T, db *gorm.DB) product.Product {
	t.Helper()

	category := product.Category{Name: "Shirts", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	shirt := product.Product{
		Name: "Oxford Shirt", Price: 10000, CategoryID: category.ID,
		Sizes: "M,L", Stock: 10, IsActive: true,
	}
	require.NoError(t, db.Create(&shirt).Error)
	return shirt
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	db := setupCartDB(t)
	shirt := seedShirt(t, db)
	svc := NewService(db, &config.Config{})

	view, err := svc.AddItem(1, &AddToCartRequest{ProductID: shirt.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, int64(20000), view.SubTotal)
	assert.Equal(t, StatusActive, view.Status)
}

func TestAddItemRevivesConsumedCart(t *testing.T) {
	db := setupCartDB(t)
	shirt := seedShirt(t, db)
	svc := NewService(db, &config.Config{})

	// checkout leaves the fully-consumed cart behind with no lines
	consumed := Cart{UserID: 1, Status: StatusOrdered}
	require.NoError(t, db.Create(&consumed).Error)

	view, err := svc.AddItem(1, &AddToCartRequest{ProductID: shirt.ID, Quantity: 1, Size: "L"})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, consumed.ID, view.CartID)
	assert.Equal(t, StatusActive, view.Status)

	// same row revived, never a second row per user
	var count int64
	require.NoError(t, db.Model(&Cart{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	db := setupCartDB(t)
	shirt := seedShirt(t, db)
	svc := NewService(db, &config.Config{})

	_, err := svc.AddItem(1, &AddToCartRequest{ProductID: shirt.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)
	view, err := svc.AddItem(1, &AddToCartRequest{ProductID: shirt.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 3, view.TotalItems)
}
