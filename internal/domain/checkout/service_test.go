package checkout

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

func cartLines() []cart.CartItem {
	return []cart.CartItem{
		{ID: 11, CartID: 1, ProductID: 100, Quantity: 2, Size: "M"},
		{ID: 12, CartID: 1, ProductID: 100, Quantity: 1, Size: "L"},
		{ID: 13, CartID: 1, ProductID: 200, Quantity: 3, Size: ""},
	}
}

func TestMatchSelectedLines(t *testing.T) {
	s := &Service{}

	t.Run("matches by product and size", func(t *testing.T) {
		matched, removedIDs := s.matchSelectedLines(1, cartLines(), []SelectedLine{
			{ProductID: 100, Size: "M"},
			{ProductID: 200},
		})

		assert.Len(t, matched, 2)
		assert.Equal(t, uint(11), matched[0].ID)
		assert.Equal(t, uint(13), matched[1].ID)
		assert.Equal(t, []uint{11, 13}, removedIDs)
	})

	t.Run("same product different size stays in cart", func(t *testing.T) {
		matched, removedIDs := s.matchSelectedLines(1, cartLines(), []SelectedLine{
			{ProductID: 100, Size: "L"},
		})

		assert.Len(t, matched, 1)
		assert.Equal(t, uint(12), matched[0].ID)
		assert.Equal(t, []uint{12}, removedIDs)
	})

	t.Run("selected quantity overrides the cart quantity", func(t *testing.T) {
		matched, _ := s.matchSelectedLines(1, cartLines(), []SelectedLine{
			{ProductID: 100, Size: "M", Quantity: 5},
		})

		assert.Len(t, matched, 1)
		assert.Equal(t, 5, matched[0].Quantity)
	})

	t.Run("absent quantity falls back to the cart quantity", func(t *testing.T) {
		matched, _ := s.matchSelectedLines(1, cartLines(), []SelectedLine{
			{ProductID: 200},
		})

		assert.Len(t, matched, 1)
		assert.Equal(t, 3, matched[0].Quantity)
	})

	t.Run("unknown selections are skipped", func(t *testing.T) {
		matched, removedIDs := s.matchSelectedLines(1, cartLines(), []SelectedLine{
			{ProductID: 100, Size: "XL"}, // size not in cart
			{ProductID: 999},             // product not in cart
			{ProductID: 200},
		})

		assert.Len(t, matched, 1)
		assert.Equal(t, uint(13), matched[0].ID)
		assert.Equal(t, []uint{13}, removedIDs)
	})

	t.Run("all selections unmatched yields nothing", func(t *testing.T) {
		matched, removedIDs := s.matchSelectedLines(1, cartLines(), []SelectedLine{
			{ProductID: 999, Size: "M"},
		})

		assert.Empty(t, matched)
		assert.Empty(t, removedIDs)
	})

	t.Run("duplicate selections count once", func(t *testing.T) {
		matched, removedIDs := s.matchSelectedLines(1, cartLines(), []SelectedLine{
			{ProductID: 200},
			{ProductID: 200},
			{ProductID: 200},
		})

		assert.Len(t, matched, 1)
		assert.Equal(t, []uint{13}, removedIDs)
	})

	t.Run("empty cart matches nothing", func(t *testing.T) {
		matched, removedIDs := s.matchSelectedLines(1, nil, []SelectedLine{
			{ProductID: 100, Size: "M"},
		})

		assert.Empty(t, matched)
		assert.Empty(t, removedIDs)
	})
}

func setupCheckoutDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &user.Address{},
		&product.Category{}, &product.SubCategory{}, &product.Product{}, &product.ProductImage{},
		&cart.Cart{}, &cart.CartItem{},
		&order.Order{}, &order.OrderItem{}, &order.OrderStatusHistory{},
	))
	return db
}

func checkoutTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Checkout.ShippingFee = 5000
	cfg.Checkout.Currency = "INR"
	return cfg
}

func TestCheckoutCOD(t *testing.T) {
	db := setupCheckoutDB(t)
	cfg := checkoutTestConfig()

	account := user.User{Email: "asha@example.com", Password: "x", Name: "Asha", IsActive: true}
	require.NoError(t, db.Create(&account).Error)
	address := user.Address{
		UserID: account.ID, FullName: "Asha Rao", Phone: "9999999999",
		House: "12B", Street: "MG Road", City: "Bengaluru", State: "Karnataka",
		PinCode: "560001", Country: "India",
	}
	require.NoError(t, db.Create(&address).Error)

	category := product.Category{Name: "Shirts", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	shirt := product.Product{
		Name: "Oxford Shirt", Price: 10000, CategoryID: category.ID,
		Sizes: "M,L", Stock: 10, IsActive: true,
	}
	require.NoError(t, db.Create(&shirt).Error)

	userCart := cart.Cart{UserID: account.ID, Status: cart.StatusActive}
	require.NoError(t, db.Create(&userCart).Error)
	require.NoError(t, db.Create(&cart.CartItem{
		CartID: userCart.ID, ProductID: shirt.ID, Quantity: 2, Size: "M",
	}).Error)

	svc := NewService(db, cfg, cart.NewService(db, cfg), nil, nil, nil)

	resp, err := svc.Checkout(context.Background(), account.ID, &CheckoutRequest{
		AddressID:     address.ID,
		Items:         []SelectedLine{{ProductID: shirt.ID, Size: "M"}},
		PaymentMethod: order.MethodCOD,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Order)
	assert.Nil(t, resp.Payment)

	placed := resp.Order
	assert.Equal(t, int64(20000), placed.Subtotal)
	assert.Equal(t, int64(5000), placed.ShippingFee)
	assert.Equal(t, int64(0), placed.TaxAmount)
	assert.Equal(t, int64(0), placed.DiscountAmount)
	assert.Equal(t, int64(25000), placed.TotalAmount)
	assert.Equal(t, placed.Subtotal+placed.ShippingFee+placed.TaxAmount-placed.DiscountAmount, placed.TotalAmount)
	assert.Equal(t, order.StatusCreated, placed.Status)
	assert.Equal(t, order.PaymentPending, placed.PaymentStatus)

	var stored order.Order
	require.NoError(t, db.Preload("Items").First(&stored, placed.ID).Error)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Oxford Shirt", stored.Items[0].ProductName)
	assert.Equal(t, "M", stored.Items[0].Size)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, int64(10000), stored.Items[0].UnitPrice)
	assert.Equal(t, int64(20000), stored.Items[0].LineTotal)

	var history []order.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", placed.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, order.StatusCreated, history[0].Status)

	// fully consumed cart: lines gone, cart marked ordered
	var remaining int64
	require.NoError(t, db.Model(&cart.CartItem{}).Where("cart_id = ?", userCart.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	var consumed cart.Cart
	require.NoError(t, db.First(&consumed, userCart.ID).Error)
	assert.Equal(t, cart.StatusOrdered, consumed.Status)
}

func TestCheckoutSelectedQuantityOverridesCartLine(t *testing.T) {
	db := setupCheckoutDB(t)
	cfg := checkoutTestConfig()

	account := user.User{Email: "ravi@example.com", Password: "x", Name: "Ravi", IsActive: true}
	require.NoError(t, db.Create(&account).Error)
	address := user.Address{
		UserID: account.ID, FullName: "Ravi Kumar", Phone: "8888888888",
		House: "4", Street: "Park St", City: "Kolkata", State: "West Bengal",
		PinCode: "700016", Country: "India",
	}
	require.NoError(t, db.Create(&address).Error)

	category := product.Category{Name: "Trousers", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	chino := product.Product{
		Name: "Chino", Price: 15000, CategoryID: category.ID,
		Sizes: "32,34", Stock: 5, IsActive: true,
	}
	require.NoError(t, db.Create(&chino).Error)

	userCart := cart.Cart{UserID: account.ID, Status: cart.StatusActive}
	require.NoError(t, db.Create(&userCart).Error)
	require.NoError(t, db.Create(&cart.CartItem{
		CartID: userCart.ID, ProductID: chino.ID, Quantity: 3, Size: "32",
	}).Error)

	svc := NewService(db, cfg, cart.NewService(db, cfg), nil, nil, nil)

	resp, err := svc.Checkout(context.Background(), account.ID, &CheckoutRequest{
		AddressID:     address.ID,
		Items:         []SelectedLine{{ProductID: chino.ID, Size: "32", Quantity: 1}},
		PaymentMethod: order.MethodCOD,
	})
	require.NoError(t, err)

	require.Len(t, resp.Order.Items, 1)
	assert.Equal(t, 1, resp.Order.Items[0].Quantity)
	assert.Equal(t, int64(15000), resp.Order.Items[0].LineTotal)
	assert.Equal(t, int64(15000), resp.Order.Subtotal)
	assert.Equal(t, int64(20000), resp.Order.TotalAmount)
}
