// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

const (
	dashboardCacheKey = "analytics:dashboard"
	dashboardCacheTTL = 2 * time.Minute
)

// Service assembles the admin dashboard statistics
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// DashboardStats represents overall dashboard statistics
type DashboardStats struct {
	// Revenue in paise, cancelled orders excluded
	TotalRevenue     int64 `json:"total_revenue"`
	RevenueToday     int64 `json:"revenue_today"`
	RevenueThisMonth int64 `json:"revenue_this_month"`

	TotalOrders    int64            `json:"total_orders"`
	OrdersToday    int64            `json:"orders_today"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`

	TotalUsers    int64 `json:"total_users"`
	NewUsersToday int64 `json:"new_users_today"`

	TotalProducts      int64 `json:"total_products"`
	OutOfStockProducts int64 `json:"out_of_stock_products"`

	TopProducts []ProductSales `json:"top_products"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ProductSales is one row of the top-selling products table
type ProductSales struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitsSold   int64  `json:"units_sold"`
	Revenue     int64  `json:"revenue"`
}

// GetDashboardStats returns the dashboard, served from a short-lived
// Redis cache when possible. The independent aggregations are issued
// concurrently and collected.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	stats := &DashboardStats{
		OrdersByStatus: map[string]int64{},
		TopProducts:    []ProductSales{},
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	revenueQuery := func(dest *int64, since *time.Time) func() error {
		return func() error {
			query := s.db.Model(&order.Order{}).Where("status <> ?", order.StatusCancelled)
			if since != nil {
				query = query.Where("created_at >= ?", *since)
			}
			var total *int64
			if err := query.Select("SUM(total_amount)").Scan(&total).Error; err != nil {
				return err
			}
			mu.Lock()
			if total != nil {
				*dest = *total
			}
			mu.Unlock()
			return nil
		}
	}

	countQuery := func(dest *int64, build func(*gorm.DB) *gorm.DB) func() error {
		return func() error {
			var count int64
			if err := build(s.db).Count(&count).Error; err != nil {
				return err
			}
			mu.Lock()
			*dest = count
			mu.Unlock()
			return nil
		}
	}

	run(revenueQuery(&stats.TotalRevenue, nil))
	run(revenueQuery(&stats.RevenueToday, &startOfDay))
	run(revenueQuery(&stats.RevenueThisMonth, &startOfMonth))

	run(countQuery(&stats.TotalOrders, func(db *gorm.DB) *gorm.DB {
		return db.Model(&order.Order{})
	}))
	run(countQuery(&stats.OrdersToday, func(db *gorm.DB) *gorm.DB {
		return db.Model(&order.Order{}).Where("created_at >= ?", startOfDay)
	}))
	run(countQuery(&stats.TotalUsers, func(db *gorm.DB) *gorm.DB {
		return db.Model(&user.User{}).Where("is_admin = ?", false)
	}))
	run(countQuery(&stats.NewUsersToday, func(db *gorm.DB) *gorm.DB {
		return db.Model(&user.User{}).Where("is_admin = ? AND created_at >= ?", false, startOfDay)
	}))
	run(countQuery(&stats.TotalProducts, func(db *gorm.DB) *gorm.DB {
		return db.Model(&product.Product{})
	}))
	run(countQuery(&stats.OutOfStockProducts, func(db *gorm.DB) *gorm.DB {
		return db.Model(&product.Product{}).Where("stock <= 0")
	}))

	run(func() error {
		type row struct {
			Status order.Status
			Count  int64
		}
		var rows []row
		if err := s.db.Model(&order.Order{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&rows).Error; err != nil {
			return err
		}
		mu.Lock()
		for _, r := range rows {
			stats.OrdersByStatus[string(r.Status)] = r.Count
		}
		mu.Unlock()
		return nil
	})

	run(func() error {
		var top []ProductSales
		if err := s.db.Table("order_items").
			Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) as units_sold, SUM(order_items.line_total) as revenue").
			Joins("JOIN orders ON orders.id = order_items.order_id AND orders.status <> ?", order.StatusCancelled).
			Group("order_items.product_id, order_items.product_name").
			Order("units_sold DESC").
			Limit(10).
			Scan(&top).Error; err != nil {
			return err
		}
		mu.Lock()
		stats.TopProducts = top
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if firstErr != nil {
		return nil, apperr.Internal(firstErr, "failed to assemble dashboard statistics")
	}

	stats.GeneratedAt = now
	s.writeCache(ctx, stats)

	return stats, nil
}

func (s *Service) readCache(ctx context.Context) *DashboardStats {
	if s.redisClient == nil {
		return nil
	}
	raw, err := s.redisClient.Get(ctx, dashboardCacheKey).Result()
	if err != nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *Service) writeCache(ctx context.Context, stats *DashboardStats) {
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to cache dashboard statistics")
	}
}
