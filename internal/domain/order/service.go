// internal/domain/order/service.go
package order

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Bucket    string `form:"status"` // UI bucket: pending/processing/shipped/delivered/cancelled
	SortOrder string `form:"sort_order,default=desc"`
}

// OrderListResponse represents order response with pagination
type OrderListResponse struct {
	Orders       []Order          `json:"orders"`
	Pagination   Pagination       `json:"pagination"`
	StatusCounts map[string]int64 `json:"status_counts,omitempty"`
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

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// StatusChange reports the outcome of an admin status update
type StatusChange struct {
	OrderID   uint   `json:"order_id"`
	OrderCode string `json:"order_code"`
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
	Changed   bool   `json:"changed"`
}

// bucketStatuses maps the admin UI filter buckets onto status values.
var bucketStatuses = map[string][]Status{
	"pending":    {StatusCreated},
	"processing": {StatusConfirmed},
	"shipped":    {StatusShipped, StatusOutForDelivery},
	"delivered":  {StatusDelivered},
	"cancelled":  {StatusCancelled},
}

// GetUserOrders lists a user's orders, newest first
func (s *Service) GetUserOrders(userID uint, req *OrderListRequest) (*OrderListResponse, error) {
	query := s.db.Model(&Order{}).Where("user_id = ?", userID)
	return s.list(query, req, false)
}

// GetOrder retrieves a single order; non-admin callers only see their own
func (s *Service) GetOrder(orderID, userID uint, isAdmin bool) (*Order, error) {
	var o Order
	query := s.db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", orderID)
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve order")
	}

	return &o, nil
}

// GetOrderByCode retrieves an order by its public code
func (s *Service) GetOrderByCode(code string, userID uint, isAdmin bool) (*Order, error) {
	var o Order
	query := s.db.Preload("Items").Where("order_code = ?", code)
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal(err, "failed to retrieve order")
	}
	return &o, nil
}

// GetAllOrders lists every order for the admin view with bucket
// filtering and per-bucket counts
func (s *Service) GetAllOrders(req *OrderListRequest) (*OrderListResponse, error) {
	query := s.db.Model(&Order{})

	if req.Bucket != "" {
		statuses, ok := bucketStatuses[req.Bucket]
		if !ok {
			return nil, apperr.Validation("unknown status filter %q", req.Bucket)
		}
		query = query.Where("status IN ?", statuses)
	}

	return s.list(query, req, true)
}

// UpdateStatus performs an admin status transition. Setting the same
// status is a success no-op that appends no history; invalid
// transitions (including out of terminal states) are rejected.
func (s *Service) UpdateStatus(orderID, adminID uint, req *UpdateStatusRequest) (*StatusChange, error) {
	newStatus, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var change *StatusChange
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Where("id = ?", orderID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return apperr.Internal(err, "failed to retrieve order")
		}

		change = &StatusChange{
			OrderID:   o.ID,
			OrderCode: o.OrderCode,
			OldStatus: o.Status,
			NewStatus: newStatus,
		}

		if o.Status == newStatus {
			return nil
		}

		if !CanTransition(o.Status, newStatus) {
			return apperr.Conflict("cannot move order from %s to %s", o.Status, newStatus)
		}

		now := time.Now().UTC()
		ApplyStatus(&o, newStatus, now)

		if err := tx.Save(&o).Error; err != nil {
			return apperr.Internal(err, "failed to update order status")
		}

		history := OrderStatusHistory{
			OrderID:   o.ID,
			Status:    newStatus,
			Note:      req.Note,
			ChangedBy: adminID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperr.Internal(err, "failed to record status history")
		}

		change.Changed = true
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return change, nil
}

// CancelOrder lets the owner cancel an order that has not shipped
func (s *Service) CancelOrder(orderID, userID uint) (*Order, error) {
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return apperr.Internal(err, "failed to retrieve order")
		}

		if o.IsTerminal() {
			return apperr.Conflict("order is already %s", o.Status)
		}
		if !o.CanBeCancelledByUser() {
			return apperr.Conflict("order has shipped and can no longer be cancelled")
		}

		now := time.Now().UTC()
		ApplyStatus(&o, StatusCancelled, now)

		if err := tx.Save(&o).Error; err != nil {
			return apperr.Internal(err, "failed to cancel order")
		}

		history := OrderStatusHistory{
			OrderID:   o.ID,
			Status:    StatusCancelled,
			Note:      "cancelled by customer",
			ChangedBy: userID,
		}
		return tx.Create(&history).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"user_id":  userID,
	}).Info("Order cancelled by customer")

	return s.GetOrder(orderID, userID, false)
}

// MarkPaymentOutcome records a payment result and the matching
// lifecycle transition inside one transaction.
func (s *Service) MarkPaymentOutcome(tx *gorm.DB, o *Order, paid bool, gatewayPaymentID string, actorID uint) error {
	now := time.Now().UTC()

	if paid {
		o.PaymentStatus = PaymentPaid
		o.GatewayPaymentID = gatewayPaymentID
		if CanTransition(o.Status, StatusConfirmed) {
			ApplyStatus(o, StatusConfirmed, now)
			history := OrderStatusHistory{
				OrderID:   o.ID,
				Status:    StatusConfirmed,
				Note:      "payment verified",
				ChangedBy: actorID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
	} else {
		o.PaymentStatus = PaymentFailed
		if CanTransition(o.Status, StatusCancelled) {
			ApplyStatus(o, StatusCancelled, now)
			history := OrderStatusHistory{
				OrderID:   o.ID,
				Status:    StatusCancelled,
				Note:      "payment failed",
				ChangedBy: actorID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
	}

	return tx.Save(o).Error
}

func (s *Service) list(query *gorm.DB, req *OrderListRequest, withCounts bool) (*OrderListResponse, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count orders")
	}

	sortOrder := "DESC"
	if req.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	if err := query.
		Preload("Items").
		Order("created_at " + sortOrder).
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error; err != nil {
		return nil, apperr.Internal(err, "failed to retrieve orders")
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	resp := &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}

	if withCounts {
		counts, err := s.statusCounts()
		if err != nil {
			return nil, err
		}
		resp.StatusCounts = counts
	}

	return resp, nil
}

func (s *Service) statusCounts() (map[string]int64, error) {
	type row struct {
		Status Status
		Count  int64
	}
	var rows []row
	if err := s.db.Model(&Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Internal(err, "failed to count order statuses")
	}

	byStatus := make(map[Status]int64, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r.Count
	}

	counts := make(map[string]int64, len(bucketStatuses))
	for bucket, statuses := range bucketStatuses {
		var sum int64
		for _, st := range statuses {
			sum += byStatus[st]
		}
		counts[bucket] = sum
	}
	return counts, nil
}
