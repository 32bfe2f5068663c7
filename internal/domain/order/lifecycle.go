// internal/domain/order/lifecycle.go
package order

import (
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// statusRank orders the forward progression of an order. CANCELLED is
// reachable from any non-terminal state and carries no rank.
var statusRank = map[Status]int{
	StatusCreated:        0,
	StatusConfirmed:      1,
	StatusShipped:        2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
}

// ParseStatus normalizes admin-supplied status input (uppercased,
// trimmed) and rejects anything outside the enum.
func ParseStatus(raw string) (Status, error) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch normalized {
	case StatusCreated, StatusConfirmed, StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return normalized, nil
	}
	return "", apperr.Validation("invalid order status %q", raw)
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves must strictly increase rank; CANCELLED is a
// jump allowed from any non-terminal state. DELIVERED and CANCELLED
// are terminal.
func CanTransition(from, to Status) bool {
	if from == StatusDelivered || from == StatusCancelled {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// ApplyStatus mutates the order for a validated transition, stamping
// the matching timestamp only if it has not been set before.
func ApplyStatus(o *Order, to Status, now time.Time) {
	o.Status = to
	switch to {
	case StatusConfirmed:
		if o.ConfirmedAt == nil {
			o.ConfirmedAt = &now
		}
	case StatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case StatusOutForDelivery:
		if o.OutForDeliveryAt == nil {
			o.OutForDeliveryAt = &now
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	case StatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	}
}
