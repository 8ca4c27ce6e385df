package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is a closed enumeration. The store never holds a value
// outside this set; callers supplying anything else get a validation error.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus validates a caller-supplied status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// Order is one order plus its line items. TotalValue is derived at
// creation/replacement time from the product prices read in the same
// transaction; it is persisted, not recomputed on read.
type Order struct {
	ID         int64
	ClientID   int64
	Status     OrderStatus
	TotalValue decimal.Decimal
	CreatedAt  time.Time
	Items      []OrderItem
}

// OrderItem is one (product, quantity) line. Price, Description and
// Section are resolved from the product when the order is materialized.
type OrderItem struct {
	ProductID   int64
	Quantity    int
	Price       decimal.Decimal
	Description string
	Section     string
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
