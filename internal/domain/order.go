package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// Order amounts are integer minor-units (cents). Amount always equals the sum
// of the line-item totals at creation time; VendorIDs is the distinct set of
// vendor ids of the referenced products.
type Order struct {
	ID         uint
	Amount     int64
	Status     OrderStatus
	CustomerID int
	VendorIDs  []int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem totals are derived from the product's price at order-creation
// time, never taken from the caller.
type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID int
	Qty       int
	Total     int64
}

type OrderWithItems struct {
	Order
	Items []OrderItem
}
