package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the two-state delivery flag of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusDelivered OrderStatus = "delivered"
)

// ParseOrderStatus maps a status name to an OrderStatus, reporting whether it
// is known
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusDelivered:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// Order is an immutable priced conversion of a cart. Owner and total never
// change after creation; delivery crew and status move only through the
// lifecycle transitions.
type Order struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	DeliveryCrewID *int64          `json:"delivery_crew,omitempty" db:"delivery_crew_id"`
	Status         OrderStatus     `json:"status" db:"status"`
	Total          decimal.Decimal `json:"total" db:"total"`
	Date           time.Time       `json:"date" db:"date"`
	CreatedAt      time.Time       `json:"created_at,omitempty" db:"created_at"`
	Lines          []OrderLine     `json:"items,omitempty"`
}

// OrderLine is an immutable snapshot of a cart line at order-creation time
type OrderLine struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"order_id" db:"order_id"`
	MenuItemID int64           `json:"menu_item" db:"menu_item_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total" db:"line_total"`
}

// UpdateOrderRequest carries the role-gated order mutations: managers assign
// a delivery crew, the assigned crew member flips the status.
type UpdateOrderRequest struct {
	DeliveryCrewID *int64  `json:"delivery_crew,omitempty"`
	Status         *string `json:"status,omitempty"`
}

// OrderFilter narrows the order listing. Scope fields are set by the service
// from the caller's role, never from the request.
type OrderFilter struct {
	OwnerID        *int64
	DeliveryCrewID *int64
	Status         *OrderStatus
	Date           *time.Time
	TotalCeiling   *decimal.Decimal
}
