package models

import (
	"github.com/shopspring/decimal"
)

// CartLine is a pending selection in a user's cart. Unit price is a snapshot
// of the menu item price at insertion time; later catalog changes do not
// affect it.
type CartLine struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	MenuItemID int64           `json:"menu_item" db:"menu_item_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total" db:"line_total"`
}

// AddCartLineRequest adds a menu item to the caller's cart
type AddCartLineRequest struct {
	MenuItemID int64 `json:"menu_item"`
	Quantity   int   `json:"quantity"`
}

// Validate checks the add cart line request
func (req *AddCartLineRequest) Validate() error {
	if req.MenuItemID <= 0 {
		return ValidationError{Field: "menu_item", Message: "menu_item is required"}
	}
	if req.Quantity < 1 {
		return ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	return nil
}
