package models

import (
	"github.com/shopspring/decimal"
)

// Category groups menu items
type Category struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// MenuItem is a priced catalog entry
type MenuItem struct {
	ID         int64           `json:"id" db:"id"`
	Title      string          `json:"title" db:"title"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Featured   bool            `json:"featured" db:"featured"`
	CategoryID int64           `json:"category" db:"category_id"`
}

// CreateCategoryRequest creates a new category
type CreateCategoryRequest struct {
	Title string `json:"title"`
}

// Validate checks the create category request
func (req *CreateCategoryRequest) Validate() error {
	if req.Title == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if len(req.Title) > 255 {
		return ValidationError{Field: "title", Message: "title must be less than 255 characters"}
	}
	return nil
}

// CreateMenuItemRequest creates a new menu item
type CreateMenuItemRequest struct {
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Featured   bool            `json:"featured"`
	CategoryID int64           `json:"category"`
}

// Validate checks the create menu item request
func (req *CreateMenuItemRequest) Validate() error {
	if req.Title == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if len(req.Title) > 255 {
		return ValidationError{Field: "title", Message: "title must be less than 255 characters"}
	}
	if req.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if req.CategoryID <= 0 {
		return ValidationError{Field: "category", Message: "category is required"}
	}
	return nil
}

// UpdateMenuItemRequest is a partial-field patch; nil fields are left untouched
type UpdateMenuItemRequest struct {
	Title      *string          `json:"title,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Featured   *bool            `json:"featured,omitempty"`
	CategoryID *int64           `json:"category,omitempty"`
}

// Validate checks the update menu item request
func (req *UpdateMenuItemRequest) Validate() error {
	if req.Title == nil && req.Price == nil && req.Featured == nil && req.CategoryID == nil {
		return ValidationError{Field: "body", Message: "at least one field is required"}
	}
	if req.Title != nil {
		if *req.Title == "" {
			return ValidationError{Field: "title", Message: "title must not be empty"}
		}
		if len(*req.Title) > 255 {
			return ValidationError{Field: "title", Message: "title must be less than 255 characters"}
		}
	}
	if req.Price != nil && req.Price.IsNegative() {
		return ValidationError{Field: "price", Message: "price must not be negative"}
	}
	if req.CategoryID != nil && *req.CategoryID <= 0 {
		return ValidationError{Field: "category", Message: "category must be a valid reference"}
	}
	return nil
}

// MenuItemFilter narrows the item listing
type MenuItemFilter struct {
	Title         string
	PriceCeiling  *decimal.Decimal
	CategoryTitle string
}
