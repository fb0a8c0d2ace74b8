package cart

import (
	"context"

	"restaurant-orders/internal/models"
)

// Repository is the cart ledger's persistence boundary
type Repository interface {
	ListLines(ctx context.Context, userID int64) ([]models.CartLine, error)
	AddLine(ctx context.Context, userID, menuItemID int64, quantity int) (*models.CartLine, error)
	Clear(ctx context.Context, userID int64) error
}
