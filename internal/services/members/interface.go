package members

import (
	"context"

	"restaurant-orders/internal/models"
)

// Repository is the membership directory's persistence boundary
type Repository interface {
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetInRole(ctx context.Context, role models.Role, userID int64) (*models.User, error)
	AddRole(ctx context.Context, userID int64, role models.Role) error
	RemoveRole(ctx context.Context, userID int64, role models.Role) error
	HasRole(ctx context.Context, userID int64, role models.Role) (bool, error)
}
