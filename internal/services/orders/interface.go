package orders

import (
	"context"

	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/models"
)

// Repository is the order engine's persistence boundary. PlaceOrder owns the
// whole cart-to-order transaction so that callers cannot observe partial
// state.
type Repository interface {
	PlaceOrder(ctx context.Context, userID int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter, params httpx.ListParams) ([]models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	Lines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
	AssignCrew(ctx context.Context, orderID, crewID int64) error
	SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error
	UserHasRole(ctx context.Context, userID int64, role models.Role) (bool, error)
}
