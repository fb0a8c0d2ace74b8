package menu

import (
	"context"

	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/models"
)

// Repository is the catalog's persistence boundary
type Repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, title string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CategoryExists(ctx context.Context, id int64) (bool, error)

	ListItems(ctx context.Context, filter models.MenuItemFilter, params httpx.ListParams) ([]models.MenuItem, error)
	GetItem(ctx context.Context, id int64) (*models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, id int64, req *models.UpdateMenuItemRequest) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, id int64) error
}
