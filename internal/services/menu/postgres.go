package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/models"
)

// PostgresRepository implements Repository against the shared pool
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates the catalog repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, database.ListCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx, database.GetCategorySQL, id).Scan(&c.ID, &c.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, title string) (*models.Category, error) {
	c := models.Category{Title: title}
	err := r.db.QueryRow(ctx, database.InsertCategorySQL, title).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteCategorySQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, database.CategoryExistsSQL, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, filter models.MenuItemFilter, params httpx.ListParams) ([]models.MenuItem, error) {
	query := `
		SELECT m.id, m.title, m.price, m.featured, m.category_id
		FROM menu_items m
		JOIN categories c ON c.id = m.category_id`

	var conds []string
	var args []interface{}

	if filter.Title != "" {
		args = append(args, filter.Title)
		conds = append(conds, fmt.Sprintf("m.title = $%d", len(args)))
	}
	if filter.PriceCeiling != nil {
		args = append(args, *filter.PriceCeiling)
		conds = append(conds, fmt.Sprintf("m.price <= $%d", len(args)))
	}
	if filter.CategoryTitle != "" {
		args = append(args, filter.CategoryTitle)
		conds = append(conds, fmt.Sprintf("c.title = $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, params.Limit(), params.Offset())
	query += fmt.Sprintf(" %s LIMIT $%d OFFSET $%d", params.OrderBySQL("m.id"), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Price, &item.Featured, &item.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan menu item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.QueryRow(ctx, database.GetMenuItemSQL, id).Scan(
		&item.ID, &item.Title, &item.Price, &item.Featured, &item.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}
	return &item, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	err := r.db.QueryRow(ctx, database.InsertMenuItemSQL,
		item.Title, item.Price, item.Featured, item.CategoryID).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, id int64, req *models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	var sets []string
	var args []interface{}

	if req.Title != nil {
		args = append(args, *req.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if req.Price != nil {
		args = append(args, *req.Price)
		sets = append(sets, fmt.Sprintf("price = $%d", len(args)))
	}
	if req.Featured != nil {
		args = append(args, *req.Featured)
		sets = append(sets, fmt.Sprintf("featured = $%d", len(args)))
	}
	if req.CategoryID != nil {
		args = append(args, *req.CategoryID)
		sets = append(sets, fmt.Sprintf("category_id = $%d", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE menu_items SET %s WHERE id = $%d
		RETURNING id, title, price, featured, category_id`,
		strings.Join(sets, ", "), len(args))

	var item models.MenuItem
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&item.ID, &item.Title, &item.Price, &item.Featured, &item.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return &item, nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteMenuItemSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
