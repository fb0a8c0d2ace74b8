package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/models"
)

const uniqueViolationCode = "23505"

// PostgresRepository implements Repository against the shared pool
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates the cart repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	rows, err := r.db.Query(ctx, database.ListCartLinesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.MenuItemID,
			&line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan cart line row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// AddLine snapshots the current menu item price into a new cart line. The
// (user, menu item) uniqueness constraint rejects a second line for the same
// pair.
func (r *PostgresRepository) AddLine(ctx context.Context, userID, menuItemID int64, quantity int) (*models.CartLine, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var unitPrice decimal.Decimal
	err = tx.QueryRow(ctx, database.GetMenuItemPriceSQL, menuItemID).Scan(&unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query menu item price: %w", err)
	}

	line := &models.CartLine{
		UserID:     userID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		LineTotal:  unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}

	err = tx.QueryRow(ctx, database.InsertCartLineSQL,
		line.UserID, line.MenuItemID, line.Quantity, line.UnitPrice, line.LineTotal).Scan(&line.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, models.ValidationError{
				Field:   "menu_item",
				Message: "item is already in the cart",
			}
		}
		return nil, fmt.Errorf("failed to insert cart line: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return line, nil
}

// Clear removes all of the user's cart lines; clearing an empty cart is not
// an error.
func (r *PostgresRepository) Clear(ctx context.Context, userID int64) error {
	if err := r.db.Exec(ctx, database.ClearCartSQL, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
