package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/models"
)

// PostgresRepository implements Repository against the shared pool
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates the order repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// PlaceOrder converts the user's cart into an order in one transaction. The
// cart rows are locked FOR UPDATE so two concurrent calls serialize; the
// second one finds an empty cart and fails with not found.
func (r *PostgresRepository) PlaceOrder(ctx context.Context, userID int64) (*models.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, database.LockCartLinesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart lines: %w", err)
	}

	var lines []models.OrderLine
	total := decimal.Zero
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.MenuItemID, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan cart line row: %w", err)
		}
		total = total.Add(line.LineTotal)
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart lines: %w", err)
	}

	if len(lines) == 0 {
		return nil, models.ErrNotFound
	}

	order := &models.Order{
		UserID: userID,
		Status: models.StatusPending,
		Total:  total,
	}
	err = tx.QueryRow(ctx, database.InsertOrderSQL, userID, order.Status, total).
		Scan(&order.ID, &order.Date, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range lines {
		lines[i].OrderID = order.ID
		_, err = tx.Exec(ctx, database.InsertOrderLineSQL,
			order.ID, lines[i].MenuItemID, lines[i].Quantity, lines[i].UnitPrice, lines[i].LineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, database.ClearCartSQL, userID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.Lines = lines
	return order, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.OrderFilter, params httpx.ListParams) ([]models.Order, error) {
	query := `
		SELECT id, user_id, delivery_crew_id, status, total, date, created_at
		FROM orders`

	var conds []string
	var args []interface{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.DeliveryCrewID != nil {
		args = append(args, *filter.DeliveryCrewID)
		conds = append(conds, fmt.Sprintf("delivery_crew_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conds = append(conds, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.TotalCeiling != nil {
		args = append(args, *filter.TotalCeiling)
		conds = append(conds, fmt.Sprintf("total <= $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, params.Limit(), params.Offset())
	query += fmt.Sprintf(" %s LIMIT $%d OFFSET $%d", params.OrderBySQL("id"), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.DeliveryCrewID, &o.Status, &o.Total, &o.Date, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx, database.GetOrderSQL, id).
		Scan(&o.ID, &o.UserID, &o.DeliveryCrewID, &o.Status, &o.Total, &o.Date, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &o, nil
}

func (r *PostgresRepository) Lines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	rows, err := r.db.Query(ctx, database.ListOrderLinesSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.MenuItemID,
			&line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order line row: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *PostgresRepository) AssignCrew(ctx context.Context, orderID, crewID int64) error {
	tag, err := r.db.Pool.Exec(ctx, database.AssignOrderCrewSQL, crewID, orderID)
	if err != nil {
		return fmt.Errorf("failed to assign delivery crew: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	tag, err := r.db.Pool.Exec(ctx, database.SetOrderStatusSQL, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, orderID int64) error {
	tag, err := r.db.Pool.Exec(ctx, database.DeleteOrderSQL, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) UserHasRole(ctx context.Context, userID int64, role models.Role) (bool, error) {
	var has bool
	err := r.db.QueryRow(ctx, database.UserHasRoleSQL, userID, role).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("failed to check role membership: %w", err)
	}
	return has, nil
}
