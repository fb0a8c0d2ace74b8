package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/models"
)

// PostgresRepository implements Repository against the shared pool. It also
// resolves roles for the authentication middleware, so every request reads
// the current grants rather than anything cached in a token.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates the membership repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := r.db.Query(ctx, database.ListUsersByRoleSQL, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query role members: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, database.GetUserByUsernameSQL, username).Scan(&u.ID, &u.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetInRole(ctx context.Context, role models.Role, userID int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, database.GetUserInRoleSQL, role, userID).Scan(&u.ID, &u.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query role member: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) AddRole(ctx context.Context, userID int64, role models.Role) error {
	if _, err := r.db.Pool.Exec(ctx, database.AddUserRoleSQL, userID, role); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveRole(ctx context.Context, userID int64, role models.Role) error {
	tag, err := r.db.Pool.Exec(ctx, database.RemoveUserRoleSQL, userID, role)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) HasRole(ctx context.Context, userID int64, role models.Role) (bool, error) {
	var has bool
	if err := r.db.QueryRow(ctx, database.UserHasRoleSQL, userID, role).Scan(&has); err != nil {
		return false, fmt.Errorf("failed to check role membership: %w", err)
	}
	return has, nil
}

// ResolveRoles returns the roles currently granted to the user
func (r *PostgresRepository) ResolveRoles(ctx context.Context, userID int64) ([]models.Role, error) {
	rows, err := r.db.Query(ctx, database.ListUserRolesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// UserExists reports whether the user is present in the directory
func (r *PostgresRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var u models.User
	err := r.db.QueryRow(ctx, database.GetUserByIDSQL, userID).Scan(&u.ID, &u.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	return true, nil
}
