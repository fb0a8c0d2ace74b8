package database

// Menu catalog queries
const (
	ListCategoriesSQL = `
		SELECT id, title FROM categories ORDER BY id`

	GetCategorySQL = `
		SELECT id, title FROM categories WHERE id = $1`

	InsertCategorySQL = `
		INSERT INTO categories (title) VALUES ($1)
		RETURNING id`

	DeleteCategorySQL = `
		DELETE FROM categories WHERE id = $1`

	GetMenuItemSQL = `
		SELECT id, title, price, featured, category_id
		FROM menu_items WHERE id = $1`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (title, price, featured, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	DeleteMenuItemSQL = `
		DELETE FROM menu_items WHERE id = $1`

	CategoryExistsSQL = `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`
)

// Cart queries
const (
	ListCartLinesSQL = `
		SELECT id, user_id, menu_item_id, quantity, unit_price, line_total
		FROM cart_items WHERE user_id = $1 ORDER BY id`

	InsertCartLineSQL = `
		INSERT INTO cart_items (user_id, menu_item_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	ClearCartSQL = `
		DELETE FROM cart_items WHERE user_id = $1`

	GetMenuItemPriceSQL = `
		SELECT price FROM menu_items WHERE id = $1`
)

// Order queries
const (
	LockCartLinesSQL = `
		SELECT menu_item_id, quantity, unit_price, line_total
		FROM cart_items WHERE user_id = $1
		ORDER BY id
		FOR UPDATE`

	InsertOrderSQL = `
		INSERT INTO orders (user_id, status, total, date)
		VALUES ($1, $2, $3, CURRENT_DATE)
		RETURNING id, date, created_at`

	InsertOrderLineSQL = `
		INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)`

	GetOrderSQL = `
		SELECT id, user_id, delivery_crew_id, status, total, date, created_at
		FROM orders WHERE id = $1`

	ListOrderLinesSQL = `
		SELECT id, order_id, menu_item_id, quantity, unit_price, line_total
		FROM order_items WHERE order_id = $1 ORDER BY id`

	AssignOrderCrewSQL = `
		UPDATE orders SET delivery_crew_id = $1 WHERE id = $2`

	SetOrderStatusSQL = `
		UPDATE orders SET status = $1 WHERE id = $2`

	DeleteOrderSQL = `
		DELETE FROM orders WHERE id = $1`
)

// User and role queries
const (
	GetUserByIDSQL = `
		SELECT id, username FROM users WHERE id = $1`

	GetUserByUsernameSQL = `
		SELECT id, username FROM users WHERE username = $1`

	ListUserRolesSQL = `
		SELECT role FROM user_roles WHERE user_id = $1`

	UserHasRoleSQL = `
		SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`

	ListUsersByRoleSQL = `
		SELECT u.id, u.username
		FROM users u
		JOIN user_roles r ON r.user_id = u.id
		WHERE r.role = $1
		ORDER BY u.id`

	GetUserInRoleSQL = `
		SELECT u.id, u.username
		FROM users u
		JOIN user_roles r ON r.user_id = u.id
		WHERE r.role = $1 AND u.id = $2`

	AddUserRoleSQL = `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`

	RemoveUserRoleSQL = `
		DELETE FROM user_roles WHERE user_id = $1 AND role = $2`
)
