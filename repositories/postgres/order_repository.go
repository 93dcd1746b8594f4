package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"go.uber.org/zap"
)

// OrderRepository implements the repositories.OrderRepository interface
type OrderRepository struct {
	db     *DB
	tx     repositories.Transaction
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *DB, logger *zap.Logger) repositories.OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a new repository instance bound to the transaction
func (r *OrderRepository) WithTx(tx repositories.Transaction) repositories.OrderRepository {
	return &OrderRepository{
		db:     r.db,
		tx:     tx,
		logger: r.logger,
	}
}

// Create inserts the order header
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, subtotal, discount, tax, total, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := executorFor(r.db, r.tx)
	_, err := executor.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.Subtotal,
		order.Discount,
		order.Tax,
		order.Total,
		order.Notes,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug("order created", zap.String("id", order.ID.String()), zap.String("user_id", order.UserID.String()))
	return nil
}

// CreateItem inserts a single order item
func (r *OrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, price, quantity, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := executorFor(r.db, r.tx)
	_, err := executor.ExecContext(ctx, query,
		item.ID,
		item.OrderID,
		item.ProductID,
		item.ProductName,
		item.Price,
		item.Quantity,
		item.Unit,
	)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}

	return nil
}

// List retrieves order headers newest first, joined with the owner's name.
// Items are not loaded; see ListItems.
func (r *OrderRepository) List(ctx context.Context, filter repositories.OrderFilter) ([]*models.Order, error) {
	query := `
		SELECT o.id, o.user_id, u.name, o.subtotal, o.discount, o.tax, o.total,
		       COALESCE(o.notes, ''), o.status, o.rejection_reason, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
	`
	var args []interface{}
	if filter.UserID != nil {
		query += ` WHERE o.user_id = $1`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY o.created_at DESC`

	executor := executorFor(r.db, r.tx)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{Items: []*models.OrderItem{}}
		var reason sql.NullString
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.UserName,
			&order.Subtotal,
			&order.Discount,
			&order.Tax,
			&order.Total,
			&order.Notes,
			&order.Status,
			&reason,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if reason.Valid {
			order.RejectionReason = &reason.String
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	return orders, nil
}

// ListItems retrieves the items of an order
func (r *OrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, price, quantity, unit
		FROM order_items
		WHERE order_id = $1
	`

	executor := executorFor(r.db, r.tx)
	rows, err := executor.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []*models.OrderItem{}
	for rows.Next() {
		item := &models.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Price,
			&item.Quantity,
			&item.Unit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order item rows: %w", err)
	}

	return items, nil
}

// GetStatusForUpdate reads the current status and locks the row
func (r *OrderRepository) GetStatusForUpdate(ctx context.Context, id uuid.UUID) (models.OrderStatus, error) {
	query := `SELECT status FROM orders WHERE id = $1 FOR UPDATE`

	var status models.OrderStatus
	executor := executorFor(r.db, r.tx)
	err := executor.QueryRowContext(ctx, query, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("order %s: %w", id, repositories.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get order status: %w", err)
	}

	return status, nil
}

// UpdateStatus sets status and rejection reason. A nil reason clears the column.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, rejectionReason *string) error {
	query := `UPDATE orders SET status = $1, rejection_reason = $2 WHERE id = $3`

	executor := executorFor(r.db, r.tx)
	result, err := executor.ExecContext(ctx, query, status, rejectionReason, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if err := expectAffected(result, "order", id); err != nil {
		return err
	}

	r.logger.Debug("order status updated", zap.String("id", id.String()), zap.String("status", string(status)))
	return nil
}
