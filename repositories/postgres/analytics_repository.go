package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"go.uber.org/zap"
)

// AnalyticsRepository implements the repositories.AnalyticsRepository interface
type AnalyticsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *DB, logger *zap.Logger) repositories.AnalyticsRepository {
	return &AnalyticsRepository{
		db:     db,
		logger: logger,
	}
}

// MonthlyOrders returns order count and summed totals per month since the given time
func (r *AnalyticsRepository) MonthlyOrders(ctx context.Context, since time.Time) ([]models.MonthlyOrders, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE created_at >= $1
		GROUP BY month
		ORDER BY month
	`

	executor := executorFor(r.db, nil)
	rows, err := executor.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly orders: %w", err)
	}
	defer rows.Close()

	months := []models.MonthlyOrders{}
	for rows.Next() {
		var m models.MonthlyOrders
		if err := rows.Scan(&m.Month, &m.Count, &m.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly orders: %w", err)
		}
		months = append(months, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly order rows: %w", err)
	}

	return months, nil
}

// StatusCounts returns the number of orders per status
func (r *AnalyticsRepository) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	query := `SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status`

	executor := executorFor(r.db, nil)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	counts := []models.StatusCount{}
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", err)
	}

	return counts, nil
}

// TopProducts returns the products with the highest ordered quantity
func (r *AnalyticsRepository) TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error) {
	query := `
		SELECT product_name, SUM(quantity) AS total_quantity, COUNT(DISTINCT order_id), SUM(price * quantity)
		FROM order_items
		GROUP BY product_name
		ORDER BY total_quantity DESC
		LIMIT $1
	`

	executor := executorFor(r.db, nil)
	rows, err := executor.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	products := []models.TopProduct{}
	for rows.Next() {
		var p models.TopProduct
		if err := rows.Scan(&p.ProductName, &p.TotalQuantity, &p.OrderCount, &p.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top product rows: %w", err)
	}

	r.logger.Debug("top products computed", zap.Int("count", len(products)))
	return products, nil
}
