package postgres

import (
	"context"
	"fmt"

	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"go.uber.org/zap"
)

// ProductRepository implements the repositories.ProductRepository interface
type ProductRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB, logger *zap.Logger) repositories.ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, unit, stock, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := executorFor(r.db, nil)
	_, err := executor.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Unit,
		product.Stock,
		product.Category,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug("product created", zap.String("id", product.ID.String()), zap.String("name", product.Name))
	return nil
}

// ListInStock retrieves products with positive stock ordered by name
func (r *ProductRepository) ListInStock(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), price, unit, stock, COALESCE(category, ''), created_at
		FROM products
		WHERE stock > 0
		ORDER BY name
	`

	executor := executorFor(r.db, nil)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p := &models.Product{}
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Unit,
			&p.Stock,
			&p.Category,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, nil
}
