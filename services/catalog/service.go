package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"github.com/tatanenfresh/backend/services"
	"github.com/tatanenfresh/backend/services/audit"
	"go.uber.org/zap"
)

// CreateInput describes a new product. Unit defaults to Kg.
type CreateInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
	Stock       int
	Category    string
}

// Service manages the product catalog
type Service struct {
	products repositories.ProductRepository
	audit    audit.Recorder
	logger   *zap.Logger
}

// NewService creates a catalog service
func NewService(products repositories.ProductRepository, recorder audit.Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = audit.Discard
	}
	return &Service{
		products: products,
		audit:    recorder,
		logger:   logger,
	}
}

// ListAvailable returns products with stock, ordered by name
func (s *Service) ListAvailable(ctx context.Context) ([]*models.Product, error) {
	products, err := s.products.ListInStock(ctx)
	if err != nil {
		return nil, services.ErrDatabaseError.Wrap(err)
	}
	return products, nil
}

// Create adds a product to the catalog
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, in CreateInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "product name is required", nil)
	}
	if in.Price.IsNegative() {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "price must not be negative", nil)
	}
	if in.Stock < 0 {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "stock must not be negative", nil)
	}

	product := models.NewProduct(name, in.Description, in.Price, strings.TrimSpace(in.Unit), in.Stock, in.Category)
	if err := s.products.Create(ctx, product); err != nil {
		return nil, services.ErrDatabaseError.Wrap(err)
	}

	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	s.audit.Record(ctx, audit.ProductCreated(adminID, product))
	return product, nil
}
