package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tatanenfresh/backend/middleware"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/services/catalog"
	"github.com/tatanenfresh/backend/utils"
	"go.uber.org/zap"
)

// CatalogService defines the product operations used by the HTTP layer
type CatalogService interface {
	ListAvailable(ctx context.Context) ([]*models.Product, error)
	Create(ctx context.Context, adminID uuid.UUID, in catalog.CreateInput) (*models.Product, error)
}

type createProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Unit        string          `json:"unit" validate:"max=20"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"max=50"`
}

// ProductHandler handles catalog requests
type ProductHandler struct {
	catalog CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// HandleList handles GET /api/products
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAvailable(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, products)
}

// HandleCreate handles POST /api/products
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	product, err := h.catalog.Create(r.Context(), middleware.GetUserIDFromContext(r.Context()), catalog.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, product, "product created")
}
