package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tatanenfresh/backend/middleware"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/services/order"
	"github.com/tatanenfresh/backend/utils"
	"go.uber.org/zap"
)

// OrderService defines the order workflow operations used by the HTTP layer
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, in order.CreateInput) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, role models.UserRole) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, status models.OrderStatus, rejectionReason string) error
}

type orderItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	Unit        string          `json:"unit" validate:"required"`
}

type createOrderRequest struct {
	Items    []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal decimal.Decimal    `json:"subtotal" validate:"gte=0"`
	Discount decimal.Decimal    `json:"discount" validate:"gte=0"`
	Tax      decimal.Decimal    `json:"tax" validate:"gte=0"`
	Total    decimal.Decimal    `json:"total" validate:"gte=0"`
	Notes    string             `json:"notes"`
}

type updateStatusRequest struct {
	Status          string `json:"status" validate:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// OrderCreatedResponse is returned after an order is placed
type OrderCreatedResponse struct {
	ID    uuid.UUID       `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// OrderHandler handles order placement, listing and status updates
type OrderHandler struct {
	orders OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// HandleCreate handles POST /api/orders
func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req createOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	in := order.CreateInput{
		Items:    make([]order.ItemInput, 0, len(req.Items)),
		Subtotal: req.Subtotal,
		Discount: req.Discount,
		Tax:      req.Tax,
		Total:    req.Total,
		Notes:    req.Notes,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, order.ItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
		})
	}

	created, err := h.orders.Create(r.Context(), claims.UserID, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, OrderCreatedResponse{ID: created.ID, Total: created.Total}, "order created")
}

// HandleList handles GET /api/orders
func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	orders, err := h.orders.List(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, orders)
}

// HandleUpdateStatus handles PUT /api/orders/{id}/status
func (h *OrderHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.URLParamUUID(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	var req updateStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	adminID := middleware.GetUserIDFromContext(r.Context())
	if err := h.orders.UpdateStatus(r.Context(), adminID, orderID, models.OrderStatus(req.Status), req.RejectionReason); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteMessage(w, "order status updated")
}
