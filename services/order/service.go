package order

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
	"github.com/tatanenfresh/backend/services"
	"github.com/tatanenfresh/backend/services/audit"
	"go.uber.org/zap"
)

// ItemInput is a product snapshot supplied by the client
type ItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	Unit        string
}

// CreateInput is a new order with its items. Amounts are taken as given.
type CreateInput struct {
	Items    []ItemInput
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Notes    string
}

// Service implements the order workflow
type Service struct {
	orders repositories.OrderRepository
	txMgr  repositories.TransactionManager
	audit  audit.Recorder
	logger *zap.Logger
}

// NewService creates an order service
func NewService(orders repositories.OrderRepository, txMgr repositories.TransactionManager, recorder audit.Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = audit.Discard
	}
	return &Service{
		orders: orders,
		txMgr:  txMgr,
		audit:  recorder,
		logger: logger,
	}
}

// Create stores the order header and every item in one transaction
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*models.Order, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	order := models.NewOrder(userID, in.Subtotal, in.Discount, in.Tax, in.Total, in.Notes)
	for _, item := range in.Items {
		order.AddItem(item.ProductID, item.ProductName, item.Price, item.Quantity, item.Unit)
	}

	err := services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		orders := s.orders.WithTx(tx)
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := orders.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, services.ErrTransactionFailed.Wrap(err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.String()))
	s.audit.Record(ctx, audit.OrderCreated(order))
	return order, nil
}

// List returns orders newest first with their items. Clients see only their
// own orders; admins see all of them.
func (s *Service) List(ctx context.Context, userID uuid.UUID, role models.UserRole) ([]*models.Order, error) {
	filter := repositories.OrderFilter{}
	if role != models.RoleAdmin {
		filter.UserID = &userID
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, services.ErrDatabaseError.Wrap(err)
	}

	// one item query per order
	for _, o := range orders {
		items, err := s.orders.ListItems(ctx, o.ID)
		if err != nil {
			return nil, services.ErrDatabaseError.Wrap(err)
		}
		o.Items = items
	}

	return orders, nil
}

// UpdateStatus moves an order to status. The rejection reason is kept only
// for rejected orders.
func (s *Service) UpdateStatus(ctx context.Context, adminID, orderID uuid.UUID, status models.OrderStatus, rejectionReason string) error {
	if !status.IsValid() {
		return services.ErrInvalidOrderStatus.Wrap(nil).WithDetail("status", string(status))
	}

	var reason *string
	if status == models.OrderStatusRejected {
		if r := strings.TrimSpace(rejectionReason); r != "" {
			reason = &r
		}
	}

	var from models.OrderStatus
	err := services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		orders := s.orders.WithTx(tx)

		current, err := orders.GetStatusForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !current.CanTransitionTo(status) {
			return services.ErrInvalidStatusTransition.Wrap(nil).
				WithDetail("from", string(current)).
				WithDetail("to", string(status))
		}
		from = current

		return orders.UpdateStatus(ctx, orderID, status, reason)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return services.ErrOrderNotFound
		case services.IsConflictError(err):
			return err
		default:
			return services.ErrTransactionFailed.Wrap(err)
		}
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(status)))
	s.audit.Record(ctx, audit.OrderStatusUpdated(adminID, orderID, from, status, reason))
	return nil
}

func validateCreate(in CreateInput) error {
	if len(in.Items) == 0 {
		return services.ErrEmptyOrder
	}
	for _, amount := range []decimal.Decimal{in.Subtotal, in.Discount, in.Tax, in.Total} {
		if amount.IsNegative() {
			return services.NewDomainError(services.ErrorTypeValidation, "amounts must not be negative", nil)
		}
	}
	for i, item := range in.Items {
		switch {
		case item.ProductID == uuid.Nil:
			return invalidItem(i, "product_id is required")
		case strings.TrimSpace(item.ProductName) == "":
			return invalidItem(i, "product_name is required")
		case item.Price.IsNegative():
			return invalidItem(i, "price must not be negative")
		case item.Quantity <= 0:
			return invalidItem(i, "quantity must be positive")
		case strings.TrimSpace(item.Unit) == "":
			return invalidItem(i, "unit is required")
		}
	}
	return nil
}

func invalidItem(index int, reason string) error {
	return services.NewDomainError(services.ErrorTypeValidation, "invalid order item", nil).
		WithDetail("index", index).
		WithDetail("reason", reason)
}
