package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/models"
)

var (
	// ErrNotFound is returned when a lookup or targeted update matches no row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a user insert violates the email unique constraint
	ErrDuplicateEmail = errors.New("email already registered")
)

// TransactionManager starts database transactions. Repositories join one
// through their WithTx method.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction is an open database transaction
type Transaction interface {
	Commit() error
	Rollback() error
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email, including the password hash
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmail reports whether an account already uses the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ListInactive retrieves all users awaiting approval
	ListInactive(ctx context.Context) ([]*models.User, error)

	// Activate marks a user as approved
	Activate(ctx context.Context, id uuid.UUID) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository handles catalog data operations
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *models.Product) error

	// ListInStock retrieves products with positive stock ordered by name
	ListInStock(ctx context.Context) ([]*models.Product, error)
}

// OrderFilter narrows an order listing. A nil UserID lists every order.
type OrderFilter struct {
	UserID *uuid.UUID
}

// OrderRepository handles order and order item data operations
type OrderRepository interface {
	// Create inserts the order header
	Create(ctx context.Context, order *models.Order) error

	// CreateItem inserts a single order item
	CreateItem(ctx context.Context, item *models.OrderItem) error

	// List retrieves order headers newest first
	List(ctx context.Context, filter OrderFilter) ([]*models.Order, error)

	// ListItems retrieves the items of an order
	ListItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)

	// GetStatusForUpdate reads the current status and locks the row for the
	// rest of the surrounding transaction
	GetStatusForUpdate(ctx context.Context, id uuid.UUID) (models.OrderStatus, error)

	// UpdateStatus sets status and rejection reason
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, rejectionReason *string) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) OrderRepository
}

// AnalyticsRepository runs the reporting aggregates
type AnalyticsRepository interface {
	// MonthlyOrders returns order count and summed totals per month since the given time
	MonthlyOrders(ctx context.Context, since time.Time) ([]models.MonthlyOrders, error)

	// StatusCounts returns the number of orders per status
	StatusCounts(ctx context.Context) ([]models.StatusCount, error)

	// TopProducts returns the products with the highest ordered quantity
	TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error)
}

// AuditRepository handles audit log data operations
type AuditRepository interface {
	// Insert inserts a new audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// List retrieves audit logs newest first with pagination
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// GetByResource retrieves audit logs for a resource
	GetByResource(ctx context.Context, resourceType string, resourceID uuid.UUID) ([]*models.AuditLog, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users     UserRepository
	Products  ProductRepository
	Orders    OrderRepository
	Analytics AnalyticsRepository
	AuditLogs AuditRepository
}
