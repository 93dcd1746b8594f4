package routes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tatanenfresh/backend/models"
	"github.com/tatanenfresh/backend/repositories"
)

// In-memory repositories backing the end-to-end router tests.

type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateEmail
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memoryUsers) ListInactive(_ context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		if !u.IsActive {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryUsers) Activate(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsActive = true
	return nil
}

func (m *memoryUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memoryProducts struct {
	mu       sync.Mutex
	products []*models.Product
}

func (m *memoryProducts) Create(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, product)
	return nil
}

func (m *memoryProducts) ListInStock(_ context.Context) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Product
	for _, p := range m.products {
		if p.InStock() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memoryOrders struct {
	mu     sync.Mutex
	orders []*models.Order
	items  map[uuid.UUID][]*models.OrderItem
}

func (m *memoryOrders) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	copied.Items = nil
	m.orders = append(m.orders, &copied)
	return nil
}

func (m *memoryOrders) CreateItem(_ context.Context, item *models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.OrderID] = append(m.items[item.OrderID], item)
	return nil
}

func (m *memoryOrders) List(_ context.Context, filter repositories.OrderFilter) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		copied := *o
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memoryOrders) ListItems(_ context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.OrderItem{}, m.items[orderID]...), nil
}

func (m *memoryOrders) find(id uuid.UUID) *models.Order {
	for _, o := range m.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (m *memoryOrders) GetStatusForUpdate(_ context.Context, id uuid.UUID) (models.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.find(id)
	if o == nil {
		return "", repositories.ErrNotFound
	}
	return o.Status, nil
}

func (m *memoryOrders) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus, reason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.find(id)
	if o == nil {
		return repositories.ErrNotFound
	}
	o.Status = status
	o.RejectionReason = reason
	return nil
}

func (m *memoryOrders) WithTx(repositories.Transaction) repositories.OrderRepository {
	return m
}

type memoryTx struct{}

func (memoryTx) Commit() error   { return nil }
func (memoryTx) Rollback() error { return nil }

type memoryTxManager struct{}

func (memoryTxManager) Begin(context.Context) (repositories.Transaction, error) {
	return memoryTx{}, nil
}

type memoryAnalytics struct{}

func (memoryAnalytics) MonthlyOrders(context.Context, time.Time) ([]models.MonthlyOrders, error) {
	return []models.MonthlyOrders{}, nil
}

func (memoryAnalytics) StatusCounts(context.Context) ([]models.StatusCount, error) {
	return []models.StatusCount{}, nil
}

func (memoryAnalytics) TopProducts(context.Context, int) ([]models.TopProduct, error) {
	return []models.TopProduct{}, nil
}

type memoryAudit struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (m *memoryAudit) Insert(_ context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *memoryAudit) List(_ context.Context, limit, offset int) ([]*models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AuditLog
	for i := len(m.logs) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.logs[i])
	}
	return out, nil
}

func (m *memoryAudit) GetByResource(_ context.Context, resourceType string, resourceID uuid.UUID) ([]*models.AuditLog, error) {
	return nil, nil
}

func newMemoryRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:     &memoryUsers{users: map[uuid.UUID]*models.User{}},
		Products:  &memoryProducts{},
		Orders:    &memoryOrders{items: map[uuid.UUID][]*models.OrderItem{}},
		Analytics: memoryAnalytics{},
		AuditLogs: &memoryAudit{},
	}
}
