package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching what clients already send.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCompleted OrderStatus = "completed"
)

// orderTransitions lists the statuses reachable from each status.
// rejected and completed are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusRejected},
	OrderStatusConfirmed: {OrderStatusRejected, OrderStatusCompleted},
	OrderStatusRejected:  {},
	OrderStatusCompleted: {},
}

// IsValid reports whether the status is a known order status
func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether an order in status s may move to next.
// Re-rejecting a rejected order is allowed so the reason can be corrected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == OrderStatusRejected && next == OrderStatusRejected {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderStatuses returns every known status
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusRejected, OrderStatusCompleted}
}

// Order is the aggregate root for a customer purchase; it owns its items
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	UserName        string          `json:"user_name,omitempty" db:"user_name"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount        decimal.Decimal `json:"discount" db:"discount"`
	Tax             decimal.Decimal `json:"tax" db:"tax"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Notes           string          `json:"notes" db:"notes"`
	Status          OrderStatus     `json:"status" db:"status"`
	RejectionReason *string         `json:"rejection_reason" db:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	Items           []*OrderItem    `json:"items"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order owned by userID
func NewOrder(userID uuid.UUID, subtotal, discount, tax, total decimal.Decimal, notes string) *Order {
	return &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       tax,
		Total:     total,
		Notes:     notes,
		Status:    OrderStatusPending,
		CreatedAt: time.Now(),
		Items:     []*OrderItem{},
	}
}

// AddItem attaches a product snapshot to the order
func (o *Order) AddItem(productID uuid.UUID, productName string, price decimal.Decimal, quantity int, unit string) *OrderItem {
	item := &OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
		Unit:        unit,
	}
	o.Items = append(o.Items, item)
	return item
}

// OrderItem is a denormalized product snapshot taken when the order was placed
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Unit        string          `json:"unit" db:"unit"`
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns price * quantity
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
