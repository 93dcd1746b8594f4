package models

import "github.com/shopspring/decimal"

// MonthlyOrders is one month of order volume as read from storage
type MonthlyOrders struct {
	Month  string
	Count  int
	Amount decimal.Decimal
}

// StatusCount is the number of orders in a given status
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

// TopProduct is a product ranked by quantity ordered, as read from storage
type TopProduct struct {
	ProductName   string
	TotalQuantity int
	OrderCount    int
	TotalSpent    decimal.Decimal
}

// AdminMonthlyOrders is a month of store revenue
type AdminMonthlyOrders struct {
	Month   string          `json:"month"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ClientMonthlyOrders is a month of client spending
type ClientMonthlyOrders struct {
	Month      string          `json:"month"`
	Count      int             `json:"count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// AdminTopProduct ranks a product by quantity and the orders it appears in
type AdminTopProduct struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int    `json:"total_quantity"`
	OrderCount    int    `json:"order_count"`
}

// ClientTopProduct ranks a product by quantity and the money spent on it
type ClientTopProduct struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

// AdminAnalytics is the store-wide dashboard payload
type AdminAnalytics struct {
	MonthlyOrders []AdminMonthlyOrders `json:"monthlyOrders"`
	StatusCounts  []StatusCount        `json:"statusCounts"`
	TopProducts   []AdminTopProduct    `json:"topProducts"`
}

// ClientStatistics is the purchase statistics payload shown to clients
type ClientStatistics struct {
	MonthlyOrders []ClientMonthlyOrders `json:"monthlyOrders"`
	StatusCounts  []StatusCount         `json:"statusCounts"`
	TopProducts   []ClientTopProduct    `json:"topProducts"`
}
