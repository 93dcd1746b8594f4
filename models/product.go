package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultProductUnit is used when a product is created without a unit
const DefaultProductUnit = "Kg"

// Product represents a catalog entry
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Unit        string          `json:"unit" db:"unit"`
	Stock       int             `json:"stock" db:"stock"`
	Category    string          `json:"category" db:"category"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new Product, applying the catalog defaults
func NewProduct(name, description string, price decimal.Decimal, unit string, stock int, category string) *Product {
	if unit == "" {
		unit = DefaultProductUnit
	}
	return &Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		Unit:        unit,
		Stock:       stock,
		Category:    category,
		CreatedAt:   time.Now(),
	}
}

// InStock reports whether the product can be offered to clients
func (p *Product) InStock() bool {
	return p.Stock > 0
}
