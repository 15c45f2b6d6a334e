package catalog

import (
	"context"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product carries the costing data the COGS derivation reads: the unit
// cost and the inventory ledger account credited when stock is consumed.
type Product struct {
	shared.BaseAggregateRoot
	Name               string          `gorm:"type:varchar(200);not null"`
	Category           string          `gorm:"type:varchar(100);not null;index"`
	Cost               decimal.Decimal `gorm:"type:decimal(18,4);not null"` // unit cost; zero means no COGS contribution
	InventoryAccountID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, category string, cost decimal.Decimal, inventoryAccountID *uuid.UUID) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Product cost cannot be negative")
	}
	return &Product{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Name:               name,
		Category:           category,
		Cost:               cost,
		InventoryAccountID: inventoryAccountID,
	}, nil
}

// HasCost reports whether the product contributes to COGS derivation
func (p *Product) HasCost() bool {
	return p.Cost.IsPositive() && p.InventoryAccountID != nil
}

// ProductRepository manages product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Save persists a product
	Save(ctx context.Context, product *Product) error
}
