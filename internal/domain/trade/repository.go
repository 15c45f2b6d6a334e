package trade

import (
	"context"

	"github.com/google/uuid"
)

// SalesOrderRepository manages sales order persistence
type SalesOrderRepository interface {
	// FindByID finds a sales order with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderNumber finds a sales order by its assigned number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)

	// Save persists a sales order and its lines
	Save(ctx context.Context, order *SalesOrder) error
}

// SalesInvoiceRepository manages sales invoice persistence
type SalesInvoiceRepository interface {
	// FindByID finds a sales invoice with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*SalesInvoice, error)

	// FindByInvoiceNumber finds a sales invoice by its assigned number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*SalesInvoice, error)

	// Save persists a sales invoice and its lines
	Save(ctx context.Context, invoice *SalesInvoice) error
}
