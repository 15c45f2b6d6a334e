package trade

import (
	"time"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLine represents a line item in a sales invoice
type InvoiceLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // price per unit
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "sales_invoice_lines"
}

// NewInvoiceLine creates a new invoice line
func NewInvoiceLine(productID uuid.UUID, productName, category string, quantity, rate decimal.Decimal) (*InvoiceLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}

	now := time.Now()
	return &InvoiceLine{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		Category:    category,
		Quantity:    quantity,
		Rate:        rate,
		Amount:      quantity.Mul(rate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SalesInvoice represents a sales invoice aggregate root. Tax components
// are stored denormalized on the invoice itself: grand total equals taxable
// amount plus tax components by construction at creation time, and the
// voucher derivation trusts these stored fields.
type SalesInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);index"` // empty until assigned
	OrderID       *uuid.UUID      `gorm:"type:uuid;index"`        // originating sales order, optional
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	InterState    bool            `gorm:"not null;default:false"` // IGST when inter-state, CGST+SGST otherwise
	TaxableAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CGST          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SGST          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IGST          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Lines         []InvoiceLine   `gorm:"foreignKey:InvoiceID;references:ID"`
	InvoiceDate   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesInvoice) TableName() string {
	return "sales_invoices"
}

// NewSalesInvoice creates a new sales invoice with no invoice number
// assigned yet. The grand total must reconcile with the taxable amount and
// tax components; inconsistent documents are rejected here rather than
// discovered later as an unbalanced voucher.
func NewSalesInvoice(
	orderID *uuid.UUID,
	customerID uuid.UUID,
	customerName string,
	interState bool,
	taxableAmount, cgst, sgst, igst decimal.Decimal,
	invoiceDate time.Time,
) (*SalesInvoice, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if taxableAmount.IsNegative() || cgst.IsNegative() || sgst.IsNegative() || igst.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amounts cannot be negative")
	}
	if interState && (cgst.IsPositive() || sgst.IsPositive()) {
		return nil, shared.NewDomainError("INVALID_TAX_SPLIT", "Inter-state supply carries IGST only")
	}
	if !interState && igst.IsPositive() {
		return nil, shared.NewDomainError("INVALID_TAX_SPLIT", "Intra-state supply carries CGST and SGST only")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	invoice := &SalesInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		CustomerID:        customerID,
		CustomerName:      customerName,
		InterState:        interState,
		TaxableAmount:     taxableAmount,
		CGST:              cgst,
		SGST:              sgst,
		IGST:              igst,
		GrandTotal:        taxableAmount.Add(cgst).Add(sgst).Add(igst),
		Lines:             make([]InvoiceLine, 0),
		InvoiceDate:       invoiceDate,
	}

	invoice.AddDomainEvent(NewSalesInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddLine appends a line item to the invoice
func (inv *SalesInvoice) AddLine(line *InvoiceLine) {
	line.InvoiceID = inv.ID
	inv.Lines = append(inv.Lines, *line)
	inv.UpdatedAt = time.Now()
}

// TotalTax returns the sum of all tax components
func (inv *SalesInvoice) TotalTax() decimal.Decimal {
	return inv.CGST.Add(inv.SGST).Add(inv.IGST)
}

// NumberAssigned reports whether the sequential invoice number has been
// assigned
func (inv *SalesInvoice) NumberAssigned() bool {
	return inv.InvoiceNumber != ""
}

// AssignInvoiceNumber assigns the sequential invoice number exactly once
func (inv *SalesInvoice) AssignInvoiceNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if inv.NumberAssigned() {
		return shared.ErrAlreadyExists
	}
	inv.InvoiceNumber = number
	inv.UpdatedAt = time.Now()
	return nil
}
