package trade

import (
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeSalesOrder   = "SalesOrder"
	AggregateTypeSalesInvoice = "SalesInvoice"
)

// Event type constants
const (
	EventTypeSalesOrderCreated   = "SalesOrderCreated"
	EventTypeSalesOrderDelivered = "SalesOrderDelivered"
	EventTypeSalesInvoiceCreated = "SalesInvoiceCreated"
)

// SalesOrderCreatedEvent is raised when a new sales order is created.
// It triggers order-number assignment and advance-payment voucher posting.
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	PaymentReceived decimal.Decimal `json:"payment_received"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		PaymentReceived: order.PaymentReceived,
	}
}

// EventType returns the event type name
func (e *SalesOrderCreatedEvent) EventType() string {
	return EventTypeSalesOrderCreated
}

// SalesOrderDeliveredEvent is raised on the transition into Delivered.
// It triggers partner commission accrual.
type SalesOrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID   `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	PartnerID      *uuid.UUID  `json:"partner_id,omitempty"`
	PreviousStatus OrderStatus `json:"previous_status"`
}

// NewSalesOrderDeliveredEvent creates a new SalesOrderDeliveredEvent
func NewSalesOrderDeliveredEvent(order *SalesOrder, previous OrderStatus) *SalesOrderDeliveredEvent {
	return &SalesOrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderDelivered, AggregateTypeSalesOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		PartnerID:       order.PartnerID,
		PreviousStatus:  previous,
	}
}

// EventType returns the event type name
func (e *SalesOrderDeliveredEvent) EventType() string {
	return EventTypeSalesOrderDelivered
}

// SalesInvoiceCreatedEvent is raised when a new sales invoice is created.
// It triggers invoice-number assignment and sales/COGS voucher posting.
type SalesInvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID    uuid.UUID       `json:"invoice_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// NewSalesInvoiceCreatedEvent creates a new SalesInvoiceCreatedEvent
func NewSalesInvoiceCreatedEvent(invoice *SalesInvoice) *SalesInvoiceCreatedEvent {
	return &SalesInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesInvoiceCreated, AggregateTypeSalesInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		CustomerID:      invoice.CustomerID,
		CustomerName:    invoice.CustomerName,
		GrandTotal:      invoice.GrandTotal,
	}
}

// EventType returns the event type name
func (e *SalesInvoiceCreatedEvent) EventType() string {
	return EventTypeSalesInvoiceCreated
}
