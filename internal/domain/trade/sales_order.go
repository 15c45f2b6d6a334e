package trade

import (
	"fmt"
	"time"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of a sales order
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states with no outgoing transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusCreated:
		return target == OrderStatusConfirmed || target == OrderStatusCanceled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusDelivered || target == OrderStatusCanceled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCanceled:
		return false
	}
	return false
}

// OrderLine represents a line item in a sales order
type OrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "sales_order_lines"
}

// NewOrderLine creates a new order line
func NewOrderLine(productID uuid.UUID, productName, category string, quantity, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderLine{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		Category:    category,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SalesOrder represents a sales order aggregate root. The order number is
// assigned at most once, after creation, by the numbering handler; the
// commission field is stamped at most once, on delivery. Both fields double
// as idempotency guards against event redelivery.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string           `gorm:"type:varchar(50);index"` // empty until assigned
	CustomerID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	CustomerName    string           `gorm:"type:varchar(200);not null"`
	PartnerID       *uuid.UUID       `gorm:"type:uuid;index"` // referring partner, optional
	Status          OrderStatus      `gorm:"type:varchar(20);not null;default:'CREATED';index"`
	PaymentReceived decimal.Decimal  `gorm:"type:decimal(18,4);not null"` // advance payment at creation
	Commission      *decimal.Decimal `gorm:"type:decimal(18,4)"`          // nil until accrued on delivery
	InterState      bool             `gorm:"not null;default:false"`      // supply crosses state lines
	Lines           []OrderLine      `gorm:"foreignKey:OrderID;references:ID"`
	Remark          string           `gorm:"type:varchar(500)"`
	DeliveredAt     *time.Time
	CanceledAt      *time.Time
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder creates a new sales order in Created status with no order
// number assigned yet
func NewSalesOrder(customerID uuid.UUID, customerName string, partnerID *uuid.UUID, paymentReceived decimal.Decimal, interState bool) (*SalesOrder, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if paymentReceived.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment received cannot be negative")
	}

	order := &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		CustomerName:      customerName,
		PartnerID:         partnerID,
		Status:            OrderStatusCreated,
		PaymentReceived:   paymentReceived,
		InterState:        interState,
		Lines:             make([]OrderLine, 0),
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// AddLine appends a line item to the order
func (o *SalesOrder) AddLine(line *OrderLine) error {
	if o.Status != OrderStatusCreated {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to a newly created order")
	}
	line.OrderID = o.ID
	o.Lines = append(o.Lines, *line)
	o.UpdatedAt = time.Now()
	return nil
}

// TotalAmount returns the sum of all line amounts
func (o *SalesOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

// NumberAssigned reports whether the sequential order number has been
// assigned. Numbering handlers must check this first and no-op on
// redelivered creation events.
func (o *SalesOrder) NumberAssigned() bool {
	return o.OrderNumber != ""
}

// AssignOrderNumber assigns the sequential order number exactly once
func (o *SalesOrder) AssignOrderNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if o.NumberAssigned() {
		return shared.ErrAlreadyExists
	}
	o.OrderNumber = number
	o.UpdatedAt = time.Now()
	return nil
}

// TransitionTo moves the order to the target status, validating the
// transition against the state machine
func (o *SalesOrder) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	now := time.Now()
	previous := o.Status
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
		o.AddDomainEvent(NewSalesOrderDeliveredEvent(o, previous))
	case OrderStatusCanceled:
		o.CanceledAt = &now
	}

	return nil
}

// CommissionApplied reports whether partner commission has already been
// accrued for this order. The accrual handler checks this first; combined
// with the processed-events marker it keeps duplicate delivery events from
// double-crediting the wallet.
func (o *SalesOrder) CommissionApplied() bool {
	return o.Commission != nil
}

// ApplyCommission stamps the computed commission total exactly once
func (o *SalesOrder) ApplyCommission(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission cannot be negative")
	}
	if o.CommissionApplied() {
		return shared.ErrAlreadyExists
	}
	o.Commission = &amount
	o.UpdatedAt = time.Now()
	return nil
}
