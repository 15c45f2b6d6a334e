package partner

import (
	"time"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is the business party a receivable account is resolved for.
// The ledger account reference is written back by the resolution service
// when a receivable account is lazily created.
type Customer struct {
	shared.BaseAggregateRoot
	Name            string     `gorm:"type:varchar(200);not null;index"`
	LedgerAccountID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(name string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// LinkLedgerAccount records the resolved receivable account on the customer
func (c *Customer) LinkLedgerAccount(accountID uuid.UUID) {
	c.LedgerAccountID = &accountID
	c.UpdatedAt = time.Now()
}
