package partner

import (
	"time"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a partner's running commission-payable balance. It is
// mutated only by monotonic increments tied 1:1 to an order's delivery
// transition.
type Wallet struct {
	PartnerID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CommissionPayable decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (Wallet) TableName() string {
	return "partner_wallets"
}

// NewWallet creates a zero-balance wallet for a partner
func NewWallet(partnerID uuid.UUID) (*Wallet, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	now := time.Now()
	return &Wallet{
		PartnerID:         partnerID,
		CommissionPayable: decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Credit increments the commission-payable balance. Wallets are never
// debited by this core; payouts are a separate concern.
func (w *Wallet) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	w.CommissionPayable = w.CommissionPayable.Add(amount)
	w.UpdatedAt = time.Now()
	return nil
}

// WalletTransaction is an immutable record of one commission accrual.
// Once created it is never modified; corrections are new transactions.
type WalletTransaction struct {
	shared.BaseEntity
	PartnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"` // one accrual per order, enforced by the store
	OrderNumber   string          `gorm:"type:varchar(50)"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OccurredAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// NewWalletTransaction creates a new wallet transaction record
func NewWalletTransaction(partnerID, orderID uuid.UUID, orderNumber string, amount, balanceBefore, balanceAfter decimal.Decimal) (*WalletTransaction, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}

	return &WalletTransaction{
		BaseEntity:    shared.NewBaseEntity(),
		PartnerID:     partnerID,
		OrderID:       orderID,
		OrderNumber:   orderNumber,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		OccurredAt:    time.Now(),
	}, nil
}
