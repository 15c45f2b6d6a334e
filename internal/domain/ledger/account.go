package ledger

import (
	"github.com/bizcentral/backend/internal/domain/shared"
)

// AccountNature classifies a ledger account in the chart of accounts
type AccountNature string

const (
	NatureAsset     AccountNature = "ASSET"
	NatureLiability AccountNature = "LIABILITY"
	NatureIncome    AccountNature = "INCOME"
	NatureExpense   AccountNature = "EXPENSE"
)

// IsValid returns true if the account nature is valid
func (n AccountNature) IsValid() bool {
	switch n {
	case NatureAsset, NatureLiability, NatureIncome, NatureExpense:
		return true
	}
	return false
}

// BalanceSide is the side on which an account's balance normally sits
type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// IsValid returns true if the balance side is valid
func (s BalanceSide) IsValid() bool {
	return s == SideDebit || s == SideCredit
}

// AccountStatus represents the lifecycle status of a ledger account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusArchived AccountStatus = "ARCHIVED"
)

// Well-known chart-of-accounts names. These are seed data: handlers that
// cannot resolve one of them must fail the whole invocation rather than
// post a partial voucher.
const (
	AccountNameBank        = "Bank"
	AccountNameSales       = "Sales"
	AccountNameCGSTPayable = "CGST Payable"
	AccountNameSGSTPayable = "SGST Payable"
	AccountNameIGSTPayable = "IGST Payable"
	AccountNameCOGS        = "Cost of Goods Sold"
)

// GroupTradeReceivables is the account group under which per-customer
// receivable accounts are lazily created.
const GroupTradeReceivables = "Trade Receivables"

// LedgerAccount is a named bucket in the chart of accounts
type LedgerAccount struct {
	shared.BaseAggregateRoot
	Name          string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Nature        AccountNature `gorm:"type:varchar(20);not null"`
	NormalBalance BalanceSide   `gorm:"type:varchar(10);not null"`
	GroupName     string        `gorm:"type:varchar(100);not null;index"`
	AllowPosting  bool          `gorm:"not null;default:true"`
	Status        AccountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (LedgerAccount) TableName() string {
	return "ledger_accounts"
}

// NewLedgerAccount creates a new ledger account
func NewLedgerAccount(name string, nature AccountNature, normalBalance BalanceSide, groupName string) (*LedgerAccount, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot exceed 200 characters")
	}
	if !nature.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NATURE", "Account nature is not valid")
	}
	if !normalBalance.IsValid() {
		return nil, shared.NewDomainError("INVALID_BALANCE_SIDE", "Normal balance side is not valid")
	}
	if groupName == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_GROUP", "Account group cannot be empty")
	}

	return &LedgerAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Nature:            nature,
		NormalBalance:     normalBalance,
		GroupName:         groupName,
		AllowPosting:      true,
		Status:            AccountStatusActive,
	}, nil
}

// NewReceivableAccount creates a receivable account for a party under the
// Trade Receivables group. Used when a party is onboarded without a ledger
// account or its account reference is orphaned.
func NewReceivableAccount(partyName string) (*LedgerAccount, error) {
	return NewLedgerAccount(partyName, NatureAsset, SideDebit, GroupTradeReceivables)
}

// IsActive returns true if the account can be posted against
func (a *LedgerAccount) IsActive() bool {
	return a.Status == AccountStatusActive && a.AllowPosting
}

// Archive marks the account as archived. Archived accounts are kept while
// referenced by vouchers; they are never deleted.
func (a *LedgerAccount) Archive() {
	a.Status = AccountStatusArchived
	a.AllowPosting = false
}
