package ledger

import (
	"time"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherType represents the business derivation of a voucher
type VoucherType string

const (
	// VoucherTypeReceipt records money received in advance against an order
	VoucherTypeReceipt VoucherType = "RECEIPT"
	// VoucherTypeSales records invoice revenue and tax liabilities
	VoucherTypeSales VoucherType = "SALES"
	// VoucherTypeCOGS records the cost of inventory consumed by a sale
	VoucherTypeCOGS VoucherType = "COGS"
)

// IsValid returns true if the voucher type is valid
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherTypeReceipt, VoucherTypeSales, VoucherTypeCOGS:
		return true
	}
	return false
}

// SourceType identifies the business document that triggered a voucher
type SourceType string

const (
	SourceTypeSalesOrder   SourceType = "SALES_ORDER"
	SourceTypeSalesInvoice SourceType = "SALES_INVOICE"
)

// VoucherEntry is a single debit or credit line of a voucher.
// Exactly one of Debit/Credit is non-zero.
type VoucherEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	VoucherID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo    int             `gorm:"not null"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (VoucherEntry) TableName() string {
	return "voucher_entries"
}

// NewDebitEntry creates an entry debiting the given account
func NewDebitEntry(accountID uuid.UUID, amount decimal.Decimal) (VoucherEntry, error) {
	if accountID == uuid.Nil {
		return VoucherEntry{}, shared.NewDomainError("INVALID_ACCOUNT", "Entry account ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return VoucherEntry{}, shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	return VoucherEntry{
		ID:        uuid.New(),
		AccountID: accountID,
		Debit:     amount,
		Credit:    decimal.Zero,
	}, nil
}

// NewCreditEntry creates an entry crediting the given account
func NewCreditEntry(accountID uuid.UUID, amount decimal.Decimal) (VoucherEntry, error) {
	if accountID == uuid.Nil {
		return VoucherEntry{}, shared.NewDomainError("INVALID_ACCOUNT", "Entry account ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return VoucherEntry{}, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	return VoucherEntry{
		ID:        uuid.New(),
		AccountID: accountID,
		Debit:     decimal.Zero,
		Credit:    amount,
	}, nil
}

// IsDebit returns true if this is a debit entry
func (e VoucherEntry) IsDebit() bool {
	return e.Debit.IsPositive()
}

// Voucher is an atomic, balanced set of debit/credit entries representing
// one financial event. A voucher is created once by exactly one triggering
// event and never mutated; corrections are new reversing vouchers.
type Voucher struct {
	shared.BaseAggregateRoot
	VoucherNumber string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	VoucherType   VoucherType    `gorm:"type:varchar(20);not null;index"`
	Date          time.Time      `gorm:"not null"`
	Narration     string         `gorm:"type:varchar(500)"`
	SourceType    SourceType     `gorm:"type:varchar(30);not null;index:idx_voucher_source"`
	SourceID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_voucher_source"`
	Entries       []VoucherEntry `gorm:"foreignKey:VoucherID;references:ID"`
}

// TableName returns the table name for GORM
func (Voucher) TableName() string {
	return "vouchers"
}

// NewVoucher creates a new voucher from caller-constructed entries.
// Each entry must carry exactly one non-zero side; the debit=credit balance
// across entries is the caller's responsibility, derived from the triggering
// document's own arithmetic. IsBalanced exposes the invariant for assertions.
func NewVoucher(
	voucherNumber string,
	voucherType VoucherType,
	date time.Time,
	narration string,
	sourceType SourceType,
	sourceID uuid.UUID,
	entries []VoucherEntry,
) (*Voucher, error) {
	if voucherNumber == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NUMBER", "Voucher number cannot be empty")
	}
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_TYPE", "Voucher type is not valid")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_DATE", "Voucher date is required")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VOUCHER_SOURCE", "Voucher source ID cannot be empty")
	}
	if len(entries) < 2 {
		return nil, shared.NewDomainError("INVALID_VOUCHER_ENTRIES", "Voucher requires at least two entries")
	}

	v := &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VoucherNumber:     voucherNumber,
		VoucherType:       voucherType,
		Date:              date,
		Narration:         narration,
		SourceType:        sourceType,
		SourceID:          sourceID,
		Entries:           make([]VoucherEntry, 0, len(entries)),
	}

	for i, entry := range entries {
		if entry.AccountID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ACCOUNT", "Entry account ID cannot be empty")
		}
		oneSided := (entry.Debit.IsPositive() && entry.Credit.IsZero()) ||
			(entry.Credit.IsPositive() && entry.Debit.IsZero())
		if !oneSided {
			return nil, shared.NewDomainError("INVALID_VOUCHER_ENTRY", "Entry must have exactly one non-zero side")
		}
		entry.VoucherID = v.ID
		entry.LineNo = i + 1
		v.Entries = append(v.Entries, entry)
	}

	v.AddDomainEvent(NewVoucherPostedEvent(v))

	return v, nil
}

// TotalDebit returns the sum of all debit entries
func (v *Voucher) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit entries
func (v *Voucher) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.Credit)
	}
	return total
}

// IsBalanced reports whether total debits equal total credits
func (v *Voucher) IsBalanced() bool {
	return v.TotalDebit().Equal(v.TotalCredit())
}
