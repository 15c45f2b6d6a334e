package ledger

import (
	"time"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeVoucher = "Voucher"

// Event type constants
const (
	EventTypeVoucherPosted = "VoucherPosted"
)

// VoucherPostedEvent is raised when a voucher is committed
type VoucherPostedEvent struct {
	shared.BaseDomainEvent
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   VoucherType     `json:"voucher_type"`
	Date          time.Time       `json:"date"`
	SourceType    SourceType      `json:"source_type"`
	SourceID      uuid.UUID       `json:"source_id"`
	TotalDebit    decimal.Decimal `json:"total_debit"`
	TotalCredit   decimal.Decimal `json:"total_credit"`
}

// NewVoucherPostedEvent creates a new VoucherPostedEvent
func NewVoucherPostedEvent(v *Voucher) *VoucherPostedEvent {
	return &VoucherPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoucherPosted, AggregateTypeVoucher, v.ID),
		VoucherID:       v.ID,
		VoucherNumber:   v.VoucherNumber,
		VoucherType:     v.VoucherType,
		Date:            v.Date,
		SourceType:      v.SourceType,
		SourceID:        v.SourceID,
		TotalDebit:      v.TotalDebit(),
		TotalCredit:     v.TotalCredit(),
	}
}

// EventType returns the event type name
func (e *VoucherPostedEvent) EventType() string {
	return EventTypeVoucherPosted
}
