package ledger

import (
	"context"

	"github.com/google/uuid"
)

// LedgerAccountRepository manages chart-of-accounts persistence.
// Lookups inside an event handler always run against the active transaction;
// nothing resolved here is cached across invocations.
type LedgerAccountRepository interface {
	// FindByID finds a ledger account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerAccount, error)

	// FindByName finds a ledger account by exact name match.
	// Returns shared.ErrNotFound when absent; for seed accounts that is a
	// configuration error, not a retryable condition.
	FindByName(ctx context.Context, name string) (*LedgerAccount, error)

	// Save persists a ledger account
	Save(ctx context.Context, account *LedgerAccount) error
}

// VoucherRepository manages voucher persistence
type VoucherRepository interface {
	// FindByID finds a voucher with its entries
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)

	// FindBySource finds all vouchers triggered by a business document
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]Voucher, error)

	// ExistsBySource checks whether a voucher of the given type already
	// exists for a triggering document
	ExistsBySource(ctx context.Context, voucherType VoucherType, sourceType SourceType, sourceID uuid.UUID) (bool, error)

	// Save persists a new voucher and its entries. Vouchers are immutable:
	// Save is create-only, never an update.
	Save(ctx context.Context, voucher *Voucher) error
}
