package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository manages customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// Save persists a customer
	Save(ctx context.Context, customer *Customer) error
}

// PartnerRepository manages partner persistence
type PartnerRepository interface {
	// FindByID finds a partner with its commission rate matrix
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// Save persists a partner
	Save(ctx context.Context, p *Partner) error
}

// WalletRepository manages partner wallet persistence
type WalletRepository interface {
	// FindByPartner finds a partner's wallet.
	// Returns shared.ErrNotFound when the partner has no wallet yet.
	FindByPartner(ctx context.Context, partnerID uuid.UUID) (*Wallet, error)

	// Save persists a wallet
	Save(ctx context.Context, wallet *Wallet) error
}

// WalletTransactionRepository records commission accruals
type WalletTransactionRepository interface {
	// ExistsByOrder checks whether an accrual exists for the given order
	ExistsByOrder(ctx context.Context, orderID uuid.UUID) (bool, error)

	// Save persists a new wallet transaction. Create-only.
	Save(ctx context.Context, tx *WalletTransaction) error
}
