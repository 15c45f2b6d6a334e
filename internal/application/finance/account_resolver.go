package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAccountNotConfigured indicates a missing chart-of-accounts seed entry.
// Callers must treat this as a fatal configuration error and abort the
// whole transaction; it is never retried beyond the store's standard
// contention retry.
var ErrAccountNotConfigured = shared.NewDomainError("ACCOUNT_NOT_CONFIGURED", "Required ledger account is missing from the chart of accounts")

// AccountResolver resolves semantic account names and business parties to
// concrete ledger account references. It holds no state of its own: every
// resolution re-reads the store through the active transaction's
// repositories.
type AccountResolver struct {
	logger *zap.Logger
}

// NewAccountResolver creates a new account resolver
func NewAccountResolver(logger *zap.Logger) *AccountResolver {
	return &AccountResolver{logger: logger}
}

// ResolveByName resolves a seed account by exact name. A missing account
// is a chart-of-accounts misconfiguration, surfaced as
// ErrAccountNotConfigured.
func (r *AccountResolver) ResolveByName(ctx context.Context, repos TransactionalRepositories, name string) (uuid.UUID, error) {
	account, err := repos.Accounts().FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			r.logger.Error("chart of accounts is missing a required account",
				zap.String("account_name", name),
			)
			return uuid.Nil, ErrAccountNotConfigured
		}
		return uuid.Nil, fmt.Errorf("failed to resolve account %q: %w", name, err)
	}
	return account.ID, nil
}

// ResolveForCustomer resolves (or lazily creates) the receivable account
// for a customer, inside the caller's transaction.
//
// Resolution order: the account already referenced by the customer, if it
// still exists; an existing account sharing the customer's display name
// (orphaned or legacy data); otherwise a new account under the Trade
// Receivables group, with its id written back onto the customer. Two
// triggers for the same customer racing in separate transactions can still
// create a duplicate account; that residual risk is accepted.
func (r *AccountResolver) ResolveForCustomer(ctx context.Context, repos TransactionalRepositories, customerID uuid.UUID) (uuid.UUID, error) {
	customer, err := repos.Customers().FindByID(ctx, customerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load customer %s: %w", customerID, err)
	}

	if customer.LedgerAccountID != nil {
		account, err := repos.Accounts().FindByID(ctx, *customer.LedgerAccountID)
		if err == nil {
			return account.ID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("failed to load customer ledger account: %w", err)
		}
		// dangling reference, fall through to name match / creation
		r.logger.Warn("customer references a missing ledger account",
			zap.String("customer_id", customerID.String()),
			zap.String("account_id", customer.LedgerAccountID.String()),
		)
	}

	existing, err := repos.Accounts().FindByName(ctx, customer.Name)
	if err == nil {
		customer.LinkLedgerAccount(existing.ID)
		if err := repos.Customers().Save(ctx, customer); err != nil {
			return uuid.Nil, fmt.Errorf("failed to relink customer ledger account: %w", err)
		}
		return existing.ID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("failed to look up account by customer name: %w", err)
	}

	account, err := ledger.NewReceivableAccount(customer.Name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build receivable account: %w", err)
	}
	if err := repos.Accounts().Save(ctx, account); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create receivable account: %w", err)
	}

	customer.LinkLedgerAccount(account.ID)
	if err := repos.Customers().Save(ctx, customer); err != nil {
		return uuid.Nil, fmt.Errorf("failed to link customer ledger account: %w", err)
	}

	r.logger.Info("created receivable account for customer",
		zap.String("customer_id", customerID.String()),
		zap.String("customer_name", customer.Name),
		zap.String("account_id", account.ID.String()),
	)

	return account.ID, nil
}
