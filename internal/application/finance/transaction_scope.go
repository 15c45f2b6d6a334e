package finance

import (
	"context"

	"github.com/bizcentral/backend/internal/domain/catalog"
	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/partner"
	"github.com/bizcentral/backend/internal/domain/sequence"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/domain/trade"
)

// TransactionScope runs a handler's reads and writes inside one atomic
// transaction. Every handler call performs all of its work in a single
// Execute invocation: no handler spans two transactions for one logical
// operation. On commit conflict the implementation retries the whole
// function up to its configured budget, so the function must be safe to
// run more than once.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error the transaction is rolled back; no partial state is visible.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories scoped to
// the current transaction. Everything read through these repositories is
// re-resolved from the store inside the active transaction; nothing here
// is authoritative across transactions.
type TransactionalRepositories interface {
	// Orders returns the sales order repository
	Orders() trade.SalesOrderRepository
	// Invoices returns the sales invoice repository
	Invoices() trade.SalesInvoiceRepository
	// Products returns the product repository
	Products() catalog.ProductRepository
	// Customers returns the customer repository
	Customers() partner.CustomerRepository
	// Partners returns the partner repository
	Partners() partner.PartnerRepository
	// Wallets returns the partner wallet repository
	Wallets() partner.WalletRepository
	// WalletTransactions returns the wallet transaction repository
	WalletTransactions() partner.WalletTransactionRepository
	// Accounts returns the ledger account repository
	Accounts() ledger.LedgerAccountRepository
	// Vouchers returns the voucher repository
	Vouchers() ledger.VoucherRepository
	// Sequences returns the shard-backed sequence allocator
	Sequences() sequence.Allocator
	// ProcessedEvents returns the durable idempotency marker repository
	ProcessedEvents() shared.ProcessedEventRepository
}
