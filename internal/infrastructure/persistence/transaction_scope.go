package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	appfinance "github.com/bizcentral/backend/internal/application/finance"
	"github.com/bizcentral/backend/internal/domain/catalog"
	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/partner"
	"github.com/bizcentral/backend/internal/domain/sequence"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/domain/trade"
)

// GormTransactionScope implements TransactionScope using GORM transactions
// at SERIALIZABLE isolation. The shard allocator sums shard rows inside the
// transaction; at weaker levels two writers incrementing different shards
// each see only their own increment and compute the same total, which
// surfaces as a unique violation on the document number instead of a
// retryable conflict. Commit conflicts (serialization failures, deadlocks)
// are retried with a short backoff; the wrapped function must tolerate
// re-execution.
type GormTransactionScope struct {
	db         *gorm.DB
	txOpts     *sql.TxOptions
	shardCount int
	maxRetries int
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, shardCount, maxRetries int) *GormTransactionScope {
	if shardCount <= 0 {
		shardCount = sequence.DefaultShardCount
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	// sqlite transactions are serializable already and its driver rejects
	// explicit isolation options, so the level is requested on postgres only.
	txOpts := &sql.TxOptions{}
	if db.Dialector.Name() == "postgres" {
		txOpts.Isolation = sql.LevelSerializable
	}
	return &GormTransactionScope{db: db, txOpts: txOpts, shardCount: shardCount, maxRetries: maxRetries}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repos := &gormTransactionalRepositories{tx: tx, root: s.db, shardCount: s.shardCount}
			return fn(repos)
		}, s.txOpts)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	return err
}

// isRetryableTxError reports whether the transaction failed on a transient
// commit conflict worth retrying: postgres serialization failure (40001)
// or deadlock detected (40P01).
func isRetryableTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx         *gorm.DB
	root       *gorm.DB
	shardCount int
}

// Orders returns the sales order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Orders() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

// Invoices returns the sales invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Invoices() trade.SalesInvoiceRepository {
	return NewGormSalesInvoiceRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Customers returns the customer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// Partners returns the partner repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Partners() partner.PartnerRepository {
	return NewGormPartnerRepository(r.tx)
}

// Wallets returns the wallet repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Wallets() partner.WalletRepository {
	return NewGormWalletRepository(r.tx)
}

// WalletTransactions returns the wallet transaction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) WalletTransactions() partner.WalletTransactionRepository {
	return NewGormWalletTransactionRepository(r.tx)
}

// Accounts returns the ledger account repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Accounts() ledger.LedgerAccountRepository {
	return NewGormLedgerAccountRepository(r.tx)
}

// Vouchers returns the voucher repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Vouchers() ledger.VoucherRepository {
	return NewGormVoucherRepository(r.tx)
}

// Sequences returns the shard allocator bound to the current transaction.
// The allocator also keeps a handle on the root connection so it can
// initialize shard rows outside the transaction on a counter's first use.
func (r *gormTransactionalRepositories) Sequences() sequence.Allocator {
	return NewShardAllocator(r.tx, r.root, r.shardCount)
}

// ProcessedEvents returns the idempotency marker repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProcessedEvents() shared.ProcessedEventRepository {
	return NewGormProcessedEventRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appfinance.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
