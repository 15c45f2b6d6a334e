package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bizcentral/backend/internal/application/finance"
	"github.com/bizcentral/backend/internal/domain/catalog"
	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/partner"
	"github.com/bizcentral/backend/internal/domain/sequence"
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/domain/trade"
	"github.com/bizcentral/backend/internal/infrastructure/persistence"
)

// financeTestEnv wires the handlers against an in-memory store the same way
// the worker does against postgres.
type financeTestEnv struct {
	db       *gorm.DB
	scope    *persistence.GormTransactionScope
	accounts map[string]uuid.UUID
}

func setupFinanceTest(t *testing.T) *financeTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&ledger.LedgerAccount{}, &ledger.Voucher{}, &ledger.VoucherEntry{},
		&trade.SalesOrder{}, &trade.OrderLine{},
		&trade.SalesInvoice{}, &trade.InvoiceLine{},
		&partner.Customer{}, &partner.Partner{}, &partner.Wallet{}, &partner.WalletTransaction{},
		&catalog.Product{},
		&sequence.CounterShard{}, &shared.ProcessedEvent{},
	)
	require.NoError(t, err)

	// Shard rows are pre-created so allocations inside the handler
	// transactions never need a second connection to the in-memory store.
	for _, counter := range []string{sequence.CounterSalesOrders, sequence.CounterSalesInvoices, sequence.CounterVouchers} {
		for i := 0; i < sequence.DefaultShardCount; i++ {
			require.NoError(t, db.Create(&sequence.CounterShard{CounterName: counter, ShardIndex: i}).Error)
		}
	}

	env := &financeTestEnv{
		db:       db,
		scope:    persistence.NewGormTransactionScope(db, sequence.DefaultShardCount, 3),
		accounts: make(map[string]uuid.UUID),
	}

	seeds := []struct {
		name   string
		nature ledger.AccountNature
		side   ledger.BalanceSide
		group  string
	}{
		{ledger.AccountNameBank, ledger.NatureAsset, ledger.SideDebit, "Bank Accounts"},
		{ledger.AccountNameSales, ledger.NatureIncome, ledger.SideCredit, "Sales Accounts"},
		{ledger.AccountNameCGSTPayable, ledger.NatureLiability, ledger.SideCredit, "Duties & Taxes"},
		{ledger.AccountNameSGSTPayable, ledger.NatureLiability, ledger.SideCredit, "Duties & Taxes"},
		{ledger.AccountNameIGSTPayable, ledger.NatureLiability, ledger.SideCredit, "Duties & Taxes"},
		{ledger.AccountNameCOGS, ledger.NatureExpense, ledger.SideDebit, "Expenses"},
		{"Inventory", ledger.NatureAsset, ledger.SideDebit, "Current Assets"},
	}
	for _, s := range seeds {
		account, err := ledger.NewLedgerAccount(s.name, s.nature, s.side, s.group)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormLedgerAccountRepository(db).Save(context.Background(), account))
		env.accounts[s.name] = account.ID
	}

	return env
}

func (env *financeTestEnv) numbering() finance.NumberingConfig {
	return finance.NumberingConfig{
		OrderPrefix:   sequence.PrefixSalesOrder,
		InvoicePrefix: sequence.PrefixSalesInvoice,
		VoucherPrefix: sequence.PrefixVoucher,
		Digits:        sequence.DefaultNumberDigits,
	}
}

func (env *financeTestEnv) createCustomer(t *testing.T, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(env.db).Save(context.Background(), c))
	return c
}

func (env *financeTestEnv) createOrder(t *testing.T, customer *partner.Customer, partnerID *uuid.UUID, payment decimal.Decimal) *trade.SalesOrder {
	t.Helper()
	order, err := trade.NewSalesOrder(customer.ID, customer.Name, partnerID, payment, false)
	require.NoError(t, err)
	order.ClearDomainEvents()
	require.NoError(t, persistence.NewGormSalesOrderRepository(env.db).Save(context.Background(), order))
	return order
}

func (env *financeTestEnv) voucherBySource(t *testing.T, sourceType ledger.SourceType, sourceID uuid.UUID) []ledger.Voucher {
	t.Helper()
	vouchers, err := persistence.NewGormVoucherRepository(env.db).FindBySource(context.Background(), sourceType, sourceID)
	require.NoError(t, err)
	return vouchers
}

func entryAmounts(v *ledger.Voucher, accountID uuid.UUID) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range v.Entries {
		if e.AccountID == accountID {
			debit = debit.Add(e.Debit)
			credit = credit.Add(e.Credit)
		}
	}
	return debit, credit
}

func TestOrderCreatedHandler_AssignsNumberAndPostsAdvanceReceipt(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	customer := env.createCustomer(t, "Acme Traders")
	order := env.createOrder(t, customer, nil, decimal.NewFromInt(5000))

	handler := finance.NewOrderCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesOrderCreatedEvent(order)))

	saved, err := persistence.NewGormSalesOrderRepository(env.db).FindByID(ctx, order.ID)
	require.NoError(t, err)
	expectedNumber := "SO-" + time.Now().Format("0601") + "-0001"
	assert.Equal(t, expectedNumber, saved.OrderNumber)

	vouchers := env.voucherBySource(t, ledger.SourceTypeSalesOrder, order.ID)
	require.Len(t, vouchers, 1)
	v := &vouchers[0]
	assert.Equal(t, ledger.VoucherTypeReceipt, v.VoucherType)
	assert.True(t, v.IsBalanced())
	require.Len(t, v.Entries, 2)

	bankDebit, _ := entryAmounts(v, env.accounts[ledger.AccountNameBank])
	assert.True(t, bankDebit.Equal(decimal.NewFromInt(5000)))

	// The customer's receivable account was lazily created and linked
	refreshedCustomer, err := persistence.NewGormCustomerRepository(env.db).FindByID(ctx, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshedCustomer.LedgerAccountID)

	receivable, err := persistence.NewGormLedgerAccountRepository(env.db).FindByID(ctx, *refreshedCustomer.LedgerAccountID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", receivable.Name)
	assert.Equal(t, ledger.GroupTradeReceivables, receivable.GroupName)

	_, receivableCredit := entryAmounts(v, receivable.ID)
	assert.True(t, receivableCredit.Equal(decimal.NewFromInt(5000)))
}

func TestOrderCreatedHandler_ZeroAdvanceSkipsVoucher(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	customer := env.createCustomer(t, "Acme Traders")
	order := env.createOrder(t, customer, nil, decimal.Zero)

	handler := finance.NewOrderCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesOrderCreatedEvent(order)))

	saved, err := persistence.NewGormSalesOrderRepository(env.db).FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, saved.NumberAssigned())

	assert.Empty(t, env.voucherBySource(t, ledger.SourceTypeSalesOrder, order.ID))
}

func TestOrderCreatedHandler_RedeliveryIsNoOp(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	customer := env.createCustomer(t, "Acme Traders")
	order := env.createOrder(t, customer, nil, decimal.NewFromInt(5000))

	handler := finance.NewOrderCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)

	event := trade.NewSalesOrderCreatedEvent(order)
	require.NoError(t, handler.Handle(ctx, event))

	firstNumber := func() string {
		saved, err := persistence.NewGormSalesOrderRepository(env.db).FindByID(ctx, order.ID)
		require.NoError(t, err)
		return saved.OrderNumber
	}()

	// Same event redelivered, and a distinct event for the same order
	require.NoError(t, handler.Handle(ctx, event))
	require.NoError(t, handler.Handle(ctx, trade.NewSalesOrderCreatedEvent(order)))

	assert.Equal(t, firstNumber, func() string {
		saved, err := persistence.NewGormSalesOrderRepository(env.db).FindByID(ctx, order.ID)
		require.NoError(t, err)
		return saved.OrderNumber
	}())
	assert.Len(t, env.voucherBySource(t, ledger.SourceTypeSalesOrder, order.ID), 1)
}

// rehearsingScope re-runs the wrapped function through rolled-back attempts
// before the committing one, the way the real scope re-executes after a
// commit conflict.
type rehearsingScope struct {
	inner      finance.TransactionScope
	rehearsals int
}

var errRehearsalRollback = errors.New("rehearsal rollback")

func (s *rehearsingScope) Execute(ctx context.Context, fn func(finance.TransactionalRepositories) error) error {
	for i := 0; i < s.rehearsals; i++ {
		_ = s.inner.Execute(ctx, func(repos finance.TransactionalRepositories) error {
			_ = fn(repos)
			return errRehearsalRollback
		})
	}
	return s.inner.Execute(ctx, fn)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestOrderCreatedHandler_RetriedTransactionPublishesOnce(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	customer := env.createCustomer(t, "Acme Traders")
	order := env.createOrder(t, customer, nil, decimal.NewFromInt(5000))

	publisher := &capturingPublisher{}
	scope := &rehearsingScope{inner: env.scope, rehearsals: 2}
	handler := finance.NewOrderCreatedHandler(scope, finance.NewAccountResolver(log), env.numbering(), publisher, log)

	require.NoError(t, handler.Handle(ctx, trade.NewSalesOrderCreatedEvent(order)))

	// Only the committed attempt's voucher event reaches the publisher
	require.Len(t, publisher.events, 1)
	assert.Equal(t, ledger.EventTypeVoucherPosted, publisher.events[0].EventType())
	assert.Len(t, env.voucherBySource(t, ledger.SourceTypeSalesOrder, order.ID), 1)
}

func TestOrderCreatedHandler_MissingBankAccountAbortsEverything(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	// Simulate a chart of accounts without the bank seed
	require.NoError(t, env.db.Where("name = ?", ledger.AccountNameBank).Delete(&ledger.LedgerAccount{}).Error)

	customer := env.createCustomer(t, "Acme Traders")
	order := env.createOrder(t, customer, nil, decimal.NewFromInt(5000))

	handler := finance.NewOrderCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)
	err := handler.Handle(ctx, trade.NewSalesOrderCreatedEvent(order))
	require.Error(t, err)
	assert.True(t, errors.Is(err, finance.ErrAccountNotConfigured))

	// The whole transaction rolled back: no number, no voucher
	saved, findErr := persistence.NewGormSalesOrderRepository(env.db).FindByID(ctx, order.ID)
	require.NoError(t, findErr)
	assert.False(t, saved.NumberAssigned())
	assert.Empty(t, env.voucherBySource(t, ledger.SourceTypeSalesOrder, order.ID))
}

func TestInvoiceCreatedHandler_IntraStatePostsSalesVoucher(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	customer := env.createCustomer(t, "Acme Traders")
	invoice, err := trade.NewSalesInvoice(nil, customer.ID, customer.Name, false,
		decimal.NewFromInt(1000), decimal.NewFromInt(90), decimal.NewFromInt(90), decimal.Zero,
		time.Now())
	require.NoError(t, err)
	invoice.ClearDomainEvents()
	require.NoError(t, persistence.NewGormSalesInvoiceRepository(env.db).Save(ctx, invoice))

	handler := finance.NewInvoiceCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesInvoiceCreatedEvent(invoice)))

	saved, err := persistence.NewGormSalesInvoiceRepository(env.db).FindByID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-"+time.Now().Format("0601")+"-0001", saved.InvoiceNumber)

	vouchers := env.voucherBySource(t, ledger.SourceTypeSalesInvoice, invoice.ID)
	require.Len(t, vouchers, 1)
	v := &vouchers[0]
	assert.Equal(t, ledger.VoucherTypeSales, v.VoucherType)
	require.Len(t, v.Entries, 4)
	assert.True(t, v.IsBalanced())
	assert.True(t, v.TotalDebit().Equal(decimal.NewFromInt(1180)))

	_, salesCredit := entryAmounts(v, env.accounts[ledger.AccountNameSales])
	assert.True(t, salesCredit.Equal(decimal.NewFromInt(1000)))
	_, cgstCredit := entryAmounts(v, env.accounts[ledger.AccountNameCGSTPayable])
	assert.True(t, cgstCredit.Equal(decimal.NewFromInt(90)))
	_, sgstCredit := entryAmounts(v, env.accounts[ledger.AccountNameSGSTPayable])
	assert.True(t, sgstCredit.Equal(decimal.NewFromInt(90)))
	_, igstCredit := entryAmounts(v, env.accounts[ledger.AccountNameIGSTPayable])
	assert.True(t, igstCredit.IsZero())
}

func TestInvoiceCreatedHandler_InterStatePostsIGSTOnly(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	customer := env.createCustomer(t, "Acme Traders")
	invoice, err := trade.NewSalesInvoice(nil, customer.ID, customer.Name, true,
		decimal.NewFromInt(1000), decimal.Zero, decimal.Zero, decimal.NewFromInt(180),
		time.Now())
	require.NoError(t, err)
	invoice.ClearDomainEvents()
	require.NoError(t, persistence.NewGormSalesInvoiceRepository(env.db).Save(ctx, invoice))

	handler := finance.NewInvoiceCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesInvoiceCreatedEvent(invoice)))

	vouchers := env.voucherBySource(t, ledger.SourceTypeSalesInvoice, invoice.ID)
	require.Len(t, vouchers, 1)
	v := &vouchers[0]
	require.Len(t, v.Entries, 3)
	assert.True(t, v.IsBalanced())

	_, igstCredit := entryAmounts(v, env.accounts[ledger.AccountNameIGSTPayable])
	assert.True(t, igstCredit.Equal(decimal.NewFromInt(180)))
	_, cgstCredit := entryAmounts(v, env.accounts[ledger.AccountNameCGSTPayable])
	assert.True(t, cgstCredit.IsZero())
}

func TestInvoiceCreatedHandler_PostsCompanionCOGSVoucher(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	inventoryID := env.accounts["Inventory"]
	costed, err := catalog.NewProduct("Widget", "hardware", decimal.NewFromInt(100), &inventoryID)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(env.db).Save(ctx, costed))

	costless, err := catalog.NewProduct("Support Plan", "services", decimal.Zero, nil)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(env.db).Save(ctx, costless))

	customer := env.createCustomer(t, "Acme Traders")
	invoice, err := trade.NewSalesInvoice(nil, customer.ID, customer.Name, false,
		decimal.NewFromInt(1000), decimal.NewFromInt(90), decimal.NewFromInt(90), decimal.Zero,
		time.Now())
	require.NoError(t, err)
	invoice.ClearDomainEvents()

	line1, err := trade.NewInvoiceLine(costed.ID, costed.Name, costed.Category, decimal.NewFromInt(2), decimal.NewFromInt(400))
	require.NoError(t, err)
	invoice.AddLine(line1)
	line2, err := trade.NewInvoiceLine(costless.ID, costless.Name, costless.Category, decimal.NewFromInt(1), decimal.NewFromInt(200))
	require.NoError(t, err)
	invoice.AddLine(line2)
	require.NoError(t, persistence.NewGormSalesInvoiceRepository(env.db).Save(ctx, invoice))

	handler := finance.NewInvoiceCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesInvoiceCreatedEvent(invoice)))

	vouchers := env.voucherBySource(t, ledger.SourceTypeSalesInvoice, invoice.ID)
	require.Len(t, vouchers, 2, "sales voucher plus companion COGS voucher")

	var cogs *ledger.Voucher
	for i := range vouchers {
		if vouchers[i].VoucherType == ledger.VoucherTypeCOGS {
			cogs = &vouchers[i]
		}
	}
	require.NotNil(t, cogs)
	assert.True(t, cogs.IsBalanced())

	// 2 units x 100 cost; the costless line contributes nothing
	cogsDebit, _ := entryAmounts(cogs, env.accounts[ledger.AccountNameCOGS])
	assert.True(t, cogsDebit.Equal(decimal.NewFromInt(200)))
	_, inventoryCredit := entryAmounts(cogs, inventoryID)
	assert.True(t, inventoryCredit.Equal(decimal.NewFromInt(200)))
}

func TestInvoiceCreatedHandler_NoCostLinesSkipsCOGS(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	customer := env.createCustomer(t, "Acme Traders")
	invoice, err := trade.NewSalesInvoice(nil, customer.ID, customer.Name, false,
		decimal.NewFromInt(500), decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
	require.NoError(t, err)
	invoice.ClearDomainEvents()

	// A line whose product does not exist is skipped, not fatal
	line, err := trade.NewInvoiceLine(uuid.New(), "Ghost", "hardware", decimal.NewFromInt(1), decimal.NewFromInt(500))
	require.NoError(t, err)
	invoice.AddLine(line)
	require.NoError(t, persistence.NewGormSalesInvoiceRepository(env.db).Save(ctx, invoice))

	handler := finance.NewInvoiceCreatedHandler(env.scope, finance.NewAccountResolver(log), env.numbering(), nil, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesInvoiceCreatedEvent(invoice)))

	vouchers := env.voucherBySource(t, ledger.SourceTypeSalesInvoice, invoice.ID)
	require.Len(t, vouchers, 1)
	assert.Equal(t, ledger.VoucherTypeSales, vouchers[0].VoucherType)
}

func deliveredOrderWithLines(t *testing.T, env *financeTestEnv, partnerID *uuid.UUID) *trade.SalesOrder {
	t.Helper()
	customer := env.createCustomer(t, "Acme Traders")

	order, err := trade.NewSalesOrder(customer.ID, customer.Name, partnerID, decimal.Zero, false)
	require.NoError(t, err)
	order.ClearDomainEvents()
	require.NoError(t, order.AssignOrderNumber("SO-2506-0042"))

	line1, err := trade.NewOrderLine(uuid.New(), "Widget", "hardware", decimal.NewFromInt(3), decimal.NewFromInt(250))
	require.NoError(t, err)
	require.NoError(t, order.AddLine(line1))
	line2, err := trade.NewOrderLine(uuid.New(), "Support Plan", "services", decimal.NewFromInt(1), decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, order.AddLine(line2))

	require.NoError(t, order.TransitionTo(trade.OrderStatusConfirmed))
	require.NoError(t, order.TransitionTo(trade.OrderStatusDelivered))
	order.ClearDomainEvents()
	require.NoError(t, persistence.NewGormSalesOrderRepository(env.db).Save(context.Background(), order))
	return order
}

func TestOrderDeliveredHandler_AccruesCommissionExactlyOnce(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	p, err := partner.NewPartner("Reliable Referrals", []partner.CommissionRule{
		{Category: "hardware", RatePercent: decimal.NewFromInt(4)},
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormPartnerRepository(env.db).Save(ctx, p))

	order := deliveredOrderWithLines(t, env, &p.ID)

	handler := finance.NewOrderDeliveredHandler(env.scope, log)
	event := trade.NewSalesOrderDeliveredEvent(order, trade.OrderStatusConfirmed)
	require.NoError(t, handler.Handle(ctx, event))

	// hardware: 250 x 3 x 4% = 30; services has no rate and contributes zero
	expected := decimal.NewFromInt(30)

	wallet, err := persistence.NewGormWalletRepository(env.db).FindByPartner(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, wallet.CommissionPayable.Equal(expected), "got %s", wallet.CommissionPayable)

	saved, err := persistence.NewGormSalesOrderRepository(env.db).FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.Commission)
	assert.True(t, saved.Commission.Equal(expected))

	exists, err := persistence.NewGormWalletTransactionRepository(env.db).ExistsByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// Redelivery of the same event and a freshly decoded duplicate both
	// leave the wallet untouched
	require.NoError(t, handler.Handle(ctx, event))
	require.NoError(t, handler.Handle(ctx, trade.NewSalesOrderDeliveredEvent(order, trade.OrderStatusConfirmed)))

	wallet, err = persistence.NewGormWalletRepository(env.db).FindByPartner(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, wallet.CommissionPayable.Equal(expected), "wallet credited more than once")
}

func TestOrderDeliveredHandler_NoPartnerNoAccrual(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	order := deliveredOrderWithLines(t, env, nil)

	handler := finance.NewOrderDeliveredHandler(env.scope, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesOrderDeliveredEvent(order, trade.OrderStatusConfirmed)))

	saved, err := persistence.NewGormSalesOrderRepository(env.db).FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, saved.Commission)
}

func TestOrderDeliveredHandler_ZeroCommissionNoWallet(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	p, err := partner.NewPartner("No Matching Rates", []partner.CommissionRule{
		{Category: "furniture", RatePercent: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormPartnerRepository(env.db).Save(ctx, p))

	order := deliveredOrderWithLines(t, env, &p.ID)

	handler := finance.NewOrderDeliveredHandler(env.scope, log)
	require.NoError(t, handler.Handle(ctx, trade.NewSalesOrderDeliveredEvent(order, trade.OrderStatusConfirmed)))

	_, err = persistence.NewGormWalletRepository(env.db).FindByPartner(ctx, p.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound), "no wallet is created for a zero accrual")
}

func TestOrderDeliveredHandler_MissingPartnerIsFatal(t *testing.T) {
	env := setupFinanceTest(t)
	ctx := context.Background()
	log := zap.NewNop()

	ghost := uuid.New()
	order := deliveredOrderWithLines(t, env, &ghost)

	handler := finance.NewOrderDeliveredHandler(env.scope, log)
	err := handler.Handle(ctx, trade.NewSalesOrderDeliveredEvent(order, trade.OrderStatusConfirmed))
	require.Error(t, err)
	assert.True(t, errors.Is(err, finance.ErrPartnerNotConfigured))
}
