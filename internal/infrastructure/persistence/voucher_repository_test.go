package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/shared"
)

func setupVoucherTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&ledger.Voucher{}, &ledger.VoucherEntry{})
	require.NoError(t, err)

	return db
}

func newTestVoucher(t *testing.T, voucherType ledger.VoucherType, sourceID uuid.UUID) *ledger.Voucher {
	t.Helper()
	debit, err := ledger.NewDebitEntry(uuid.New(), decimal.NewFromInt(1180))
	require.NoError(t, err)
	sales, err := ledger.NewCreditEntry(uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, err)
	tax, err := ledger.NewCreditEntry(uuid.New(), decimal.NewFromInt(180))
	require.NoError(t, err)

	v, err := ledger.NewVoucher("VCH-2506-"+uuid.NewString()[:8], voucherType, time.Now(), "test voucher",
		ledger.SourceTypeSalesInvoice, sourceID, []ledger.VoucherEntry{debit, sales, tax})
	require.NoError(t, err)
	return v
}

func TestGormVoucherRepository_SaveAndFind(t *testing.T) {
	db := setupVoucherTestDB(t)
	repo := NewGormVoucherRepository(db)
	ctx := context.Background()

	sourceID := uuid.New()
	v := newTestVoucher(t, ledger.VoucherTypeSales, sourceID)
	require.NoError(t, repo.Save(ctx, v))

	t.Run("finds by id with ordered entries", func(t *testing.T) {
		found, err := repo.FindByID(ctx, v.ID)
		require.NoError(t, err)
		require.Len(t, found.Entries, 3)
		assert.Equal(t, 1, found.Entries[0].LineNo)
		assert.Equal(t, 2, found.Entries[1].LineNo)
		assert.Equal(t, 3, found.Entries[2].LineNo)
		assert.True(t, found.IsBalanced())
	})

	t.Run("finds by source", func(t *testing.T) {
		found, err := repo.FindBySource(ctx, ledger.SourceTypeSalesInvoice, sourceID)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, v.ID, found[0].ID)
	})

	t.Run("missing id yields not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormVoucherRepository_ExistsBySource(t *testing.T) {
	db := setupVoucherTestDB(t)
	repo := NewGormVoucherRepository(db)
	ctx := context.Background()

	sourceID := uuid.New()
	require.NoError(t, repo.Save(ctx, newTestVoucher(t, ledger.VoucherTypeSales, sourceID)))

	exists, err := repo.ExistsBySource(ctx, ledger.VoucherTypeSales, ledger.SourceTypeSalesInvoice, sourceID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySource(ctx, ledger.VoucherTypeCOGS, ledger.SourceTypeSalesInvoice, sourceID)
	require.NoError(t, err)
	assert.False(t, exists, "a different voucher type from the same source is absent")

	exists, err = repo.ExistsBySource(ctx, ledger.VoucherTypeSales, ledger.SourceTypeSalesInvoice, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormVoucherRepository_SaveIsCreateOnly(t *testing.T) {
	db := setupVoucherTestDB(t)
	repo := NewGormVoucherRepository(db)
	ctx := context.Background()

	v := newTestVoucher(t, ledger.VoucherTypeReceipt, uuid.New())
	require.NoError(t, repo.Save(ctx, v))

	err := repo.Save(ctx, v)
	assert.Error(t, err, "vouchers are immutable; re-saving the same row must fail")
}
