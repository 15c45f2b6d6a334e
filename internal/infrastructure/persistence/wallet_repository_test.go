package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bizcentral/backend/internal/domain/partner"
	"github.com/bizcentral/backend/internal/domain/shared"
)

func setupWalletTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&partner.Wallet{}, &partner.WalletTransaction{})
	require.NoError(t, err)

	return db
}

func TestGormWalletRepository(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewGormWalletRepository(db)
	ctx := context.Background()

	partnerID := uuid.New()

	t.Run("missing wallet yields not found", func(t *testing.T) {
		_, err := repo.FindByPartner(ctx, partnerID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("save then find", func(t *testing.T) {
		w, err := partner.NewWallet(partnerID)
		require.NoError(t, err)
		require.NoError(t, w.Credit(decimal.NewFromInt(30)))
		require.NoError(t, repo.Save(ctx, w))

		found, err := repo.FindByPartner(ctx, partnerID)
		require.NoError(t, err)
		assert.True(t, found.CommissionPayable.Equal(decimal.NewFromInt(30)))
	})

	t.Run("save upserts the running balance", func(t *testing.T) {
		found, err := repo.FindByPartner(ctx, partnerID)
		require.NoError(t, err)
		require.NoError(t, found.Credit(decimal.NewFromInt(20)))
		require.NoError(t, repo.Save(ctx, found))

		again, err := repo.FindByPartner(ctx, partnerID)
		require.NoError(t, err)
		assert.True(t, again.CommissionPayable.Equal(decimal.NewFromInt(50)))
	})
}

func TestGormWalletTransactionRepository(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewGormWalletTransactionRepository(db)
	ctx := context.Background()

	partnerID, orderID := uuid.New(), uuid.New()

	t.Run("absent before first accrual", func(t *testing.T) {
		exists, err := repo.ExistsByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("present after save", func(t *testing.T) {
		txn, err := partner.NewWalletTransaction(partnerID, orderID, "SO-2506-0001",
			decimal.NewFromInt(30), decimal.Zero, decimal.NewFromInt(30))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, txn))

		exists, err := repo.ExistsByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("second accrual for the same order is rejected", func(t *testing.T) {
		dup, err := partner.NewWalletTransaction(partnerID, orderID, "SO-2506-0001",
			decimal.NewFromInt(30), decimal.NewFromInt(30), decimal.NewFromInt(60))
		require.NoError(t, err)

		err = repo.Save(ctx, dup)
		assert.Error(t, err, "unique order index makes duplicate accruals fail loudly")
	})
}
