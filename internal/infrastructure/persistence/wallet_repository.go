package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizcentral/backend/internal/domain/partner"
	"github.com/bizcentral/backend/internal/domain/shared"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByPartner finds a partner's wallet
func (r *GormWalletRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) (*partner.Wallet, error) {
	var wallet partner.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, "partner_id = ?", partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// Save persists a wallet, inserting on first credit and updating after
func (r *GormWalletRepository) Save(ctx context.Context, wallet *partner.Wallet) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "partner_id"}}, UpdateAll: true}).
		Create(wallet).Error
}

var _ partner.WalletRepository = (*GormWalletRepository)(nil)

// GormWalletTransactionRepository implements WalletTransactionRepository using GORM
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// ExistsByOrder checks whether an accrual exists for the given order
func (r *GormWalletTransactionRepository) ExistsByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&partner.WalletTransaction{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a new wallet transaction. Create-only: the unique index on
// order_id makes a second accrual for the same order fail loudly.
func (r *GormWalletTransactionRepository) Save(ctx context.Context, tx *partner.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

var _ partner.WalletTransactionRepository = (*GormWalletTransactionRepository)(nil)
