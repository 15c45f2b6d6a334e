package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizcentral/backend/internal/domain/ledger"
	"github.com/bizcentral/backend/internal/domain/shared"
)

// GormVoucherRepository implements VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher with its entries
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Voucher, error) {
	var voucher ledger.Voucher
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		First(&voucher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &voucher, nil
}

// FindBySource finds all vouchers triggered by a business document
func (r *GormVoucherRepository) FindBySource(ctx context.Context, sourceType ledger.SourceType, sourceID uuid.UUID) ([]ledger.Voucher, error) {
	var vouchers []ledger.Voucher
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC").
		Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}

// ExistsBySource checks whether a voucher of the given type already exists
// for a triggering document
func (r *GormVoucherRepository) ExistsBySource(ctx context.Context, voucherType ledger.VoucherType, sourceType ledger.SourceType, sourceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledger.Voucher{}).
		Where("voucher_type = ? AND source_type = ? AND source_id = ?", voucherType, sourceType, sourceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a new voucher and its entries. Create-only: vouchers are
// immutable once posted, so a duplicate insert surfaces as an error.
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *ledger.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

var _ ledger.VoucherRepository = (*GormVoucherRepository)(nil)
