package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizcentral/backend/internal/domain/shared"
)

// GormProcessedEventRepository implements ProcessedEventRepository using GORM.
// The marker row commits in the same transaction as the handler's writes,
// which is what makes redelivery a true no-op rather than a best effort.
type GormProcessedEventRepository struct {
	db *gorm.DB
}

// NewGormProcessedEventRepository creates a new GormProcessedEventRepository
func NewGormProcessedEventRepository(db *gorm.DB) *GormProcessedEventRepository {
	return &GormProcessedEventRepository{db: db}
}

// MarkProcessed inserts the idempotency marker for (eventID, handler).
// Returns false when the marker already exists.
func (r *GormProcessedEventRepository) MarkProcessed(ctx context.Context, eventID, handler string) (bool, error) {
	marker := shared.ProcessedEvent{
		EventID:     eventID,
		Handler:     handler,
		ProcessedAt: time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&marker)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteOlderThan purges markers past the retention window. Intended for a
// periodic cleanup job, never for the hot path.
func (r *GormProcessedEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("processed_at < ?", cutoff).
		Delete(&shared.ProcessedEvent{})
	return res.RowsAffected, res.Error
}

var _ shared.ProcessedEventRepository = (*GormProcessedEventRepository)(nil)
