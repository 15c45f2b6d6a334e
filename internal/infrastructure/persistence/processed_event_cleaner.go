package persistence

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCleanupInterval = time.Hour

// ProcessedEventCleaner periodically purges idempotency markers that are
// past the retention window. Markers only need to outlive the upstream
// redelivery horizon; after that they are dead weight on the table.
type ProcessedEventCleaner struct {
	repo      *GormProcessedEventRepository
	retention time.Duration
	interval  time.Duration
	logger    *zap.Logger
}

// NewProcessedEventCleaner creates a cleaner over the processed_events table.
func NewProcessedEventCleaner(db *gorm.DB, retention, interval time.Duration, logger *zap.Logger) *ProcessedEventCleaner {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	return &ProcessedEventCleaner{
		repo:      NewGormProcessedEventRepository(db),
		retention: retention,
		interval:  interval,
		logger:    logger,
	}
}

// Start sweeps once immediately, then on every interval tick until the
// context is canceled.
func (c *ProcessedEventCleaner) Start(ctx context.Context) {
	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *ProcessedEventCleaner) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-c.retention)
	deleted, err := c.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		c.logger.Error("Failed to purge processed-event markers", zap.Error(err))
		return
	}
	if deleted > 0 {
		c.logger.Info("Purged processed-event markers",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
