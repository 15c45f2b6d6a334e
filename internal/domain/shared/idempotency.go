package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed event IDs to prevent duplicate processing.
// This is the fast, out-of-transaction first line of defense; the durable
// guarantee comes from the ProcessedEventRepository written inside the same
// transaction as the handler's side effects.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL.
	// Returns true if the event was newly marked, false if already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// ProcessedEvent is the durable idempotency marker for one handler's effect.
// A row is inserted in the same transaction as the handler's writes, so a
// redelivered event observes the row and becomes a no-op even when two
// deliveries race: the second insert fails on the primary key.
type ProcessedEvent struct {
	EventID     string    `gorm:"type:varchar(64);primaryKey"`
	Handler     string    `gorm:"type:varchar(100);primaryKey"`
	ProcessedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProcessedEvent) TableName() string {
	return "processed_events"
}

// ProcessedEventRepository records processed events transactionally
type ProcessedEventRepository interface {
	// MarkProcessed inserts the idempotency marker for (eventID, handler).
	// Returns false when the marker already exists, meaning the event's
	// effects were committed by an earlier delivery.
	MarkProcessed(ctx context.Context, eventID, handler string) (bool, error)
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed event IDs in the fast store
	TTL time.Duration

	// Enabled determines whether the fast-path idempotency check is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
