package persistence

import (
	"context"
	"fmt"
	"math/rand"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bizcentral/backend/internal/domain/sequence"
)

// ShardAllocator implements sequence.Allocator over the counter_shards table.
//
// Each counter name owns a fixed set of shard rows. Allocate increments one
// randomly chosen shard inside the caller's transaction and returns the sum
// of all shard counts as read by that same transaction, which already
// includes the increment. Concurrent transactions that pick different shards
// do not block each other; transactions that pick the same shard serialize
// on that row only.
type ShardAllocator struct {
	tx         *gorm.DB
	root       *gorm.DB
	shardCount int
}

// NewShardAllocator creates an allocator bound to an active transaction.
// root is a non-transactional handle used only to create shard rows on a
// counter's first use, so shard initialization is visible to concurrent
// transactions immediately instead of being held back by the caller's
// isolation level.
func NewShardAllocator(tx, root *gorm.DB, shardCount int) *ShardAllocator {
	if shardCount <= 0 {
		shardCount = sequence.DefaultShardCount
	}
	return &ShardAllocator{tx: tx, root: root, shardCount: shardCount}
}

// Allocate returns the next value of the named counter.
func (a *ShardAllocator) Allocate(ctx context.Context, counterName string) (int64, error) {
	if err := a.ensureShards(ctx, counterName); err != nil {
		return 0, err
	}

	shard := rand.Intn(a.shardCount)
	res := a.tx.WithContext(ctx).
		Model(&sequence.CounterShard{}).
		Where("counter_name = ? AND shard_index = ?", counterName, shard).
		UpdateColumn("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment shard %d of counter %q: %w", shard, counterName, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("shard %d of counter %q does not exist", shard, counterName)
	}

	// The sum is read in the incrementing transaction, so it sees the
	// increment above plus everything committed before the transaction
	// began. Values are unique per committed transaction, not ordered by
	// wall clock.
	var total int64
	err := a.tx.WithContext(ctx).
		Model(&sequence.CounterShard{}).
		Where("counter_name = ?", counterName).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum shards of counter %q: %w", counterName, err)
	}
	return total, nil
}

// ensureShards creates the shard rows for a counter on first use. Runs on
// the root connection with conflict-ignore semantics so racing callers all
// succeed and the rows commit independently of the caller's transaction.
func (a *ShardAllocator) ensureShards(ctx context.Context, counterName string) error {
	var count int64
	err := a.tx.WithContext(ctx).
		Model(&sequence.CounterShard{}).
		Where("counter_name = ?", counterName).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to probe shards of counter %q: %w", counterName, err)
	}
	if count >= int64(a.shardCount) {
		return nil
	}

	shards := make([]sequence.CounterShard, 0, a.shardCount)
	for i := 0; i < a.shardCount; i++ {
		shards = append(shards, sequence.CounterShard{
			CounterName: counterName,
			ShardIndex:  i,
			Count:       0,
		})
	}
	err = a.root.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&shards).Error
	if err != nil {
		return fmt.Errorf("failed to initialize shards of counter %q: %w", counterName, err)
	}
	return nil
}

var _ sequence.Allocator = (*ShardAllocator)(nil)
