package sequence

import (
	"context"
	"time"
)

// DefaultShardCount is the default shard fan-out per counter name.
// More shards means less write contention per allocation at the cost of
// reading more rows to compute the logical total.
const DefaultShardCount = 5

// Counter names for the document sequences this core owns
const (
	CounterSalesOrders   = "sales_orders"
	CounterSalesInvoices = "sales_invoices"
	CounterVouchers      = "vouchers"
)

// CounterShard is one of several independent rows whose sum is a logical
// counter's value. Shards are created lazily on first use of a counter name,
// initialized to zero, incremented forever after, never decremented and
// never deleted in normal operation.
type CounterShard struct {
	CounterName string    `gorm:"type:varchar(64);primaryKey"`
	ShardIndex  int       `gorm:"primaryKey"`
	Count       int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (CounterShard) TableName() string {
	return "counter_shards"
}

// Allocator hands out the next integer of a named sequence. Implementations
// increment one randomly chosen shard inside the caller's active transaction
// and return the sum of all shard counts, so each committed transaction
// observes a distinct value.
//
// Values are unique, not chronological: two concurrent allocations may
// commit in either order relative to real time. That trade-off buys
// write-scalability and is a documented property, not a bug.
//
// Uniqueness requires SERIALIZABLE transactions. At READ COMMITTED two
// writers incrementing different shards each read a total that includes
// only their own increment and allocate the same value; under SERIALIZABLE
// one of them fails with a serialization error and is retried by the
// transaction scope.
type Allocator interface {
	// Allocate returns the next value of the named counter. Must be called
	// inside an active transaction; the increment commits or rolls back
	// with the caller's other writes.
	Allocate(ctx context.Context, counterName string) (int64, error)
}
