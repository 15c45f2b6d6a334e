package cache

import (
	"go.uber.org/zap"

	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/bizcentral/backend/internal/infrastructure/config"
)

// NewIdempotencyStore picks the idempotency store for the deployment:
// Redis when configured (shared state across instances), otherwise the
// in-memory store. Falls back to in-memory when Redis is unreachable so a
// cache outage degrades to transactional-only dedup instead of downtime.
func NewIdempotencyStore(cfg *config.RedisConfig, log *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		log.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore()
	}

	log.Info("using redis idempotency store", zap.String("addr", cfg.Addr()))
	return store
}
