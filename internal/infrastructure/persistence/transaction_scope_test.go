package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGormTransactionScope_IsolationByDialect(t *testing.T) {
	t.Run("postgres transactions request serializable", func(t *testing.T) {
		db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test"), &gorm.Config{
			DisableAutomaticPing: true,
		})
		require.NoError(t, err)

		scope := NewGormTransactionScope(db, 5, 3)
		assert.Equal(t, sql.LevelSerializable, scope.txOpts.Isolation)
	})

	t.Run("sqlite transactions keep the default level", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		require.NoError(t, err)

		scope := NewGormTransactionScope(db, 5, 3)
		assert.Equal(t, sql.LevelDefault, scope.txOpts.Isolation)
	})
}

func TestIsRetryableTxError(t *testing.T) {
	assert.True(t, isRetryableTxError(&pq.Error{Code: "40001"}), "serialization failure retries")
	assert.True(t, isRetryableTxError(&pq.Error{Code: "40P01"}), "deadlock retries")
	assert.True(t, isRetryableTxError(fmt.Errorf("commit: %w", &pq.Error{Code: "40001"})), "wrapped errors unwrap")
	assert.False(t, isRetryableTxError(&pq.Error{Code: "23505"}), "unique violations do not retry")
	assert.False(t, isRetryableTxError(errors.New("connection refused")))
	assert.False(t, isRetryableTxError(nil))
}
