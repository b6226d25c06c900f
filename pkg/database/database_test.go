package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"property-service/pkg/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type note struct {
	ID   uint `gorm:"primarykey"`
	Body string
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := InitDB(&config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, MigrateModels(db, &note{}))
	return db
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	_, err := InitDB(&config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMigrateModels_NilDB(t *testing.T) {
	assert.Error(t, MigrateModels(nil, &note{}))
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, Ping(db))
}

func TestRunInTransaction_Commit(t *testing.T) {
	db := setupTestDB(t)

	err := RunInTransaction(context.Background(), db, config.TxConfig{Timeout: time.Second, MaxAttempts: 1}, func(tx *gorm.DB) error {
		if err := tx.Create(&note{Body: "a"}).Error; err != nil {
			return err
		}
		return tx.Create(&note{Body: "b"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&note{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRunInTransaction_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("boom")

	err := RunInTransaction(context.Background(), db, config.TxConfig{MaxAttempts: 3}, func(tx *gorm.DB) error {
		if err := tx.Create(&note{Body: "a"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&note{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRunInTransaction_RetriesTransientConflicts(t *testing.T) {
	db := setupTestDB(t)

	calls := 0
	err := RunInTransaction(context.Background(), db, config.TxConfig{MaxAttempts: 3}, func(tx *gorm.DB) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
		}
		return tx.Create(&note{Body: "third time"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunInTransaction_GivesUpAfterMaxAttempts(t *testing.T) {
	db := setupTestDB(t)

	calls := 0
	err := RunInTransaction(context.Background(), db, config.TxConfig{MaxAttempts: 2}, func(tx *gorm.DB) error {
		calls++
		return &pgconn.PgError{Code: "40P01"}
	})
	assert.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 2, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain", errors.New("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
