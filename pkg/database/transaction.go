package database

import (
	"context"
	"errors"
	"fmt"

	"property-service/pkg/config"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgreSQL error codes that are safe to retry as a whole transaction
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// RunInTransaction executes fn inside a single database transaction bounded by
// cfg.Timeout. The transaction is retried up to cfg.MaxAttempts times when it
// fails with a transient conflict. fn must only use the tx it is given.
func RunInTransaction(ctx context.Context, db *gorm.DB, cfg config.TxConfig, fn func(tx *gorm.DB) error) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return fmt.Errorf("transaction aborted after %d attempts: %w", attempt, ctx.Err())
		}

		prometheus.RecordTransactionRetry()
		log.Warn("Retrying transaction after transient conflict",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))
	}

	return fmt.Errorf("transaction failed after %d attempts: %w", attempts, err)
}

// IsRetryable reports whether err is a transient transaction conflict
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}
