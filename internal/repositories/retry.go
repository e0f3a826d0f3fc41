package repositories

import (
	"context"
	"errors"
	"time"

	"ledger-backend/internal/apperr"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const readAttempts = 3

// readWithRetry retries an idempotent read on transient failures such as a
// dropped connection. Writes never go through here: a retried insert could
// post the same document twice.
func readWithRetry[T any](ctx context.Context, op string, read func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	v, err := backoff.Retry(ctx, func() (T, error) {
		v, err := read()
		if err != nil && !isTransient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(readAttempts))
	if err != nil {
		return v, apperr.Persistence(op, err)
	}
	return v, nil
}

// isTransient reports whether err came from the connection rather than the
// server or the caller.
func isTransient(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if apperr.IsNotFound(err) || apperr.IsValidation(err) || apperr.IsConflict(err) {
		return false
	}
	var pgErr *pgconn.PgError
	return !errors.As(err, &pgErr)
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
