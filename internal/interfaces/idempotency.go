package interfaces

import "context"

// IdempotencyStore remembers which entry an Idempotency-Key produced.
type IdempotencyStore interface {
	// Claim reserves key. When the key is already known it returns the
	// stored entry id (empty while the first request is still running).
	Claim(ctx context.Context, key string) (existingID string, claimed bool, err error)
	Complete(ctx context.Context, key, entryID string) error
	Release(ctx context.Context, key string) error
}
