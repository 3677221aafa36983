// Package ratelimit implements fixed-window request counting behind a
// pluggable store so single-process and multi-process deployments share the
// same contract.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store tracks request counts per key over a rolling fixed window. The
// (limit, window) pair is supplied per call so each operation can carry its
// own budget.
type Store interface {
	// Check registers one attempt against key. The attempt is counted even
	// when the decision is a rejection, so rapid retries keep burning the
	// window.
	Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)

	// Reset forgets any state held for key.
	Reset(key string)

	// Sweep evicts records whose window ended before now and reports how many
	// were removed.
	Sweep(now time.Time) int
}

// Key builds the store key for an operation and a client identifier.
func Key(operation, client string) string {
	return fmt.Sprintf("%s:%s", operation, client)
}
