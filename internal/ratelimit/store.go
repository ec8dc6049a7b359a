// Package ratelimit implements fixed-window request limiting keyed by client address.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of counting one request against its window.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per key. Implementations must be safe for concurrent use.
type Store interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
