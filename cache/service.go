package cache

import (
	"context"
	"time"

	"github.com/attendly/go-punch-report/internal/cacheinfra"
)

// Store exposes the cache primitives the report engine needs. The cache is a
// transparent accelerator, never a source of truth: implementations must
// report any failure on the read path as a plain miss and keep the write path
// best-effort.
type Store interface {
	// Get returns the cached value for key, or absent. A backend failure,
	// timeout, or expired entry all surface as absent; Get never errors.
	Get(ctx context.Context, key string) (any, bool)

	// Set stores a full-value overwrite for key with the given TTL.
	// Callers may ignore the error; it exists for logging and metrics.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes a single entry.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every entry whose key starts with prefix and
	// returns the number of entries removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// DeleteMatch removes every entry whose key satisfies the matcher and
	// returns the number of entries removed.
	DeleteMatch(ctx context.Context, match func(key string) bool) (int, error)

	// Len reports the number of live entries.
	Len() int

	// Stats returns a snapshot of the process-local counters.
	Stats() Stats

	// ResetStats zeroes the counters. They otherwise persist for the
	// process lifetime.
	ResetStats()
}

// Stats is a point-in-time snapshot of a store's operation counters.
type Stats = cacheinfra.Stats
