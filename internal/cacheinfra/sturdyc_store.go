package cacheinfra

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
	"github.com/vmihailenco/msgpack/v5"
)

// Config holds the configuration for the sturdyc-backed store.
type Config struct {
	// Capacity defines the maximum number of entries the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent
	// access. Must be greater than 0.
	NumShards int

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired
	// entries. Zero value uses the backend default.
	EvictionInterval time.Duration

	// MaxTTL is the client-wide ceiling on entry lifetime. Individual
	// entries carry their own deadline inside this bound; the report TTL
	// tiers all sit at or below it.
	MaxTTL time.Duration

	// OpTimeout bounds every Get/Set call.
	OpTimeout time.Duration
}

// DefaultConfig returns a Config with defaults sized for report caching: the
// ceiling matches the largest group-report TTL tier.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		EvictionPercentage: 10,
		EvictionInterval:   0,
		MaxTTL:             20 * time.Minute,
		OpTimeout:          250 * time.Millisecond,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.MaxTTL <= 0 {
		return &ConfigError{Field: "MaxTTL", Message: "must be greater than 0"}
	}
	if c.OpTimeout <= 0 {
		return &ConfigError{Field: "OpTimeout", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Stats is a point-in-time snapshot of a store's operation counters. The
// counters are process-local and reset only on explicit request.
type Stats struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Deletes int64

	// Cumulative time spent in Get and Set calls.
	GetLatency time.Duration
	SetLatency time.Duration
}

// HitRatio returns hits/(hits+misses), or zero before any reads.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Size buckets recorded on each entry, derived from the msgpack-encoded
// payload length.
const (
	SizeSmall   = "small"  // < 16 KiB
	SizeMedium  = "medium" // < 256 KiB
	SizeLarge   = "large"
	SizeUnknown = "unknown"
)

const (
	smallLimit  = 16 << 10
	mediumLimit = 256 << 10
)

// entry wraps a cached value with its metadata. The per-entry deadline makes
// tiered TTLs possible on top of a single client-wide TTL: an entry past its
// own deadline reads as a miss even if sturdyc still holds it.
type entry struct {
	Value      any
	StoredAt   time.Time
	ExpiresAt  time.Time
	SizeBucket string
}

// SturdycStore adapts a sturdyc client to the cache.Store surface, adding
// per-entry TTLs, bounded operation timeouts, and atomic statistics.
type SturdycStore struct {
	client  *sturdyc.Client[entry]
	timeout time.Duration
	maxTTL  time.Duration
	logger  *slog.Logger

	hits     *xsync.Counter
	misses   *xsync.Counter
	sets     *xsync.Counter
	deletes  *xsync.Counter
	getNanos *xsync.Counter
	setNanos *xsync.Counter
}

// NewSturdycStore creates a new sturdyc-backed store. It validates the
// configuration and initializes a sturdyc client with the provided settings.
func NewSturdycStore(cfg Config, logger *slog.Logger) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.MaxTTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &SturdycStore{
		client:   client,
		timeout:  cfg.OpTimeout,
		maxTTL:   cfg.MaxTTL,
		logger:   logger,
		hits:     xsync.NewCounter(),
		misses:   xsync.NewCounter(),
		sets:     xsync.NewCounter(),
		deletes:  xsync.NewCounter(),
		getNanos: xsync.NewCounter(),
		setNanos: xsync.NewCounter(),
	}, nil
}

// Get implements cache.Store.Get. Expired or missing entries, cancellation,
// and timeouts all read as a plain miss; Get never reports an error.
func (s *SturdycStore) Get(ctx context.Context, key string) (any, bool) {
	start := time.Now()
	defer func() { s.getNanos.Add(time.Since(start).Nanoseconds()) }()

	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.checkDeadline(ctx); err != nil {
		s.logger.Warn("cache get degraded to miss", "key", key, "error", err)
		s.misses.Inc()
		return nil, false
	}

	e, ok := s.client.Get(key)
	if !ok {
		s.misses.Inc()
		return nil, false
	}
	if !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt) {
		// Lazy expiry: sturdyc's client-wide TTL is the ceiling, the
		// entry's own deadline is authoritative.
		s.client.Delete(key)
		s.misses.Inc()
		return nil, false
	}

	s.hits.Inc()
	return e.Value, true
}

// Set implements cache.Store.Set. The requested TTL is clamped to the
// client-wide ceiling.
func (s *SturdycStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	start := time.Now()
	defer func() { s.setNanos.Add(time.Since(start).Nanoseconds()) }()

	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.checkDeadline(ctx); err != nil {
		s.logger.Warn("cache set skipped", "key", key, "error", err)
		return err
	}
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}

	now := time.Now()
	s.client.Set(key, entry{
		Value:      value,
		StoredAt:   now,
		ExpiresAt:  now.Add(ttl),
		SizeBucket: sizeBucket(value),
	})
	s.sets.Inc()
	return nil
}

// Delete implements cache.Store.Delete.
func (s *SturdycStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	s.deletes.Inc()
	return nil
}

// DeleteByPrefix removes all entries whose keys start with the given prefix
// and reports how many were removed.
func (s *SturdycStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	return s.DeleteMatch(ctx, func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// DeleteMatch removes all entries whose keys satisfy the matcher and reports
// how many were removed.
func (s *SturdycStore) DeleteMatch(ctx context.Context, match func(key string) bool) (int, error) {
	if match == nil {
		return 0, nil
	}

	var removed int
	for _, key := range s.client.ScanKeys() {
		if match(key) {
			s.client.Delete(key)
			removed++
		}
	}
	s.deletes.Add(int64(removed))
	return removed, nil
}

// Len reports the number of live entries.
func (s *SturdycStore) Len() int {
	return s.client.Size()
}

// Stats returns a snapshot of the operation counters.
func (s *SturdycStore) Stats() Stats {
	return Stats{
		Hits:       s.hits.Value(),
		Misses:     s.misses.Value(),
		Sets:       s.sets.Value(),
		Deletes:    s.deletes.Value(),
		GetLatency: time.Duration(s.getNanos.Value()),
		SetLatency: time.Duration(s.setNanos.Value()),
	}
}

// ResetStats zeroes the operation counters.
func (s *SturdycStore) ResetStats() {
	s.hits.Reset()
	s.misses.Reset()
	s.sets.Reset()
	s.deletes.Reset()
	s.getNanos.Reset()
	s.setNanos.Reset()
}

// bound applies the per-operation timeout to the caller's context.
func (s *SturdycStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

// checkDeadline enforces the per-operation timeout bound. Cache operations
// are in-memory, so the bound only trips when the caller's context is
// already done or leaves no budget at all.
func (s *SturdycStore) checkDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return context.DeadlineExceeded
	}
	return nil
}

// sizeBucket classifies the payload by its encoded length. Encoding failures
// classify as unknown; the entry is still stored.
func sizeBucket(value any) string {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return SizeUnknown
	}
	switch {
	case len(data) < smallLimit:
		return SizeSmall
	case len(data) < mediumLimit:
		return SizeMedium
	default:
		return SizeLarge
	}
}
