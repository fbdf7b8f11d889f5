package cache

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/attendly/go-punch-report/internal/cacheinfra"
)

// Config exposes the cache store options for consumers of the cache package.
type Config struct {
	// Capacity is the maximum number of entries the store holds.
	Capacity int

	// NumShards controls concurrency; higher values reduce contention.
	NumShards int

	// EvictionPercentage is the share of entries evicted when the store
	// reaches capacity (1-100).
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept. Zero uses
	// the backend default.
	EvictionInterval time.Duration

	// MaxTTL bounds every entry's lifetime regardless of the TTL requested
	// on Set. Entries also carry their own deadline, checked on read.
	MaxTTL time.Duration

	// OpTimeout bounds each Get/Set call. On timeout a read degrades to a
	// miss and a write becomes a no-op.
	OpTimeout time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return fromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.OpTimeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// NewStore constructs the default in-memory store implementation. A nil
// logger disables the store's own logging.
func NewStore(cfg Config, logger *slog.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cacheinfra.NewSturdycStore(cfg.toInternal(), logger)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		MaxTTL:             c.MaxTTL,
		OpTimeout:          c.OpTimeout,
	}
}

func fromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		MaxTTL:             cfg.MaxTTL,
		OpTimeout:          cfg.OpTimeout,
	}
}
