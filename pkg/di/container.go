package di

import (
	"log/slog"

	"github.com/attendly/go-punch-report/cache"
	"github.com/attendly/go-punch-report/punchstore"
	"github.com/attendly/go-punch-report/reportcache"
)

// Container wires the report engine's dependencies. It manages the shared
// cache store and TTL policy and provides factories for engines and cached
// hierarchy lookups, so HTTP handlers only ever see constructed values.
type Container struct {
	cacheStore cache.Store
	ttl        reportcache.TTLPolicy
	logger     *slog.Logger
	config     cache.Config
}

// NewContainer creates a container around a cache store built from the given
// configuration. The store's TTL ceiling is raised to the policy's largest
// tier if the configuration is lower.
func NewContainer(cfg cache.Config, ttl reportcache.TTLPolicy, logger *slog.Logger) (*Container, error) {
	if cfg.MaxTTL < ttl.MaxTTL() {
		cfg.MaxTTL = ttl.MaxTTL()
	}

	store, err := cache.NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Container{
		cacheStore: store,
		ttl:        ttl,
		logger:     logger,
		config:     cfg,
	}, nil
}

// NewContainerWithDefaults creates a container using default configuration
// and the production TTL tiering.
func NewContainerWithDefaults(logger *slog.Logger) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), reportcache.DefaultTTLPolicy(), logger)
}

// CacheStore returns the shared cache store instance.
func (c *Container) CacheStore() cache.Store {
	return c.cacheStore
}

// TTLPolicy returns the TTL tiering used by engines built from this
// container.
func (c *Container) TTLPolicy() reportcache.TTLPolicy {
	return c.ttl
}

// Config returns a copy of the cache configuration in effect.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewEngine builds a report engine over the given punch store, sharing the
// container's cache store and TTL policy.
func (c *Container) NewEngine(punches punchstore.Store, opts ...reportcache.Option) *reportcache.Engine {
	base := []reportcache.Option{
		reportcache.WithTTLPolicy(c.ttl),
		reportcache.WithLogger(c.logger),
	}
	return reportcache.New(punches, c.cacheStore, append(base, opts...)...)
}

// NewLookup builds a cached hierarchy lookup sharing the container's cache
// store. Go methods cannot have type parameters, so this is a package-level
// function: NewLookup[Division](container, "divisions", repo).
func NewLookup[T any](c *Container, kind string, base reportcache.Lister[T]) *reportcache.Lookup[T] {
	return reportcache.NewLookup(kind, base, c.cacheStore, c.ttl.HierarchyTTL())
}
