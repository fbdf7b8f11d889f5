package reportcache

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"

	"github.com/attendly/go-punch-report/cache"
)

// Lister is the read slice of a go-repository-bun repository that hierarchy
// lookups need. repository.Repository[T] satisfies it.
type Lister[T any] interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
}

// listResult wraps the tuple result from List operations for caching.
type listResult[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
}

// Lookup caches full-list reads of a hierarchy entity (divisions, sections,
// subsections) at the flat hierarchy TTL tier. These lists back the report
// filter pickers: low cardinality, rarely changing, queried on every screen.
type Lookup[T any] struct {
	kind string
	base Lister[T]
	c    cache.Store
	ttl  time.Duration
}

// NewLookup decorates the base repository's List for the given entity kind
// ("divisions", "sections", "subsections").
func NewLookup[T any](kind string, base Lister[T], cacheStore cache.Store, ttl time.Duration) *Lookup[T] {
	return &Lookup[T]{kind: kind, base: base, c: cacheStore, ttl: ttl}
}

// List returns the cached full list, fetching through on a miss. Calls with
// criteria bypass the cache: criteria are function values with no stable
// identity, so they cannot participate in a deterministic key.
func (l *Lookup[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	if len(criteria) > 0 {
		return l.base.List(ctx, criteria...)
	}

	key := HierarchyPrefix(l.kind)
	if v, ok := l.c.Get(ctx, key); ok {
		if res, ok := v.(listResult[T]); ok {
			return res.Records, res.Total, nil
		}
	}

	records, total, err := l.base.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	// Best effort; a failed write only costs the next caller a fetch.
	_ = l.c.Set(ctx, key, listResult[T]{Records: records, Total: total}, l.ttl)

	return records, total, nil
}

// Invalidate drops the cached list, forcing the next List to fetch fresh
// data. Org-mutation workflows call this alongside Engine invalidation.
func (l *Lookup[T]) Invalidate(ctx context.Context) (int, error) {
	return l.c.DeleteByPrefix(ctx, HierarchyPrefix(l.kind))
}
