package reportcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/attendly/go-punch-report/cache"
	"github.com/attendly/go-punch-report/punchstore"
	"github.com/attendly/go-punch-report/report"
)

// Report is the JSON-serializable payload returned to callers and stored in
// the cache.
type Report struct {
	Data      []report.Group  `json:"data"`
	Summary   report.Summary  `json:"summary"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Grouping  report.Grouping `json:"grouping"`
}

// InvalidationScope selects which key families InvalidateAll removes.
type InvalidationScope string

const (
	ScopeIndividual InvalidationScope = "individual"
	ScopeGroup      InvalidationScope = "group"
	ScopeAll        InvalidationScope = "all"
)

// Engine wraps the report aggregation pipeline with cache-aside behavior:
// check cache, compute on miss, store the result without blocking the
// response path. The cache store is injected; there is no package-level
// singleton.
type Engine struct {
	punches punchstore.Store
	cache   cache.Store
	ttl     TTLPolicy
	limit   int
	logger  *slog.Logger

	// storeTimeout bounds the detached cache write.
	storeTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTTLPolicy overrides the default TTL tiering.
func WithTTLPolicy(p TTLPolicy) Option {
	return func(e *Engine) { e.ttl = p }
}

// WithPunchRowLimit overrides the PUNCH-strategy row cap.
func WithPunchRowLimit(limit int) Option {
	return func(e *Engine) { e.limit = limit }
}

// WithLogger sets the logger used for degraded cache operations.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine over the given punch store and cache store.
func New(punches punchstore.Store, cacheStore cache.Store, opts ...Option) *Engine {
	e := &Engine{
		punches:      punches,
		cache:        cacheStore,
		ttl:          DefaultTTLPolicy(),
		limit:        report.DefaultPunchRowLimit,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		storeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateReport runs one cache-aside request: HIT returns immediately; MISS
// queries the punch store, aggregates, schedules a detached cache write, and
// returns. Store errors propagate unchanged; cache failures only cost
// latency. Params are assumed validated (report.Params.Validate).
func (e *Engine) GenerateReport(ctx context.Context, p report.Params) (*Report, error) {
	key := DeriveKey(p).String()

	if v, ok := e.cache.Get(ctx, key); ok {
		if rep, ok := v.(*Report); ok {
			return rep, nil
		}
		// A foreign value under our key is useless; recompute.
		e.logger.Warn("cache entry has unexpected type, recomputing", "key", key)
	}

	start, end := p.DayBounds()
	rows, err := e.punches.QueryPunches(ctx, start, end, p.OrgFilter(), p.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("punch store: %w", err)
	}

	groups, summary := report.Aggregate(rows, report.AggregateOptions{
		Grouping:      p.Grouping,
		Start:         p.Start,
		End:           p.End,
		Filter:        p.OrgFilter(),
		PunchRowLimit: e.limit,
	})

	rep := &Report{
		Data:      groups,
		Summary:   summary,
		StartDate: summary.StartDate,
		EndDate:   summary.EndDate,
		Grouping:  p.Grouping,
	}

	ttl := e.ttl.ReportTTL(p.Individual(), memberCount(groups))
	e.storeAsync(key, rep, ttl)

	return rep, nil
}

// storeAsync writes the report to the cache without blocking the response
// path. Errors and panics are confined to logging; concurrent writers for
// the same key race benignly (last write wins).
func (e *Engine) storeAsync(key string, rep *Report, ttl time.Duration) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("cache store panicked", "key", key, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), e.storeTimeout)
		defer cancel()

		if err := e.cache.Set(ctx, key, rep, ttl); err != nil {
			e.logger.Warn("cache store failed", "key", key, "error", err)
		}
	}()
}

func memberCount(groups []report.Group) int {
	var n int
	for _, g := range groups {
		n += len(g.Members)
	}
	return n
}

// InvalidateEmployee removes the employee's individual report keys and every
// group-report key. Group aggregates may include the employee and cannot be
// surgically excluded, so group invalidation is coarse-grained on purpose.
func (e *Engine) InvalidateEmployee(ctx context.Context, employeeID string) (int, error) {
	if strings.TrimSpace(employeeID) == "" {
		return 0, fmt.Errorf("employee id is required")
	}

	individual, err := e.cache.DeleteByPrefix(ctx, IndividualPrefix(employeeID))
	if err != nil {
		return individual, fmt.Errorf("invalidate employee %s: %w", employeeID, err)
	}
	groups, err := e.cache.DeleteByPrefix(ctx, GroupPrefix())
	if err != nil {
		return individual + groups, fmt.Errorf("invalidate group reports: %w", err)
	}
	return individual + groups, nil
}

// InvalidateOrganization removes exactly the group-report keys whose
// segments include the given organizational scope. Individual-employee keys
// and other scopes' keys are untouched.
func (e *Engine) InvalidateOrganization(ctx context.Context, division, section, subsection string) (int, error) {
	if division == "" && section == "" && subsection == "" {
		return 0, fmt.Errorf("at least one org scope is required")
	}

	prefix := GroupPrefix()
	n, err := e.cache.DeleteMatch(ctx, func(key string) bool {
		return strings.HasPrefix(key, prefix) && MatchesOrg(key, division, section, subsection)
	})
	if err != nil {
		return n, fmt.Errorf("invalidate organization: %w", err)
	}
	return n, nil
}

// InvalidateAll removes the whole key family named by scope.
func (e *Engine) InvalidateAll(ctx context.Context, scope InvalidationScope) (int, error) {
	var prefix string
	switch scope {
	case ScopeIndividual:
		prefix = IndividualPrefix("")
	case ScopeGroup:
		prefix = GroupPrefix()
	case ScopeAll:
		prefix = Namespace
	default:
		return 0, fmt.Errorf("unknown invalidation scope %q", scope)
	}

	n, err := e.cache.DeleteByPrefix(ctx, prefix)
	if err != nil {
		return n, fmt.Errorf("invalidate %s: %w", scope, err)
	}
	return n, nil
}

// CacheStats returns the underlying store's counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}
