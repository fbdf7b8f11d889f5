// Package reportcache orchestrates attendance report generation behind a
// cache-aside layer.
//
// # Overview
//
// The package ties together three concerns:
//
//   - Key derivation: DeriveKey builds a canonical, ordered-segment cache key
//     from normalized report parameters, so that semantically equivalent
//     filter combinations always address the same entry.
//   - TTL tiering: TTLPolicy maps report shape (individual vs. group) and
//     result cardinality onto expiry tiers.
//   - The Engine: a request runs MISS → COMPUTE → STORE(async) → RETURN, or
//     HIT → RETURN. The store step is a detached goroutine; the response
//     path never waits for it.
//
// # Cache failure semantics
//
// The cache is an accelerator, never a source of truth. A read failure or
// timeout is a miss; a write failure is a logged no-op. Callers receive
// either a well-formed report or a propagated punch-store error - cache
// outages are invisible except as latency.
//
// # Invalidation
//
// Keys are plaintext segments joined with ":" precisely so that mutation
// workflows can target them:
//
//	InvalidateEmployee("E1")            // E1's individual keys + ALL group keys
//	InvalidateOrganization("D1", "", "") // group keys containing div:D1 only
//	InvalidateAll(ScopeGroup)            // every group-report key
//
// Employee-level mutations invalidate all group reports because a group
// aggregate may include the employee and cannot be surgically excluded.
//
// # Concurrency
//
// Concurrent misses for the same key may both compute and both write; the
// last write wins. The engine deliberately does not de-duplicate in-flight
// computations - reports are cheap relative to the complexity of
// single-flight, and the race only costs a redundant aggregation.
package reportcache
