// Package cache defines the store surface the report engine caches through.
//
// Store is a deliberately small get/set/delete-pattern interface: every
// write is a full-value overwrite, reads degrade to misses on any failure,
// and pattern deletion enables the hierarchical invalidation the report keys
// are designed for. The default implementation (NewStore) is an in-memory
// sharded cache with per-entry TTLs and atomic hit/miss/latency counters;
// tests substitute in-memory fakes or always-failing stores.
//
// The store is injected into consumers as a value. There is no package-level
// singleton and no hidden connection state.
package cache
