// Package report holds the pure computation core of the attendance engine:
// scan-type normalization, employee-day session classification, and the
// three report grouping strategies. Everything here is synchronous
// computation over already-fetched rows; fetching and caching live in
// punchstore and reportcache.
package report
