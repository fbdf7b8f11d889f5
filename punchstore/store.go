// Package punchstore provides read access to the raw time-clock punch table.
// The engine treats it as an external collaborator boundary: a queryable
// table with no ordering guarantees and no retry semantics. Query failures
// propagate unchanged; a failed read has no safe default.
package punchstore

import (
	"context"
	"time"

	"github.com/attendly/go-punch-report/report"
)

// Store executes parameterized range/filter queries against the attendance
// records table.
type Store interface {
	// QueryPunches returns the raw punch rows between start and end
	// (inclusive instants), constrained by the org filter and, when
	// employeeID is non-empty, to that employee. Row order is unspecified.
	QueryPunches(ctx context.Context, start, end time.Time, filter report.OrgFilter, employeeID string) ([]report.Punch, error)
}
