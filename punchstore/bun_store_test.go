package punchstore

import (
	"context"
	"testing"
	"time"

	"github.com/attendly/go-punch-report/report"
)

func newTestStore(t *testing.T) *BunStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.DB().Close() })

	if _, err := store.DB().NewCreateTable().Model((*punchRow)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return store
}

func insertRows(t *testing.T, store *BunStore, rows []punchRow) {
	t.Helper()
	if _, err := store.DB().NewInsert().Model(&rows).Exec(context.Background()); err != nil {
		t.Fatalf("insert rows: %v", err)
	}
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse day %q: %v", value, err)
	}
	return d
}

func seedStore(t *testing.T) *BunStore {
	t.Helper()
	store := newTestStore(t)
	insertRows(t, store, []punchRow{
		{ID: "1", EmployeeID: "E1", EmployeeName: "Amara", Designation: "Clerk", Division: "D1", Section: "S1", Subsection: "X1", EventDate: day(t, "2026-01-10"), EventTime: "08:01:00", ScanType: "IN", DeviceID: "dev-1"},
		{ID: "2", EmployeeID: "E1", EmployeeName: "Amara", Designation: "Clerk", Division: "D1", Section: "S1", Subsection: "X1", EventDate: day(t, "2026-01-10"), EventTime: "17:02:00", ScanType: "OUT", DeviceID: "dev-1"},
		{ID: "3", EmployeeID: "E2", EmployeeName: "Bashir", Designation: "Officer", Division: "D1", Section: "S2", Subsection: "", EventDate: day(t, "2026-01-11"), EventTime: "08:30:00", ScanType: "I", DeviceID: "dev-2"},
		{ID: "4", EmployeeID: "E3", EmployeeName: "Chen", Designation: "Officer", Division: "D2", Section: "S3", Subsection: "", EventDate: day(t, "2026-01-12"), EventTime: "09:00:00", ScanType: "ON", DeviceID: "dev-3"},
		{ID: "5", EmployeeID: "E3", EmployeeName: "Chen", Designation: "Officer", Division: "D2", Section: "S3", Subsection: "", EventDate: day(t, "2026-02-01"), EventTime: "09:00:00", ScanType: "IN", DeviceID: "dev-3"},
	})
	return store
}

func employeeIDs(punches []report.Punch) map[string]int {
	counts := make(map[string]int)
	for _, p := range punches {
		counts[p.EmployeeID]++
	}
	return counts
}

func TestQueryPunchesDateWindow(t *testing.T) {
	store := seedStore(t)

	punches, err := store.QueryPunches(context.Background(), day(t, "2026-01-01"), day(t, "2026-01-31"), report.OrgFilter{}, "")
	if err != nil {
		t.Fatalf("QueryPunches: %v", err)
	}
	if len(punches) != 4 {
		t.Fatalf("got %d punches, want 4 (February row excluded)", len(punches))
	}

	counts := employeeIDs(punches)
	if counts["E1"] != 2 || counts["E2"] != 1 || counts["E3"] != 1 {
		t.Errorf("unexpected employee distribution: %v", counts)
	}
}

func TestQueryPunchesDateWindowInclusive(t *testing.T) {
	store := seedStore(t)

	punches, err := store.QueryPunches(context.Background(), day(t, "2026-01-10"), day(t, "2026-01-10"), report.OrgFilter{}, "")
	if err != nil {
		t.Fatalf("QueryPunches: %v", err)
	}
	if len(punches) != 2 {
		t.Errorf("got %d punches, want both boundary-day rows", len(punches))
	}
}

func TestQueryPunchesOrgFilters(t *testing.T) {
	store := seedStore(t)
	window := func(filter report.OrgFilter, employeeID string) []report.Punch {
		t.Helper()
		punches, err := store.QueryPunches(context.Background(), day(t, "2026-01-01"), day(t, "2026-12-31"), filter, employeeID)
		if err != nil {
			t.Fatalf("QueryPunches: %v", err)
		}
		return punches
	}

	if got := window(report.OrgFilter{Division: "D1"}, ""); len(got) != 3 {
		t.Errorf("division filter returned %d punches, want 3", len(got))
	}
	if got := window(report.OrgFilter{Division: "D1", Section: "S2"}, ""); len(got) != 1 {
		t.Errorf("division+section filter returned %d punches, want 1", len(got))
	}
	if got := window(report.OrgFilter{Subsection: "X1"}, ""); len(got) != 2 {
		t.Errorf("subsection filter returned %d punches, want 2", len(got))
	}
	if got := window(report.OrgFilter{Division: "D9"}, ""); len(got) != 0 {
		t.Errorf("unknown division returned %d punches, want 0", len(got))
	}
	if got := window(report.OrgFilter{}, "E3"); len(got) != 2 {
		t.Errorf("employee filter returned %d punches, want 2", len(got))
	}
}

func TestQueryPunchesMapsColumns(t *testing.T) {
	store := seedStore(t)

	punches, err := store.QueryPunches(context.Background(), day(t, "2026-01-10"), day(t, "2026-01-10"), report.OrgFilter{}, "E1")
	if err != nil {
		t.Fatalf("QueryPunches: %v", err)
	}
	if len(punches) != 2 {
		t.Fatalf("got %d punches, want 2", len(punches))
	}

	for _, p := range punches {
		if p.EmployeeName != "Amara" || p.Designation != "Clerk" {
			t.Errorf("identity columns not mapped: %+v", p)
		}
		if p.Division != "D1" || p.Section != "S1" || p.Subsection != "X1" {
			t.Errorf("org columns not mapped: %+v", p)
		}
		if p.Day() != "2026-01-10" {
			t.Errorf("Day() = %q, want 2026-01-10", p.Day())
		}
		if p.Scan() == report.ScanUnknown {
			t.Errorf("scan type %q not normalized", p.RawScanType)
		}
	}
}
