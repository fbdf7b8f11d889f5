// Package testsupport provides fixture helpers shared by the package tests:
// JSON fixture loading and builders for realistic punch rows.
package testsupport

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attendly/go-punch-report/report"
)

// LoadFixture loads raw test data from a fixture file. The path is relative
// to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it
// into dest.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// PunchOption mutates a generated punch row.
type PunchOption func(*report.Punch)

// InDivision sets the punch's division name.
func InDivision(name string) PunchOption {
	return func(p *report.Punch) { p.Division = name }
}

// InSection sets the punch's section name.
func InSection(name string) PunchOption {
	return func(p *report.Punch) { p.Section = name }
}

// InSubsection sets the punch's subsection identifier.
func InSubsection(id string) PunchOption {
	return func(p *report.Punch) { p.Subsection = id }
}

// WithDesignation sets the punch's designation.
func WithDesignation(d string) PunchOption {
	return func(p *report.Punch) { p.Designation = d }
}

// WithName sets the punch's employee name.
func WithName(name string) PunchOption {
	return func(p *report.Punch) { p.EmployeeName = name }
}

// NewPunch builds a punch row with realistic defaults. date uses the ISO
// layout; scan is the raw device label, deliberately not normalized.
func NewPunch(t *testing.T, employeeID, date, timeOfDay, scan string, opts ...PunchOption) report.Punch {
	t.Helper()

	day, err := time.Parse(report.DateFormat, date)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", date, err)
	}

	p := report.Punch{
		ID:           uuid.NewString(),
		EmployeeID:   employeeID,
		EmployeeName: "Employee " + employeeID,
		Designation:  "Clerk",
		Division:     "D1",
		Section:      "S1",
		EventDate:    day,
		EventTime:    timeOfDay,
		RawScanType:  scan,
		DeviceID:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// PunchPair builds a complete IN/OUT session for one employee-day.
func PunchPair(t *testing.T, employeeID, date string, opts ...PunchOption) []report.Punch {
	t.Helper()
	return []report.Punch{
		NewPunch(t, employeeID, date, "08:00", "IN", opts...),
		NewPunch(t, employeeID, date, "17:00", "OUT", opts...),
	}
}
