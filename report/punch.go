package report

import (
	"strings"
	"time"
)

// ScanType is the normalized direction of a punch event. Raw device labels
// are free text; the enum is always produced by NormalizeScanType and never
// stored upstream.
type ScanType string

const (
	ScanIn      ScanType = "IN"
	ScanOut     ScanType = "OUT"
	ScanUnknown ScanType = "UNKNOWN"
)

// Synonym sets for raw scan-type labels, matched case-insensitively.
var (
	inLabels  = map[string]struct{}{"IN": {}, "I": {}, "ON": {}}
	outLabels = map[string]struct{}{"OUT": {}, "O": {}, "OFF": {}}
)

// NormalizeScanType maps a raw device label onto the closed ScanType set.
// Anything outside both synonym sets is ScanUnknown.
func NormalizeScanType(raw string) ScanType {
	label := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := inLabels[label]; ok {
		return ScanIn
	}
	if _, ok := outLabels[label]; ok {
		return ScanOut
	}
	return ScanUnknown
}

// Punch is one recorded scan event for an employee. Punches are immutable
// once recorded; this engine only reads them.
type Punch struct {
	ID           string    `json:"id,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Designation  string    `json:"designation"`
	Division     string    `json:"division_name"`
	Section      string    `json:"section_name"`
	Subsection   string    `json:"sub_section_id"`
	EventDate    time.Time `json:"event_date"`
	EventTime    string    `json:"event_time"`
	RawScanType  string    `json:"scan_type"`
	DeviceID     string    `json:"device_id,omitempty"`
}

// Scan returns the normalized direction of the punch.
func (p Punch) Scan() ScanType {
	return NormalizeScanType(p.RawScanType)
}

// Day returns the punch's calendar date formatted as an ISO date.
func (p Punch) Day() string {
	return p.EventDate.Format("2006-01-02")
}
