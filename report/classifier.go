package report

import (
	"sort"
	"time"
)

// SessionState is the completeness state of an employee-day session.
type SessionState string

const (
	StateComplete   SessionState = "COMPLETE"
	StateIncomplete SessionState = "INCOMPLETE"
	StateUnknown    SessionState = "UNKNOWN"
)

// IssueType categorizes an incomplete session.
type IssueType string

const (
	IssueNone         IssueType = ""
	IssueCheckInOnly  IssueType = "CHECK_IN_ONLY"
	IssueCheckOutOnly IssueType = "CHECK_OUT_ONLY"
	IssueUnknown      IssueType = "UNKNOWN"
)

// Severity ranks an issue for reporting purposes.
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// severityRank orders severities so callers can pick the most pressing one.
func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the more pressing of two severities.
func MaxSeverity(a, b Severity) Severity {
	if severityRank(b) > severityRank(a) {
		return b
	}
	return a
}

// IssueSeverity maps an issue type onto its reporting severity.
func IssueSeverity(issue IssueType) Severity {
	switch issue {
	case IssueCheckInOnly:
		return SeverityHigh
	case IssueCheckOutOnly:
		return SeverityMedium
	case IssueUnknown:
		return SeverityLow
	default:
		return SeverityNone
	}
}

// Classification is the outcome of classifying one employee-day session.
type Classification struct {
	State    SessionState `json:"state"`
	Issue    IssueType    `json:"issue_type,omitempty"`
	Severity Severity     `json:"severity,omitempty"`
}

// Classify determines the completeness state of a session from its punches.
// The input is expected to already be scoped to one employee and one date.
//
// Only the presence of IN and OUT scans matters; duplicate consecutive
// same-type punches do not change the outcome. Sessions with no punches, or
// with only unknown scan types, classify as UNKNOWN.
func Classify(punches []Punch) Classification {
	var ins, outs int
	for _, p := range punches {
		switch p.Scan() {
		case ScanIn:
			ins++
		case ScanOut:
			outs++
		}
	}

	switch {
	case ins >= 1 && outs >= 1:
		return Classification{State: StateComplete}
	case ins >= 1:
		return Classification{
			State:    StateIncomplete,
			Issue:    IssueCheckInOnly,
			Severity: SeverityHigh,
		}
	case outs >= 1:
		return Classification{
			State:    StateIncomplete,
			Issue:    IssueCheckOutOnly,
			Severity: SeverityMedium,
		}
	default:
		return Classification{
			State:    StateUnknown,
			Issue:    IssueUnknown,
			Severity: SeverityLow,
		}
	}
}

// Session is the derived set of punches for one employee on one date. It is
// computed per query and never persisted.
type Session struct {
	EmployeeID string
	Date       time.Time
	Punches    []Punch
	InCount    int
	OutCount   int
	FirstIn    string
	LastOut    string
}

// BuildSession orders the punches by time-of-day and derives the IN/OUT
// counts plus the first-IN and last-OUT times.
func BuildSession(employeeID string, date time.Time, punches []Punch) Session {
	ordered := make([]Punch, len(punches))
	copy(ordered, punches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EventTime < ordered[j].EventTime
	})

	s := Session{EmployeeID: employeeID, Date: date, Punches: ordered}
	for _, p := range ordered {
		switch p.Scan() {
		case ScanIn:
			s.InCount++
			if s.FirstIn == "" {
				s.FirstIn = p.EventTime
			}
		case ScanOut:
			s.OutCount++
			s.LastOut = p.EventTime
		}
	}
	return s
}

// Classify returns the classification of the session.
func (s Session) Classify() Classification {
	return Classify(s.Punches)
}
