package report

import (
	"fmt"
	"sort"
	"time"
)

// UnknownDesignation is the bucket key used when a row carries no
// designation.
const UnknownDesignation = "Unknown"

// Catch-all group names used by the PUNCH and NONE strategies.
const (
	AllRecordsGroup   = "All Records"
	AllEmployeesGroup = "All Employees"
)

// DefaultPunchRowLimit caps the PUNCH strategy's member count. The value is
// carried over from the production deployment; treat it as configuration,
// not a tuned constant.
const DefaultPunchRowLimit = 50000

// Member is one employee-level (or punch-level) row inside a report group.
// PUNCH members carry the punch's own date/time/scan fields; DESIGNATION and
// NONE members carry an issue count instead.
type Member struct {
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Designation  string    `json:"designation"`
	Division     string    `json:"division_name"`
	Section      string    `json:"section_name"`
	Subsection   string    `json:"sub_section_id,omitempty"`
	Date         string    `json:"date,omitempty"`
	Time         string    `json:"time,omitempty"`
	ScanType     ScanType  `json:"scan_type,omitempty"`
	IssueCount   int       `json:"issue_count,omitempty"`
	Issue        IssueType `json:"issue_type,omitempty"`
	Severity     Severity  `json:"severity,omitempty"`
}

// Group is one bucket produced by an aggregation strategy. Groups are
// mutually exclusive within a single report invocation.
type Group struct {
	Name     string   `json:"name"`
	Members  []Member `json:"members"`
	Count    int      `json:"count"`
	Severity Severity `json:"severity,omitempty"`
}

// Summary aggregates over all groups of one report. It is computed once per
// invocation and immutable afterwards.
type Summary struct {
	TotalEmployees int    `json:"total_employees"`
	TotalGroups    int    `json:"total_groups"`
	TotalRecords   int    `json:"total_records"`
	Filters        string `json:"filters"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
}

// AggregateOptions select the strategy and scope for one aggregation.
type AggregateOptions struct {
	Grouping Grouping
	Start    time.Time
	End      time.Time
	Filter   OrgFilter
	// PunchRowLimit caps the PUNCH strategy's output; zero selects
	// DefaultPunchRowLimit. Truncation is silent.
	PunchRowLimit int
}

// Aggregate groups the punch rows under the selected strategy and computes
// the report summary. The org filter is applied as an equality predicate
// before grouping; the date range is an inclusive day-to-day bound. Rows that
// match no known entity simply produce an empty result.
func Aggregate(rows []Punch, opts AggregateOptions) ([]Group, Summary) {
	filtered := filterRows(rows, opts)
	classes := classifySessions(filtered)

	summary := Summary{
		Filters:   describeFilters(opts),
		StartDate: formatDay(opts.Start),
		EndDate:   formatDay(opts.End),
	}

	// No matching rows (including an org filter that names no known
	// entity) is an empty result, not an error.
	if len(filtered) == 0 {
		return nil, summary
	}

	var groups []Group
	switch opts.Grouping {
	case GroupingPunch:
		groups = aggregatePunch(filtered, classes, punchLimit(opts))
		summary.TotalEmployees = distinctEmployees(filtered)
		summary.TotalRecords = len(filtered)
		summary.TotalGroups = len(groups)
	case GroupingDesignation:
		groups = aggregateDesignation(filtered, classes)
		summary.TotalEmployees = distinctEmployees(filtered)
		summary.TotalRecords = len(filtered)
		summary.TotalGroups = len(groups)
	default:
		groups = aggregateEmployeeSummary(filtered, classes)
		summary.TotalGroups = len(groups)
		for _, g := range groups {
			summary.TotalEmployees += len(g.Members)
			for _, m := range g.Members {
				summary.TotalRecords += m.IssueCount
			}
		}
	}

	return groups, summary
}

func punchLimit(opts AggregateOptions) int {
	if opts.PunchRowLimit > 0 {
		return opts.PunchRowLimit
	}
	return DefaultPunchRowLimit
}

func filterRows(rows []Punch, opts AggregateOptions) []Punch {
	start, end := dayBounds(opts.Start, opts.End)
	out := make([]Punch, 0, len(rows))
	for _, p := range rows {
		if !opts.Filter.Matches(p) {
			continue
		}
		if !start.IsZero() && p.EventDate.Before(start) {
			continue
		}
		if !end.IsZero() && p.EventDate.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func dayBounds(start, end time.Time) (time.Time, time.Time) {
	var lo, hi time.Time
	if !start.IsZero() {
		lo = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	}
	if !end.IsZero() {
		hi = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())
	}
	return lo, hi
}

// classifySessions classifies every employee-day session present in the rows.
func classifySessions(rows []Punch) map[string]Classification {
	sessions := make(map[string][]Punch)
	for _, p := range rows {
		k := sessionKey(p.EmployeeID, p.Day())
		sessions[k] = append(sessions[k], p)
	}

	classes := make(map[string]Classification, len(sessions))
	for k, punches := range sessions {
		classes[k] = Classify(punches)
	}
	return classes
}

func sessionKey(employeeID, day string) string {
	return employeeID + "\x00" + day
}

func distinctEmployees(rows []Punch) int {
	seen := make(map[string]struct{}, len(rows))
	for _, p := range rows {
		seen[p.EmployeeID] = struct{}{}
	}
	return len(seen)
}

// aggregatePunch emits one member per punch row inside a single catch-all
// group, ordered by employee name then event time. Output beyond the limit
// is dropped silently.
func aggregatePunch(rows []Punch, classes map[string]Classification, limit int) []Group {
	ordered := make([]Punch, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].EmployeeName != ordered[j].EmployeeName {
			return ordered[i].EmployeeName < ordered[j].EmployeeName
		}
		return ordered[i].EventTime < ordered[j].EventTime
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	group := Group{Name: AllRecordsGroup, Members: make([]Member, 0, len(ordered))}
	for _, p := range ordered {
		cls := classes[sessionKey(p.EmployeeID, p.Day())]
		group.Members = append(group.Members, Member{
			EmployeeID:   p.EmployeeID,
			EmployeeName: p.EmployeeName,
			Designation:  p.Designation,
			Division:     p.Division,
			Section:      p.Section,
			Subsection:   p.Subsection,
			Date:         p.Day(),
			Time:         p.EventTime,
			ScanType:     p.Scan(),
			Issue:        cls.Issue,
			Severity:     cls.Severity,
		})
		group.Severity = MaxSeverity(group.Severity, cls.Severity)
	}
	group.Count = len(group.Members)
	return []Group{group}
}

// aggregateDesignation buckets rows by designation, rolling each bucket up to
// one member per employee. A missing designation maps to the literal
// "Unknown" bucket.
func aggregateDesignation(rows []Punch, classes map[string]Classification) []Group {
	type bucketMember struct {
		member Member
		days   map[string]struct{}
	}
	buckets := make(map[string]map[string]*bucketMember)

	for _, p := range rows {
		designation := p.Designation
		if designation == "" {
			designation = UnknownDesignation
		}
		bucket, ok := buckets[designation]
		if !ok {
			bucket = make(map[string]*bucketMember)
			buckets[designation] = bucket
		}
		bm, ok := bucket[p.EmployeeID]
		if !ok {
			bm = &bucketMember{
				member: Member{
					EmployeeID:   p.EmployeeID,
					EmployeeName: p.EmployeeName,
					Designation:  designation,
					Division:     p.Division,
					Section:      p.Section,
					Subsection:   p.Subsection,
				},
				days: make(map[string]struct{}),
			}
			bucket[p.EmployeeID] = bm
		}
		bm.member.IssueCount++
		if _, seen := bm.days[p.Day()]; !seen {
			bm.days[p.Day()] = struct{}{}
			cls := classes[sessionKey(p.EmployeeID, p.Day())]
			if severityRank(cls.Severity) > severityRank(bm.member.Severity) {
				bm.member.Issue = cls.Issue
				bm.member.Severity = cls.Severity
			}
		}
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		group := Group{Name: name}
		for _, bm := range buckets[name] {
			group.Members = append(group.Members, bm.member)
			group.Severity = MaxSeverity(group.Severity, bm.member.Severity)
		}
		sort.SliceStable(group.Members, func(i, j int) bool {
			if group.Members[i].EmployeeName != group.Members[j].EmployeeName {
				return group.Members[i].EmployeeName < group.Members[j].EmployeeName
			}
			return group.Members[i].EmployeeID < group.Members[j].EmployeeID
		})
		group.Count = len(group.Members)
		groups = append(groups, group)
	}
	return groups
}

// aggregateEmployeeSummary rolls rows up by the (id, name, designation,
// division, section) tuple, counting raw rows per tuple as the issue count.
func aggregateEmployeeSummary(rows []Punch, classes map[string]Classification) []Group {
	type rollup struct {
		member Member
		days   map[string]struct{}
	}
	tuples := make(map[string]*rollup)

	for _, p := range rows {
		k := fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%s",
			p.EmployeeID, p.EmployeeName, p.Designation, p.Division, p.Section)
		r, ok := tuples[k]
		if !ok {
			r = &rollup{
				member: Member{
					EmployeeID:   p.EmployeeID,
					EmployeeName: p.EmployeeName,
					Designation:  p.Designation,
					Division:     p.Division,
					Section:      p.Section,
					Subsection:   p.Subsection,
				},
				days: make(map[string]struct{}),
			}
			tuples[k] = r
		}
		r.member.IssueCount++
		if _, seen := r.days[p.Day()]; !seen {
			r.days[p.Day()] = struct{}{}
			cls := classes[sessionKey(p.EmployeeID, p.Day())]
			if severityRank(cls.Severity) > severityRank(r.member.Severity) {
				r.member.Issue = cls.Issue
				r.member.Severity = cls.Severity
			}
		}
	}

	group := Group{Name: AllEmployeesGroup, Members: make([]Member, 0, len(tuples))}
	for _, r := range tuples {
		group.Members = append(group.Members, r.member)
		group.Severity = MaxSeverity(group.Severity, r.member.Severity)
	}
	sort.SliceStable(group.Members, func(i, j int) bool {
		if group.Members[i].IssueCount != group.Members[j].IssueCount {
			return group.Members[i].IssueCount > group.Members[j].IssueCount
		}
		if group.Members[i].EmployeeName != group.Members[j].EmployeeName {
			return group.Members[i].EmployeeName < group.Members[j].EmployeeName
		}
		return group.Members[i].EmployeeID < group.Members[j].EmployeeID
	})
	group.Count = len(group.Members)
	return []Group{group}
}

func describeFilters(opts AggregateOptions) string {
	desc := opts.Filter.Describe()
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		desc += ", " + formatDay(opts.Start) + " to " + formatDay(opts.End)
	}
	return desc
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}
