package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Grouping selects one of the three mutually exclusive report strategies.
type Grouping string

const (
	// GroupingPunch emits one member per raw punch row inside a single
	// "All Records" group.
	GroupingPunch Grouping = "punch"
	// GroupingDesignation buckets rows by the employee's designation.
	GroupingDesignation Grouping = "designation"
	// GroupingNone rolls rows up to one member per employee. It is the
	// default summary mode.
	GroupingNone Grouping = "none"
)

// ParseGrouping maps a raw grouping parameter onto the enum. An empty value
// selects the default summary mode.
func ParseGrouping(raw string) (Grouping, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(GroupingNone):
		return GroupingNone, nil
	case string(GroupingPunch):
		return GroupingPunch, nil
	case string(GroupingDesignation):
		return GroupingDesignation, nil
	default:
		return "", fmt.Errorf("unknown grouping %q", raw)
	}
}

// FilterAll is the sentinel callers may pass for an org filter that should
// not constrain the report.
const FilterAll = "all"

// DateFormat is the ISO date layout accepted for range parameters.
const DateFormat = "2006-01-02"

// Params are the normalized filter parameters for one report invocation.
// Build them with ParseParams, or populate the struct directly; either way
// org filters use the empty string for "no filter".
type Params struct {
	Start      time.Time
	End        time.Time
	Grouping   Grouping
	Division   string
	Section    string
	Subsection string
	EmployeeID string
	Format     string
}

// paramAliases collapses the field-name variants accepted from callers onto
// canonical names. Key derivation depends on this normalization: two requests
// that spell the same filter differently must become identical Params.
var paramAliases = map[string]string{
	"from_date":      "from_date",
	"start_date":     "from_date",
	"startdate":      "from_date",
	"to_date":        "to_date",
	"end_date":       "to_date",
	"enddate":        "to_date",
	"grouping":       "grouping",
	"division_id":    "division_id",
	"divisionid":     "division_id",
	"section_id":     "section_id",
	"sectionid":      "section_id",
	"sub_section_id": "sub_section_id",
	"subsection_id":  "sub_section_id",
	"subsectionid":   "sub_section_id",
	"employee_id":    "employee_id",
	"employeeid":     "employee_id",
	"format":         "format",
}

// ParseParams builds Params from loosely named request values. Unknown keys
// are ignored; recognized aliases collapse onto one canonical field.
func ParseParams(raw map[string]string) (Params, error) {
	canonical := make(map[string]string, len(raw))
	for k, v := range raw {
		name, ok := paramAliases[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			canonical[name] = v
		}
	}

	var p Params
	var err error

	if v := canonical["from_date"]; v != "" {
		if p.Start, err = time.Parse(DateFormat, v); err != nil {
			return Params{}, fmt.Errorf("invalid from_date %q: %w", v, err)
		}
	}
	if v := canonical["to_date"]; v != "" {
		if p.End, err = time.Parse(DateFormat, v); err != nil {
			return Params{}, fmt.Errorf("invalid to_date %q: %w", v, err)
		}
	}
	if p.Grouping, err = ParseGrouping(canonical["grouping"]); err != nil {
		return Params{}, err
	}

	p.Division = normalizeFilter(canonical["division_id"])
	p.Section = normalizeFilter(canonical["section_id"])
	p.Subsection = normalizeFilter(canonical["sub_section_id"])
	p.EmployeeID = strings.TrimSpace(canonical["employee_id"])
	p.Format = normalizeFilter(canonical["format"])

	return p, nil
}

// normalizeFilter maps the "all" sentinel (and blanks) to the empty string so
// that an explicit "all" and an omitted filter are indistinguishable.
func normalizeFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, FilterAll) {
		return ""
	}
	return v
}

// Validate checks that the parameters form a well-defined report request.
// The engine assumes validated input; callers run this before invoking it.
func (p Params) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Start, validation.Required.Error("from_date is required")),
		validation.Field(&p.End,
			validation.Required.Error("to_date is required"),
			validation.By(p.endNotBeforeStart),
		),
		validation.Field(&p.Grouping, validation.In(GroupingPunch, GroupingDesignation, GroupingNone)),
	)
}

func (p Params) endNotBeforeStart(any) error {
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		return errors.New("must not be before from_date")
	}
	return nil
}

// Individual reports whether the request is scoped to a single employee.
func (p Params) Individual() bool {
	return p.EmployeeID != ""
}

// DayBounds expands the date range to inclusive start-of-day and end-of-day
// instants in the range's own location.
func (p Params) DayBounds() (time.Time, time.Time) {
	start := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, p.Start.Location())
	end := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), p.End.Location())
	return start, end
}

// OrgFilter returns the organizational equality predicate portion of the
// parameters.
func (p Params) OrgFilter() OrgFilter {
	return OrgFilter{Division: p.Division, Section: p.Section, Subsection: p.Subsection}
}

// OrgFilter is an optional equality constraint on the organizational
// hierarchy. Empty fields do not constrain.
type OrgFilter struct {
	Division   string
	Section    string
	Subsection string
}

// Empty reports whether the filter constrains nothing.
func (f OrgFilter) Empty() bool {
	return f.Division == "" && f.Section == "" && f.Subsection == ""
}

// Matches reports whether the punch satisfies every populated field.
func (f OrgFilter) Matches(p Punch) bool {
	if f.Division != "" && p.Division != f.Division {
		return false
	}
	if f.Section != "" && p.Section != f.Section {
		return false
	}
	if f.Subsection != "" && p.Subsection != f.Subsection {
		return false
	}
	return true
}

// Describe renders the filter values as a human-readable summary fragment.
func (f OrgFilter) Describe() string {
	var parts []string
	if f.Division != "" {
		parts = append(parts, "division "+f.Division)
	}
	if f.Section != "" {
		parts = append(parts, "section "+f.Section)
	}
	if f.Subsection != "" {
		parts = append(parts, "subsection "+f.Subsection)
	}
	if len(parts) == 0 {
		return "all divisions"
	}
	return strings.Join(parts, ", ")
}
