package report

import (
	"testing"
	"time"
)

func TestParseParamsAliases(t *testing.T) {
	snake, err := ParseParams(map[string]string{
		"from_date":      "2026-01-01",
		"to_date":        "2026-01-31",
		"division_id":    "D1",
		"section_id":     "S1",
		"sub_section_id": "X1",
		"employee_id":    "E1",
		"grouping":       "punch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	camel, err := ParseParams(map[string]string{
		"startDate":    "2026-01-01",
		"endDate":      "2026-01-31",
		"divisionId":   "D1",
		"sectionId":    "S1",
		"subSectionId": "X1",
		"employeeId":   "E1",
		"grouping":     "punch",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snake != camel {
		t.Errorf("alias parsing diverged:\n snake: %+v\n camel: %+v", snake, camel)
	}
	if snake.Division != "D1" || snake.EmployeeID != "E1" {
		t.Errorf("unexpected params: %+v", snake)
	}
	if !snake.Start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v, want 2026-01-01", snake.Start)
	}
}

func TestParseParamsAllSentinel(t *testing.T) {
	explicit, err := ParseParams(map[string]string{
		"from_date":   "2026-01-01",
		"to_date":     "2026-01-31",
		"division_id": "all",
		"section_id":  "ALL",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	omitted, err := ParseParams(map[string]string{
		"from_date": "2026-01-01",
		"to_date":   "2026-01-31",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if explicit != omitted {
		t.Errorf("explicit 'all' and omitted filter diverged:\n explicit: %+v\n omitted:  %+v", explicit, omitted)
	}
	if explicit.Division != "" {
		t.Errorf("Division = %q, want empty", explicit.Division)
	}
}

func TestParseParamsDefaultGrouping(t *testing.T) {
	p, err := ParseParams(map[string]string{
		"from_date": "2026-01-01",
		"to_date":   "2026-01-31",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Grouping != GroupingNone {
		t.Errorf("Grouping = %v, want %v", p.Grouping, GroupingNone)
	}
}

func TestParseParamsErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
	}{
		{"malformed from_date", map[string]string{"from_date": "01/26/2026"}},
		{"malformed to_date", map[string]string{"to_date": "not-a-date"}},
		{"unknown grouping", map[string]string{"grouping": "weekly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseParams(tt.raw); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	valid := Params{
		Start:    day("2026-01-01"),
		End:      day("2026-01-31"),
		Grouping: GroupingNone,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}

	tests := []struct {
		name string
		p    Params
	}{
		{"missing start", Params{End: day("2026-01-31"), Grouping: GroupingNone}},
		{"missing end", Params{Start: day("2026-01-01"), Grouping: GroupingNone}},
		{"end before start", Params{Start: day("2026-01-31"), End: day("2026-01-01"), Grouping: GroupingNone}},
		{"bad grouping", Params{Start: day("2026-01-01"), End: day("2026-01-31"), Grouping: Grouping("weekly")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDayBounds(t *testing.T) {
	p := Params{Start: day("2026-01-26"), End: day("2026-01-26")}
	start, end := p.DayBounds()

	if start.Hour() != 0 || start.Minute() != 0 {
		t.Errorf("start = %v, want start of day", start)
	}
	if end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("end = %v, want end of day", end)
	}
	if !end.After(start) {
		t.Errorf("end %v not after start %v", end, start)
	}
}

func TestOrgFilterMatches(t *testing.T) {
	p := Punch{Division: "D1", Section: "S1", Subsection: "X1"}

	tests := []struct {
		name   string
		filter OrgFilter
		want   bool
	}{
		{"empty filter matches everything", OrgFilter{}, true},
		{"matching division", OrgFilter{Division: "D1"}, true},
		{"wrong division", OrgFilter{Division: "D2"}, false},
		{"full match", OrgFilter{Division: "D1", Section: "S1", Subsection: "X1"}, true},
		{"section mismatch under right division", OrgFilter{Division: "D1", Section: "S9"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(p); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}
