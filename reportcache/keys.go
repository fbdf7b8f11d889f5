package reportcache

import (
	"strings"

	"github.com/attendly/go-punch-report/report"
)

// Namespace prefixes every key the engine writes, identifying the report
// family.
const Namespace = "attendance-report"

// HierarchyNamespace prefixes keys for cached division/section/subsection
// lookups.
const HierarchyNamespace = "attendance-hierarchy"

// KeySeparator joins key segments. Segments stay plaintext so that prefix
// and segment matching remain possible during invalidation.
const KeySeparator = ":"

// Modes distinguishing employee-scoped keys from group-report keys.
const (
	modeIndividual = "individual"
	modeGroup      = "group"
)

// Segment labels for the organizational scope of a group-report key.
const (
	segEmployee   = "emp"
	segDivision   = "div"
	segSection    = "sec"
	segSubsection = "sub"
)

// Key is the ordered-segment form of a report cache key. Building keys
// through the struct rather than ad hoc interpolation keeps derivation
// deterministic and mechanically checkable.
type Key struct {
	Namespace  string
	EmployeeID string
	Division   string
	Section    string
	Subsection string
	Start      string
	End        string
	Format     string
}

// DeriveKey builds the canonical cache key for the given report parameters.
// Params are already alias-normalized and carry "" for unconstrained org
// filters, so two semantically equivalent requests always derive the same
// key.
func DeriveKey(p report.Params) Key {
	k := Key{
		Namespace: Namespace,
		Start:     p.Start.Format(report.DateFormat),
		End:       p.End.Format(report.DateFormat),
		Format:    p.Format,
	}
	if p.Individual() {
		k.EmployeeID = p.EmployeeID
		return k
	}
	k.Division = p.Division
	k.Section = p.Section
	k.Subsection = p.Subsection
	return k
}

// Individual reports whether the key addresses a single employee's report.
func (k Key) Individual() bool {
	return k.EmployeeID != ""
}

// String serializes the key as its joined segment list:
//
//	attendance-report:individual:emp:<id>:<start>:<end>[:<format>]
//	attendance-report:group[:div:<d>][:sec:<s>][:sub:<x>]:<start>:<end>[:<format>]
func (k Key) String() string {
	ns := k.Namespace
	if ns == "" {
		ns = Namespace
	}
	segments := []string{ns}

	if k.Individual() {
		segments = append(segments, modeIndividual, orgSegment(segEmployee, k.EmployeeID))
	} else {
		segments = append(segments, modeGroup)
		if k.Division != "" {
			segments = append(segments, orgSegment(segDivision, k.Division))
		}
		if k.Section != "" {
			segments = append(segments, orgSegment(segSection, k.Section))
		}
		if k.Subsection != "" {
			segments = append(segments, orgSegment(segSubsection, k.Subsection))
		}
	}

	segments = append(segments, k.Start, k.End)
	if k.Format != "" && k.Format != "json" {
		segments = append(segments, k.Format)
	}
	return strings.Join(segments, KeySeparator)
}

func orgSegment(label, value string) string {
	return label + KeySeparator + value
}

// IndividualPrefix returns the key prefix covering one employee's individual
// reports, or all individual reports when employeeID is empty.
func IndividualPrefix(employeeID string) string {
	parts := []string{Namespace, modeIndividual}
	if employeeID != "" {
		parts = append(parts, orgSegment(segEmployee, employeeID))
	}
	return strings.Join(parts, KeySeparator)
}

// GroupPrefix returns the key prefix covering every group report.
func GroupPrefix() string {
	return Namespace + KeySeparator + modeGroup
}

// HierarchyPrefix returns the key prefix for cached hierarchy lookups of the
// given kind, or for all kinds when kind is empty.
func HierarchyPrefix(kind string) string {
	if kind == "" {
		return HierarchyNamespace
	}
	return HierarchyNamespace + KeySeparator + kind
}

// MatchesOrg reports whether the key's segments include every populated org
// scope value. Used to target invalidation at a division, section, or
// subsection without touching sibling scopes.
func MatchesOrg(key, division, section, subsection string) bool {
	if division != "" && !containsSegment(key, orgSegment(segDivision, division)) {
		return false
	}
	if section != "" && !containsSegment(key, orgSegment(segSection, section)) {
		return false
	}
	if subsection != "" && !containsSegment(key, orgSegment(segSubsection, subsection)) {
		return false
	}
	return true
}

// containsSegment checks for a whole labeled segment, bounded by separators,
// so that division "D1" does not match "D10".
func containsSegment(key, segment string) bool {
	padded := KeySeparator + key + KeySeparator
	return strings.Contains(padded, KeySeparator+segment+KeySeparator)
}
