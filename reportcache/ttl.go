package reportcache

import "time"

// TTLPolicy maps report shape and result cardinality onto a time-to-live
// tier. Individual reports are volatile and narrow, so they expire fast.
// Group reports tolerate longer staleness the larger they get: big
// aggregates cost more to recompute and change proportionally less per unit
// time. Hierarchy lookups are low-cardinality and change rarely, so they use
// one flat tier.
type TTLPolicy struct {
	Individual  time.Duration
	GroupSmall  time.Duration
	GroupMedium time.Duration
	GroupLarge  time.Duration
	Hierarchy   time.Duration

	// Member-count thresholds between the group tiers. Results up to
	// SmallMax (exclusive) are small; up to MediumMax (inclusive) medium.
	SmallMax  int
	MediumMax int
}

// DefaultTTLPolicy returns the production tiering.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Individual:  5 * time.Minute,
		GroupSmall:  10 * time.Minute,
		GroupMedium: 15 * time.Minute,
		GroupLarge:  20 * time.Minute,
		Hierarchy:   10 * time.Minute,
		SmallMax:    100,
		MediumMax:   500,
	}
}

// ReportTTL selects the tier for a report. resultSize is the total member
// count across the report's groups.
func (t TTLPolicy) ReportTTL(individual bool, resultSize int) time.Duration {
	if individual {
		return t.Individual
	}
	switch {
	case resultSize < t.SmallMax:
		return t.GroupSmall
	case resultSize <= t.MediumMax:
		return t.GroupMedium
	default:
		return t.GroupLarge
	}
}

// HierarchyTTL returns the flat tier for division/section/subsection
// lookups.
func (t TTLPolicy) HierarchyTTL() time.Duration {
	return t.Hierarchy
}

// MaxTTL returns the longest tier the policy can hand out; the cache store's
// client-wide ceiling must be at least this.
func (t TTLPolicy) MaxTTL() time.Duration {
	max := t.Individual
	for _, d := range []time.Duration{t.GroupSmall, t.GroupMedium, t.GroupLarge, t.Hierarchy} {
		if d > max {
			max = d
		}
	}
	return max
}
