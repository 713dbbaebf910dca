// Package interval provides half-open date range semantics for availability
// checks. A range [Start, End) includes its start day and excludes its end
// day, so a checkout that lands on another booking's check-in never counts
// as a conflict.
package interval

import "time"

// Range is a half-open date interval [Start, End).
// Both endpoints are calendar dates at day granularity; callers should
// normalize with Day before constructing a Range.
type Range struct {
	Start time.Time
	End   time.Time
}

// New returns a Range with both endpoints truncated to day granularity.
func New(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// Valid reports whether the range spans at least one night.
func (r Range) Valid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether two half-open ranges intersect.
// The single inequality pair covers the "starts inside", "ends inside" and
// "fully contains" cases; it must not be split into separate branches.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Nights returns the number of nights covered by the range, rounding any
// partial day up. Always at least 1 for a valid range.
func (r Range) Nights() int {
	d := r.End.Sub(r.Start)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Day truncates a time to midnight UTC. All range arithmetic happens at day
// granularity; no timezone conversion is applied beyond normalizing to UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current date at day granularity.
func Today() time.Time {
	return Day(time.Now())
}
