package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTruncatesToDay(t *testing.T) {
	r := New(
		time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC),
		time.Date(2024, 6, 12, 9, 15, 0, 0, time.UTC),
	)

	assert.Equal(t, date(2024, 6, 10), r.Start)
	assert.Equal(t, date(2024, 6, 12), r.End)
}

func TestValid(t *testing.T) {
	assert.True(t, New(date(2024, 6, 10), date(2024, 6, 11)).Valid())
	assert.False(t, New(date(2024, 6, 10), date(2024, 6, 10)).Valid(), "zero-length range")
	assert.False(t, New(date(2024, 6, 11), date(2024, 6, 10)).Valid(), "inverted range")
}

func TestOverlaps(t *testing.T) {
	base := New(date(2024, 6, 10), date(2024, 6, 15))

	tests := []struct {
		name  string
		other Range
		want  bool
	}{
		{"identical", New(date(2024, 6, 10), date(2024, 6, 15)), true},
		{"starts inside", New(date(2024, 6, 12), date(2024, 6, 20)), true},
		{"ends inside", New(date(2024, 6, 5), date(2024, 6, 12)), true},
		{"fully contains", New(date(2024, 6, 5), date(2024, 6, 20)), true},
		{"fully contained", New(date(2024, 6, 11), date(2024, 6, 14)), true},
		{"checkout on checkin day", New(date(2024, 6, 5), date(2024, 6, 10)), false},
		{"checkin on checkout day", New(date(2024, 6, 15), date(2024, 6, 20)), false},
		{"disjoint before", New(date(2024, 6, 1), date(2024, 6, 5)), false},
		{"disjoint after", New(date(2024, 6, 20), date(2024, 6, 25)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 1, New(date(2024, 6, 10), date(2024, 6, 11)).Nights())
	assert.Equal(t, 5, New(date(2024, 6, 10), date(2024, 6, 15)).Nights())

	// A partial day rounds up to a full night.
	partial := Range{
		Start: date(2024, 6, 10),
		End:   time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, partial.Nights())
}

func TestDay(t *testing.T) {
	// Day normalizes to UTC midnight regardless of source zone.
	loc := time.FixedZone("UTC+5", 5*3600)
	got := Day(time.Date(2024, 6, 10, 2, 0, 0, 0, loc))
	assert.Equal(t, date(2024, 6, 9), got)
}
