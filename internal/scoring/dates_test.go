package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-ranker/internal/rubric"
)

var fixedNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func newTestScorer(cfg rubric.Config) *Scorer {
	return New(cfg, WithClock(func() time.Time { return fixedNow }))
}

func TestParseDate(t *testing.T) {
	s := newTestScorer(rubric.Default())

	tests := []struct {
		name  string
		value string
		role  dateRole
		want  time.Time
		ok    bool
	}{
		{name: "year start", value: "2019", role: periodStart, want: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "year end", value: "2019", role: periodEnd, want: time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "year timeline", value: " 2019 ", role: timelinePoint, want: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "month name", value: "March 2020", role: periodStart, want: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "abbreviated month", value: "Sept. 2021", role: periodStart, want: time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "numeric month first", value: "03/2020", role: periodStart, want: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "numeric year first", value: "2020-11", role: periodStart, want: time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "iso date", value: "2021-04-15", role: periodStart, want: time.Date(2021, 4, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "present", value: "Present", role: periodEnd, want: fixedNow, ok: true},
		{name: "currently working", value: "currently working", role: timelinePoint, want: fixedNow, ok: true},
		{name: "until now", value: "2019 - now", role: periodEnd, want: fixedNow, ok: true},
		{name: "unknown end", value: "Unknown", role: periodEnd, ok: false},
		{name: "unknown timeline", value: "unknown", role: timelinePoint, ok: false},
		{name: "word containing now", value: "snow", role: periodStart, ok: false},
		{name: "empty", value: "  ", role: periodStart, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.parseDate(tt.value, tt.role)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestIsOngoing(t *testing.T) {
	for _, v := range []string{"Present", "current", "Currently working", "now", "ongoing"} {
		assert.True(t, isOngoing(v), v)
	}
	for _, v := range []string{"Unknown", "known", "Nowhere", "snow", "2020", ""} {
		assert.False(t, isOngoing(v), v)
	}
}

func TestMonthsBetween(t *testing.T) {
	a := time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 15, monthsBetween(a, b))
	assert.Equal(t, -15, monthsBetween(b, a))
}

func TestDurationMonths(t *testing.T) {
	s := newTestScorer(rubric.Default())

	months, source := s.durationMonths("2018", "2019")
	assert.Equal(t, 23, months)
	assert.Equal(t, monthsSourceDates, source)

	months, source = s.durationMonths("Jan 2024", "Present")
	assert.Equal(t, 17, months)
	assert.Equal(t, monthsSourceDates, source)

	months, _ = s.durationMonths("Jan 2024", "")
	assert.Equal(t, 17, months, "empty end means now")

	months, _ = s.durationMonths("2022-05", "2021-01")
	assert.Equal(t, 0, months, "negative durations floor at zero")

	months, source = s.durationMonths("2015", "Unknown")
	assert.Equal(t, 0, months, "an unreadable end is not treated as ongoing")
	assert.Equal(t, monthsSourceNone, source)

	months, source = s.durationMonths("", "2020")
	assert.Equal(t, 0, months)
	assert.Equal(t, monthsSourceNone, source)
}
