package scoring

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateRole selects how an ambiguous year-only value is pinned to a calendar day
type dateRole int

const (
	// periodStart pins a bare year to 1 January
	periodStart dateRole = iota
	// periodEnd pins a bare year to 31 December
	periodEnd
	// timelinePoint pins a bare year to 1 January and falls back to any year found in the text
	timelinePoint
)

var (
	yearOnlyPattern     = regexp.MustCompile(`^\d{4}$`)
	monthNameYear       = regexp.MustCompile(`^([a-z]+)\.?,?\s+(\d{4})$`)
	numericMonthYear    = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{4})$`)
	yearNumericMonth    = regexp.MustCompile(`^(\d{4})[/\-.](\d{1,2})$`)
	embeddedYearPattern = regexp.MustCompile(`(19|20)\d{2}`)
)

// sentinelWords mark an ongoing period when they appear as whole words
var sentinelWords = map[string]bool{
	"current": true, "currently": true, "present": true, "working": true, "now": true, "ongoing": true,
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// isOngoing reports whether a date string says the period has not ended
func isOngoing(value string) bool {
	for _, tok := range tokenSplit.Split(strings.ToLower(value), -1) {
		if sentinelWords[tok] {
			return true
		}
	}
	return false
}

// parseDate resolves a resume date string. The chain is: ongoing sentinel, bare year,
// month-name + year, MM/YYYY, YYYY-MM, then the fuzzy parser. Timeline points additionally
// fall back to the first plausible year in the text. The second return is false when
// nothing could be read.
func (s *Scorer) parseDate(raw string, role dateRole) (time.Time, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return time.Time{}, false
	}
	if isOngoing(value) {
		return s.now(), true
	}

	if yearOnlyPattern.MatchString(value) {
		year, _ := strconv.Atoi(value)
		if role == periodEnd {
			return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), true
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}

	if m := monthNameYear.FindStringSubmatch(value); m != nil {
		if len(m[1]) >= 3 {
			if month, ok := monthNames[m[1][:3]]; ok {
				year, _ := strconv.Atoi(m[2])
				return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	if m := numericMonthYear.FindStringSubmatch(value); m != nil {
		if t, ok := monthYear(m[2], m[1]); ok {
			return t, true
		}
	}
	if m := yearNumericMonth.FindStringSubmatch(value); m != nil {
		if t, ok := monthYear(m[1], m[2]); ok {
			return t, true
		}
	}

	if t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC); err == nil {
		return t, true
	}

	if role == timelinePoint {
		if year := embeddedYearPattern.FindString(value); year != "" {
			y, _ := strconv.Atoi(year)
			return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func monthYear(yearText, monthText string) (time.Time, bool) {
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(monthText)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

// monthsBetween is the calendar month difference, positive when to is after from
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// durationMonths estimates the length of a period from its start and end strings.
// An empty or ongoing end means now. When either side cannot be parsed the estimate
// falls back to whole years found in the text, and finally to zero.
func (s *Scorer) durationMonths(start, end string) (int, string) {
	if strings.TrimSpace(start) == "" {
		return 0, monthsSourceNone
	}

	endDate, endOK := s.now(), true
	if strings.TrimSpace(end) != "" {
		endDate, endOK = s.parseDate(end, periodEnd)
	}
	startDate, startOK := s.parseDate(start, periodStart)
	if startOK && endOK {
		return max(0, monthsBetween(startDate, endDate)), monthsSourceDates
	}

	startYear := embeddedYearPattern.FindString(start)
	if startYear == "" {
		return 0, monthsSourceNone
	}
	sy, _ := strconv.Atoi(startYear)
	ey := s.now().Year()
	if strings.TrimSpace(end) != "" && !isOngoing(end) {
		endYear := embeddedYearPattern.FindString(end)
		if endYear == "" {
			return 0, monthsSourceNone
		}
		ey, _ = strconv.Atoi(endYear)
	}
	return max(0, ey-sy) * 12, monthsSourceYears
}
