// Package deadline turns free-text deadline strings into concrete calendar
// dates. Parsing is a cascade of independent matchers tried in order; the
// first one that recognizes the string wins. Anything unrecognized is
// Indeterminate, never an error.
package deadline

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Vague phrasings that can never produce a concrete date.
var vagueMarkers = []string{"varies", "rolling", "ongoing"}

// Exact layouts tried in order, e.g. "April 30, 2026" or "October 2026".
// A month-only layout resolves to the 1st of the month.
var layouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"January 2006",
}

// Day used when a recurring phrase names a month but no day.
const recurringDay = 15

var (
	monthEachYearRe    = regexp.MustCompile(`^([a-z]+)\s+(?:each|every) year`)
	rangeEachYearRe    = regexp.MustCompile(`^([a-z]+)\s*[-–]\s*([a-z]+)\s+(?:each|every) year`)
	monthDayEachYearRe = regexp.MustCompile(`^([a-z]+)\s+(\d{1,2})\s+each year`)
	monthRangeRe       = regexp.MustCompile(`^([a-z]+)\s*[-–]\s*([a-z]+)`)
)

// matcher inspects one deadline shape. ok=false means "not my shape, try the
// next one"; a vague match is signalled by ok=true with a zero time.
type matcher func(raw, lower string, now time.Time) (time.Time, bool)

var matchers = []matcher{
	matchVague,
	matchExactLayouts,
	matchRangeEachYear,
	matchMonthEachYear,
	matchMonthDayEachYear,
	matchMonthRange,
}

// Normalize resolves a raw deadline string against the reference time now.
// It returns ok=false when no concrete date can be derived (vague phrasing or
// an unrecognized shape). The result is deterministic for a fixed now.
func Normalize(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	for _, m := range matchers {
		if t, ok := m(raw, lower, now); ok {
			if t.IsZero() {
				return time.Time{}, false
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysUntil returns the whole days from now until the deadline, rounded down.
// Negative when the deadline has passed.
func DaysUntil(deadline, now time.Time) int {
	return int(math.Floor(deadline.Sub(now).Hours() / 24))
}

func matchVague(_, lower string, _ time.Time) (time.Time, bool) {
	for _, w := range vagueMarkers {
		if strings.Contains(lower, w) {
			return time.Time{}, true
		}
	}
	return time.Time{}, false
}

func matchExactLayouts(raw, _ string, _ time.Time) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func matchMonthEachYear(_, lower string, now time.Time) (time.Time, bool) {
	m := monthEachYearRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	return nextOccurrence(m[1], recurringDay, now)
}

func matchRangeEachYear(_, lower string, now time.Time) (time.Time, bool) {
	m := rangeEachYearRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	// A window like "October-December each year" closes with the second month.
	return nextOccurrence(m[2], recurringDay, now)
}

func matchMonthDayEachYear(_, lower string, now time.Time) (time.Time, bool) {
	m := monthDayEachYearRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	day := 0
	for _, r := range m[2] {
		day = day*10 + int(r-'0')
	}
	return nextOccurrence(m[1], day, now)
}

// matchMonthRange handles a bare "October-December" with no "each year"
// suffix. Best-effort fallback: treat it like the recurring-window shape.
func matchMonthRange(_, lower string, now time.Time) (time.Time, bool) {
	m := monthRangeRe.FindStringSubmatch(lower)
	if m == nil {
		return time.Time{}, false
	}
	return nextOccurrence(m[2], recurringDay, now)
}

// nextOccurrence resolves a month name and day to the next calendar date at
// or after now: this year's occurrence, rolled forward one year when it is
// strictly in the past.
func nextOccurrence(monthName string, day int, now time.Time) (time.Time, bool) {
	month, ok := parseMonth(monthName)
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}
	candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(now) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate, true
}

func parseMonth(name string) (time.Month, bool) {
	if name == "" {
		return 0, false
	}
	t, err := time.Parse("January", strings.ToUpper(name[:1])+name[1:])
	if err != nil {
		return 0, false
	}
	return t.Month(), true
}
