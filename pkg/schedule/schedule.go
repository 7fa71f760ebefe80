// Package schedule holds the pure weekday/time helpers used by the
// availability and appointment pipelines. All comparisons work on
// minutes since midnight; seconds never affect ordering.
package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// weekdayNames maps time.Weekday ordering (0=Sunday .. 6=Saturday) to
// the canonical unaccented lowercase tokens stored in the database.
var weekdayNames = [7]string{
	"domingo",
	"lunes",
	"martes",
	"miercoles",
	"jueves",
	"viernes",
	"sabado",
}

var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

// accentStripper decomposes to NFD and removes combining marks, so
// "miércoles" and "miercoles" canonicalize to the same token. One
// normalization path for every weekday, accented or not.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// IsValidWeekday reports whether name matches one of the seven weekday
// tokens, ignoring case and accents.
func IsValidWeekday(name string) bool {
	_, ok := CanonicalWeekday(name)
	return ok
}

// CanonicalWeekday returns the canonical unaccented lowercase form of
// name, or false when name is not a weekday.
func CanonicalWeekday(name string) (string, bool) {
	token := normalizeToken(name)
	for _, day := range weekdayNames {
		if token == day {
			return day, true
		}
	}
	return "", false
}

// SameWeekday compares two weekday names ignoring case and accents.
func SameWeekday(a, b string) bool {
	return normalizeToken(a) == normalizeToken(b)
}

// IsValidTimeFormat reports whether s is H:MM, HH:MM, H:MM:SS or
// HH:MM:SS with hour in [0,23] and minute/second in [0,59].
func IsValidTimeFormat(s string) bool {
	return timePattern.MatchString(s)
}

// MinutesOfDay parses s into minutes since midnight. Seconds, when
// present, are ignored. Returns false for anything with fewer than two
// colon-separated components or non-numeric parts.
func MinutesOfDay(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return hour*60 + minute, true
}

// IsRangeValid reports whether start comes strictly before end.
// Malformed input yields false rather than an error.
func IsRangeValid(start, end string) bool {
	s, ok := MinutesOfDay(start)
	if !ok {
		return false
	}
	e, ok := MinutesOfDay(end)
	if !ok {
		return false
	}
	return s < e
}

// WeekdayOf returns the canonical weekday token for t's UTC day of week.
func WeekdayOf(t time.Time) string {
	return weekdayNames[int(t.UTC().Weekday())]
}

// TimeOfDay returns t's UTC clock time as zero-padded HH:MM:SS.
func TimeOfDay(t time.Time) string {
	return t.UTC().Format("15:04:05")
}

// IsTimeInRange reports whether value falls within the half-open
// interval [start, end), compared as minutes since midnight.
func IsTimeInRange(value, start, end string) bool {
	v, ok := MinutesOfDay(value)
	if !ok {
		return false
	}
	s, ok := MinutesOfDay(start)
	if !ok {
		return false
	}
	e, ok := MinutesOfDay(end)
	if !ok {
		return false
	}
	return s <= v && v < e
}
