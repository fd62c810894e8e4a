// Package query interprets free-text setlist searches into structured
// provider filters.
//
// A single search string like "Pearl Jam 1991-09-20" or "Dead December 31
// 1977" is split into an artist name and at most one date signal. The
// matched date span is removed from the input to recover the artist name.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Filter is the parameter set extracted from a free-text search. At most one
// of Date and Year is set. An empty ArtistName means the provider should
// search by date alone.
type Filter struct {
	ArtistName string
	Date       string // exact date, YYYY-MM-DD
	Year       string // 4-digit year
}

var (
	// Explicit YYYY-MM-DD anywhere in the string.
	exactDateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

	// Month name (full or 3-letter) + 1-2 digit day + optional ordinal
	// suffix + optional comma + optional 4-digit year.
	monthDayRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{1,2})(?:st|nd|rd|th)?(?:,)?\s*(\d{4})?`)

	// Standalone 4-digit year in 1900-2099.
	bareYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Parse interprets raw using the current calendar year as the default for
// month-day queries that omit one. That default is a guess: "Phish December
// 31" may well mean a historical show. Use [ParseAt] to supply a different
// reference year.
func Parse(raw string) Filter {
	return ParseAt(raw, time.Now())
}

// ParseAt interprets raw, resolving a missing year against now.
//
// Priority order, first match wins:
//  1. explicit YYYY-MM-DD date
//  2. month-name day, optional year
//  3. bare year
//  4. no date signal, whole input is the artist name
//
// A month-day match that composes an invalid date (Feb 30) falls back to a
// bare year if present, else to artist-only.
func ParseAt(raw string, now time.Time) Filter {
	if loc := exactDateRe.FindStringIndex(raw); loc != nil {
		return Filter{
			Date:       raw[loc[0]:loc[1]],
			ArtistName: residual(raw, loc),
		}
	}

	if m := monthDayRe.FindStringSubmatchIndex(raw); m != nil {
		if date, ok := composeDate(raw, m, now); ok {
			return Filter{
				Date:       date,
				ArtistName: residual(raw, m[0:2]),
			}
		}
	}

	if loc := bareYearRe.FindStringIndex(raw); loc != nil {
		return Filter{
			Year:       raw[loc[0]:loc[1]],
			ArtistName: residual(raw, loc),
		}
	}

	return Filter{ArtistName: strings.TrimSpace(raw)}
}

// composeDate builds YYYY-MM-DD from a month-day submatch. ok is false when
// the day does not exist in the month.
func composeDate(raw string, m []int, now time.Time) (string, bool) {
	month, err := parseMonth(raw[m[2]:m[3]])
	if err != nil {
		return "", false
	}

	day, err := strconv.Atoi(raw[m[4]:m[5]])
	if err != nil {
		return "", false
	}

	year := now.Year()
	if m[6] >= 0 {
		year, err = strconv.Atoi(raw[m[6]:m[7]])
		if err != nil {
			return "", false
		}
	}

	// time.Date normalizes out-of-range days (Feb 30 becomes Mar 2), which
	// would silently shift the search target. Reject instead.
	composed := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if composed.Month() != month || composed.Day() != day {
		return "", false
	}

	return composed.Format("2006-01-02"), true
}

func parseMonth(abbrev string) (time.Month, error) {
	normalized := strings.ToUpper(abbrev[:1]) + strings.ToLower(abbrev[1:])
	parsed, err := time.Parse("Jan", normalized)
	if err != nil {
		return 0, err
	}
	return parsed.Month(), nil
}

// residual removes the matched span from raw exactly once, never
// double-stripping overlapping matches, and trims the remainder.
func residual(raw string, loc []int) string {
	return strings.TrimSpace(raw[:loc[0]] + raw[loc[1]:])
}
