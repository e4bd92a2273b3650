// Package dates parses date substrings found in recognized document text into
// canonical calendar dates.
//
// Formats are tried in a fixed, documented priority order. Numeric day/month
// ambiguity ("03/04/2024") is resolved by that order: day-first layouts come
// before month-first, so 03/04/2024 is April 3rd, never March 4th. The order
// is a configurable product default, not a law of nature, but it must stay
// stable across releases because downstream confidence depends on it.
package dates

import (
	"strings"
	"time"
)

// numericLayouts are tried first, in day-first priority order.
var numericLayouts = []string{
	"2006-01-02", // ISO, always unambiguous
	"02/01/2006", // day-first
	"02-01-2006",
	"02.01.2006",
	"01/02/2006", // month-first fallback
	"2006/01/02", // year-first with slashes
	"2006.01.02",
}

// longLayouts cover month-name forms after Spanish fillers are stripped and
// month names are translated to English.
var longLayouts = []string{
	"2 January 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// spanishMonths translates long-form month names in at least one non-English
// locale. Keys are matched case-insensitively.
var spanishMonths = map[string]string{
	"enero":      "January",
	"febrero":    "February",
	"marzo":      "March",
	"abril":      "April",
	"mayo":       "May",
	"junio":      "June",
	"julio":      "July",
	"agosto":     "August",
	"septiembre": "September",
	"setiembre":  "September",
	"octubre":    "October",
	"noviembre":  "November",
	"diciembre":  "December",
}

// Parse attempts the candidate against the ordered layout list and returns
// the first calendar-valid date as midnight UTC. ok is false when nothing
// parses; Parse never guesses between formats beyond the documented priority.
func Parse(candidate string) (time.Time, bool) {
	s := strings.TrimSpace(candidate)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range numericLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return midnightUTC(t), true
		}
	}

	long := translateSpanish(s)
	for _, layout := range longLayouts {
		if t, err := time.ParseInLocation(layout, long, time.UTC); err == nil {
			return midnightUTC(t), true
		}
	}

	return time.Time{}, false
}

// Normalize parses a candidate and re-renders it in canonical YYYY-MM-DD
// form. Idempotent on already-canonical input.
func Normalize(candidate string) (string, bool) {
	t, ok := Parse(candidate)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// Plausibility window: dates far outside a sane window score low rather than
// being rejected by the parser. The window feeds the confidence scorer.
const (
	// FutureTolerance allows for timezone skew on same-day documents.
	FutureTolerance = 48 * time.Hour
	// RecentWindow is how far back a transaction date still counts as recent.
	RecentWindow = 2 * 365 * 24 * time.Hour
)

// Plausible reports whether t falls inside the recency window relative to now:
// not further in the future than the tolerance and not older than the window.
func Plausible(t, now time.Time) bool {
	if t.After(now.Add(FutureTolerance)) {
		return false
	}
	if t.Before(now.Add(-RecentWindow)) {
		return false
	}
	return true
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// translateSpanish strips "de" fillers ("2 de enero de 2024") and maps
// Spanish month names onto English so the shared layouts can parse them.
func translateSpanish(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		clean := strings.Trim(f, ",.")
		if strings.EqualFold(clean, "de") || strings.EqualFold(clean, "del") {
			continue
		}
		if en, ok := spanishMonths[strings.ToLower(clean)]; ok {
			out = append(out, strings.Replace(f, clean, en, 1))
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
