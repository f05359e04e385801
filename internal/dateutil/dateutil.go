// Package dateutil parses the assorted date representations returned by the
// NeoWs API and formats them for display.
package dateutil

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ISODate is the layout the feed uses for its date buckets and query parameters.
const ISODate = "2006-01-02"

// nativeLayouts are tried first, mirroring what a general purpose date
// parser accepts for machine-generated timestamps.
var nativeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC1123Z,
	time.RFC1123,
}

// candidateLayouts covers the formats NeoWs actually emits, in priority order:
// yyyy-MM-dd, yyyy/MM/dd, yyyy-MMM-dd, yyyy-MMM-dd HH:mm, yyyy-MM-dd HH:mm.
var candidateLayouts = []string{
	ISODate,
	"2006/01/02",
	"2006-Jan-02",
	"2006-Jan-02 15:04",
	"2006-01-02 15:04",
}

// ParseFlexible normalises v to an instant. It accepts a time.Time, an epoch
// in milliseconds (int, int64 or float64) or a string. The second return
// value is false when v cannot be interpreted; ParseFlexible never panics.
func ParseFlexible(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case int:
		return time.UnixMilli(int64(x)).UTC(), true
	case int64:
		return time.UnixMilli(x).UTC(), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(x)).UTC(), true
	case string:
		return parseString(x)
	case fmt.Stringer:
		return parseString(x.String())
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range candidateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatReadable renders v as "02 Jan 2006", or "Mon, 02 Jan 2006" when
// weekday is set. Input that cannot be parsed is returned as-is.
func FormatReadable(v any, weekday bool) string {
	t, ok := ParseFlexible(v)
	if !ok {
		return echo(v)
	}
	if weekday {
		return t.Format("Mon, 02 Jan 2006")
	}
	return t.Format("02 Jan 2006")
}

// FormatReadableWithTime is FormatReadable with the clock time appended.
func FormatReadableWithTime(v any, weekday bool) string {
	t, ok := ParseFlexible(v)
	if !ok {
		return echo(v)
	}
	if weekday {
		return t.Format("Mon, 02 Jan 2006, 15:04")
	}
	return t.Format("02 Jan 2006, 15:04")
}

func echo(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Today returns the calendar date of now as midnight UTC.
func Today(now time.Time) time.Time {
	return CalendarDate(now)
}

// CalendarDate drops the clock part of t, keeping the year, month and day
// as observed in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatISODate formats t as yyyy-MM-dd.
func FormatISODate(t time.Time) string {
	return t.Format(ISODate)
}

// ParseISODate parses a yyyy-MM-dd string into midnight UTC.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISODate, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}
