// Package format holds the clock-time, duration and label helpers shared by
// the report and export pipeline.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrClockParse indicates a clock-time string could not be parsed.
// DurationMinutes absorbs it; it never leaves this package's callers as a failure.
var ErrClockParse = errors.New("invalid clock time")

// ClockLayout is the layout used for captured clock times.
const ClockLayout = "15:04:05"

// DateLayout is the layout used for session calendar dates.
const DateLayout = "02/01/2006"

var ordinals = [...]string{
	"1º", "2º", "3º", "4º", "5º", "6º", "7º", "8º", "9º", "10º",
	"11º", "12º", "13º", "14º", "15º", "16º", "17º", "18º", "19º", "20º",
}

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ParseClockTime parses "HH:MM[:SS]" from the first space-delimited token of
// text. The result is anchored to 2000-01-01 UTC.
func ParseClockTime(text string) (time.Time, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty", ErrClockParse)
	}
	parts := strings.Split(fields[0], ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrClockParse, fields[0])
	}

	limits := [3]int{24, 60, 60}
	var values [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v >= limits[i] {
			return time.Time{}, fmt.Errorf("%w: %q", ErrClockParse, fields[0])
		}
		values[i] = v
	}

	return time.Date(2000, time.January, 1, values[0], values[1], values[2], 0, time.UTC), nil
}

// DurationMinutes returns the whole minutes from start to end. An end earlier
// than start is taken to have crossed midnight. Unparseable input yields 0,
// which callers treat as "unknown".
func DurationMinutes(start, end string) int {
	from, err := ParseClockTime(start)
	if err != nil {
		return 0
	}
	to, err := ParseClockTime(end)
	if err != nil {
		return 0
	}

	diff := to.Sub(from)
	if diff < 0 {
		diff += 24 * time.Hour
	}
	return int(diff / time.Minute)
}

// FormatDuration renders minutes as "N MINUTES" or "H HOUR(S) [AND M MINUTES]".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0 MINUTES"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d MINUTES", minutes)
	}

	hours, rest := minutes/60, minutes%60
	unit := "HOUR"
	if hours > 1 {
		unit = "HOURS"
	}
	if rest == 0 {
		return fmt.Sprintf("%d %s", hours, unit)
	}
	return fmt.Sprintf("%d %s AND %d MINUTES", hours, unit, rest)
}

// OrdinalLabel returns the ordinal label for a 1-based position.
func OrdinalLabel(n int) string {
	if n >= 1 && n <= len(ordinals) {
		return ordinals[n-1]
	}
	return strconv.Itoa(n) + "º"
}

// SanitizeText strips everything but word characters and whitespace, then
// collapses whitespace runs and trims.
func SanitizeText(text string) string {
	text = nonWordPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
