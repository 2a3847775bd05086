package helpers

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DateFormat is the wire format for calendar dates (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// Today returns the current calendar day in the server's local timezone.
// All temporal business rules compare calendar days in this single timezone.
func Today() time.Time {
	return TruncateToDay(time.Now())
}

// TruncateToDay strips the time-of-day component, keeping the calendar date
// in the value's location.
func TruncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(DateFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}

// SameDay reports whether two instants fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}
