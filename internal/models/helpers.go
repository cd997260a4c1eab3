package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a workout does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when caller-supplied data fails validation.
var ErrInvalidInput = errors.New("invalid input")

// ErrWorkoutExists is returned when adding a workout whose ID is already taken.
var ErrWorkoutExists = errors.New("workout already exists")

// dateLayout is the canonical calendar-date layout used for every comparison.
const dateLayout = "2006-01-02"

// DateOnly trims any time-of-day suffix from a date string
// (e.g. "2025-01-01T00:00:00Z" → "2025-01-01", "2025-01-01 08:00" → "2025-01-01").
func DateOnly(d string) string {
	d = strings.TrimSpace(d)
	if i := strings.IndexAny(d, "T "); i >= 0 {
		return d[:i]
	}
	return d
}

// ValidDate reports whether d is a calendar date once its time suffix is dropped.
func ValidDate(d string) bool {
	_, err := time.Parse(dateLayout, DateOnly(d))
	return err == nil
}

// USDate renders a date as M/D/YYYY, the way it shows in the workout list.
// Unparseable dates render as "".
func USDate(d string) string {
	t, err := time.Parse(dateLayout, DateOnly(d))
	if err != nil {
		return ""
	}
	return t.Format("1/2/2006")
}

// Today returns the current calendar date in the local timezone.
func Today() string {
	return time.Now().Format(dateLayout)
}
