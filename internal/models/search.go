package models

import (
	"sort"
	"strings"
)

// WorkoutsOnDate returns the workouts whose calendar date equals date.
// Comparison is on date strings, so no timezone shift can move a workout
// onto a neighbouring day.
func WorkoutsOnDate(workouts []Workout, date string) []Workout {
	want := DateOnly(date)
	var out []Workout
	for _, w := range workouts {
		if DateOnly(w.Date) == want {
			out = append(out, w)
		}
	}
	return out
}

// SearchMatch reports whether query occurs, case-insensitively, in the
// workout name, its date (raw, YYYY-MM, YYYY or M/D/YYYY) or any exercise name.
func SearchMatch(w *Workout, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	fields := []string{w.Name, w.Date, truncate(w.Date, 7), truncate(w.Date, 4), USDate(w.Date)}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	for _, b := range w.Blocks {
		for _, e := range b.Exercises {
			if strings.Contains(strings.ToLower(e.Name), q) {
				return true
			}
		}
	}
	return false
}

// SearchWorkouts filters workouts with SearchMatch. A blank query returns all.
func SearchWorkouts(workouts []Workout, query string) []Workout {
	if strings.TrimSpace(query) == "" {
		return workouts
	}
	var out []Workout
	for i := range workouts {
		if SearchMatch(&workouts[i], query) {
			out = append(out, workouts[i])
		}
	}
	return out
}

// SortByDateDesc orders workouts newest first by calendar date. Workouts on
// the same day keep their relative order.
func SortByDateDesc(workouts []Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return DateOnly(workouts[i].Date) > DateOnly(workouts[j].Date)
	})
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
