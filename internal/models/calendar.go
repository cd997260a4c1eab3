package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DaySummary is the per-day entry of a month view.
type DaySummary struct {
	Date     string `json:"date"`
	Workouts int    `json:"workouts"`
}

// MonthSummary describes one calendar month of training.
type MonthSummary struct {
	Month     string       `json:"month"`
	Workouts  int          `json:"workouts"`
	Exercises int          `json:"exercises"`
	Sets      int          `json:"sets"`
	Days      []DaySummary `json:"days"`
}

// ParseMonth validates a YYYY-MM month key.
func ParseMonth(month string) (string, error) {
	month = strings.TrimSpace(month)
	if _, err := time.Parse("2006-01", month); err != nil {
		return "", fmt.Errorf("models: invalid month %q: %w", month, ErrInvalidInput)
	}
	return month, nil
}

// WorkoutsInMonth returns the workouts dated within month (YYYY-MM).
func WorkoutsInMonth(workouts []Workout, month string) []Workout {
	var out []Workout
	for _, w := range workouts {
		if strings.HasPrefix(DateOnly(w.Date), month+"-") {
			out = append(out, w)
		}
	}
	return out
}

// SummarizeMonth counts workouts, exercises and sets in month, with a
// per-day breakdown in date order.
func SummarizeMonth(workouts []Workout, month string) MonthSummary {
	in := WorkoutsInMonth(workouts, month)
	ms := MonthSummary{Month: month, Workouts: len(in), Days: []DaySummary{}}

	perDay := map[string]int{}
	for i := range in {
		ms.Exercises += TotalExercises(&in[i])
		ms.Sets += TotalSets(&in[i])
		perDay[DateOnly(in[i].Date)]++
	}
	for d, n := range perDay {
		ms.Days = append(ms.Days, DaySummary{Date: d, Workouts: n})
	}
	sort.Slice(ms.Days, func(i, j int) bool { return ms.Days[i].Date < ms.Days[j].Date })
	return ms
}
