package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/carpenike/stacked/internal/models"
)

// Strong CSV columns (as exported by the Strong app).
// Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps,Distance,Seconds,Notes,Workout Notes,RPE
const (
	strongColDate         = "Date"
	strongColWorkoutName  = "Workout Name"
	strongColExerciseName = "Exercise Name"
	strongColSetOrder     = "Set Order"
	strongColWeight       = "Weight"
	strongColReps         = "Reps"
	strongColSeconds      = "Seconds"
	strongColWorkoutNotes = "Workout Notes"
)

// ParseStrongCSV parses workout data from a Strong app CSV export. Strong
// does not record the unit, so every weight is taken to be in unit.
// Each exercise becomes its own single block.
func ParseStrongCSV(r io.Reader, unit models.WeightUnit) (*ParsedFile, error) {
	if !unit.Valid() {
		unit = models.DefaultWeightUnit
	}

	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importers: %w: read strong csv: %v", models.ErrInvalidInput, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("importers: %w: strong csv has no data rows", models.ErrInvalidInput)
	}

	idx := headerIndex(records[0])
	for _, required := range []string{strongColDate, strongColExerciseName} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("importers: %w: strong csv missing required column %q", models.ErrInvalidInput, required)
		}
	}

	pf := &ParsedFile{Format: FormatStrongCSV}
	b := newBuilder()

	for _, row := range records[1:] {
		dateStr := colVal(row, idx, strongColDate)
		exerciseName := colVal(row, idx, strongColExerciseName)
		if dateStr == "" || exerciseName == "" {
			pf.Skipped++
			continue
		}
		// Newer exports interleave rest timer rows with the sets.
		if strings.EqualFold(colVal(row, idx, strongColSetOrder), "Rest Timer") {
			continue
		}

		w, key := b.workout(parseStrongDate(dateStr), colVal(row, idx, strongColWorkoutName))
		if w.Notes == "" {
			w.Notes = colVal(row, idx, strongColWorkoutNotes)
		}

		set := models.Set{
			Reps:   parseInt(colVal(row, idx, strongColReps)),
			Weight: parseWeight(colVal(row, idx, strongColWeight)),
		}
		// Duration-based exercises: if reps is 0 but seconds has a value.
		if set.Reps == 0 {
			set.Reps = parseInt(colVal(row, idx, strongColSeconds))
		}

		b.addSet(w, key, exerciseName, false, exerciseName, unit, set)
	}

	pf.Workouts = b.finish()
	return pf, nil
}

// parseStrongDate parses the date formats commonly seen in Strong exports.
// Strong uses formats like "2026-02-15 14:30:00" or "2026 Feb 15".
func parseStrongDate(s string) string {
	s = strings.TrimSpace(s)

	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006 Jan 02",
		"2006 Jan 2",
		"Jan 2, 2006",
		"01/02/2006",
		"2 Jan 2006, 15:04",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// Fallback: return first 10 characters if they look like a date.
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}
	return idx
}

// colVal safely gets a column value from a CSV row.
func colVal(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseInt reads a non-negative integer, tolerating "5.0".
func parseInt(v string) int {
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

// parseWeight reads a non-negative weight; blanks and garbage are 0.
func parseWeight(v string) float64 {
	if v == "" {
		return 0
	}
	w, err := strconv.ParseFloat(v, 64)
	if err != nil || w < 0 {
		return 0
	}
	return w
}
