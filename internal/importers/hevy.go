package importers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carpenike/stacked/internal/models"
)

// Hevy CSV columns.
const (
	hevyColTitle           = "title"
	hevyColStartTime       = "start_time"
	hevyColDescription     = "description"
	hevyColExerciseTitle   = "exercise_title"
	hevyColSupersetID      = "superset_id"
	hevyColWeightLbs       = "weight_lbs"
	hevyColWeightKg        = "weight_kg"
	hevyColReps            = "reps"
	hevyColDurationSeconds = "duration_seconds"
)

// ParseHevyCSV parses workout data from a Hevy app CSV export. Exercises
// sharing a superset_id within a workout become one superset block. The
// weight column present (weight_kg or weight_lbs) sets the exercise unit.
func ParseHevyCSV(r io.Reader) (*ParsedFile, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importers: %w: read hevy csv: %v", models.ErrInvalidInput, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("importers: %w: hevy csv has no data rows", models.ErrInvalidInput)
	}

	idx := headerIndex(records[0])
	for _, required := range []string{hevyColStartTime, hevyColExerciseTitle} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("importers: %w: hevy csv missing required column %q", models.ErrInvalidInput, required)
		}
	}

	unit, weightCol := models.Pounds, hevyColWeightLbs
	if _, ok := idx[hevyColWeightKg]; ok {
		unit, weightCol = models.Kilograms, hevyColWeightKg
	}

	pf := &ParsedFile{Format: FormatHevyCSV}
	b := newBuilder()

	for _, row := range records[1:] {
		startTime := colVal(row, idx, hevyColStartTime)
		exerciseName := colVal(row, idx, hevyColExerciseTitle)
		if startTime == "" || exerciseName == "" {
			pf.Skipped++
			continue
		}

		w, key := b.workout(parseStrongDate(startTime), colVal(row, idx, hevyColTitle))
		if w.Notes == "" {
			w.Notes = colVal(row, idx, hevyColDescription)
		}

		set := models.Set{
			Reps:   parseInt(colVal(row, idx, hevyColReps)),
			Weight: parseWeight(colVal(row, idx, weightCol)),
		}
		if set.Reps == 0 {
			set.Reps = parseInt(colVal(row, idx, hevyColDurationSeconds))
		}

		group, superset := exerciseName, false
		if ss := colVal(row, idx, hevyColSupersetID); ss != "" {
			group, superset = "superset:"+ss, true
		}
		b.addSet(w, key, group, superset, exerciseName, unit, set)
	}

	pf.Workouts = b.finish()
	return pf, nil
}
