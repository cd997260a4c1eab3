// Package importers converts workout exports from other tracking apps
// (Strong, Hevy) into Stacked workouts.
package importers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/carpenike/stacked/internal/models"
)

// Format identifies the source format of an import file.
type Format string

const (
	FormatStackedJSON Format = "stacked_json"
	FormatStrongCSV   Format = "strong_csv"
	FormatHevyCSV     Format = "hevy_csv"
)

// DefaultWorkoutName is used when a source row carries no workout title.
const DefaultWorkoutName = "Imported workout"

// ParsedFile is the output of a CSV parser.
type ParsedFile struct {
	Format   Format
	Workouts []models.Workout
	// Skipped counts rows without a date or exercise name.
	Skipped int
}

// DetectFormat guesses the import format from file content.
// It returns FormatStackedJSON for JSON, and attempts to identify
// Strong vs Hevy CSV from headers. Returns empty string if unknown.
func DetectFormat(data []byte) Format {
	trimmed := trimBOM(data)
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")

	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatStackedJSON
	}

	firstLine := firstLineOf(trimmed)
	if containsAll(firstLine, "Exercise Name", "Set Order", "Weight", "Reps") {
		return FormatStrongCSV
	}
	if containsAll(firstLine, "exercise_title", "set_index", "reps") &&
		(strings.Contains(firstLine, hevyColWeightLbs) || strings.Contains(firstLine, hevyColWeightKg)) {
		return FormatHevyCSV
	}

	return ""
}

// ParseCSV detects the CSV flavour of data and parses it. Strong exports
// carry no unit, so their weights are read as unit.
func ParseCSV(data []byte, unit models.WeightUnit) (*ParsedFile, error) {
	switch DetectFormat(data) {
	case FormatStrongCSV:
		return ParseStrongCSV(bytes.NewReader(trimBOM(data)), unit)
	case FormatHevyCSV:
		return ParseHevyCSV(bytes.NewReader(trimBOM(data)))
	case FormatStackedJSON:
		return nil, fmt.Errorf("importers: %w: file is a Stacked backup, not a CSV export", models.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("importers: %w: unrecognised file format", models.ErrInvalidInput)
	}
}

func trimBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

func firstLineOf(data []byte) string {
	for i, b := range data {
		if b == '\n' || b == '\r' {
			return string(data[:i])
		}
	}
	return string(data)
}

func containsAll(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// builder groups parsed rows into workouts keyed by date and title, and
// into blocks keyed by a per-format group key.
type builder struct {
	order    []string
	workouts map[string]*models.Workout
	blocks   map[string]map[string]int
}

func newBuilder() *builder {
	return &builder{
		workouts: make(map[string]*models.Workout),
		blocks:   make(map[string]map[string]int),
	}
}

// workout returns the workout for date and name, creating it on first use.
func (b *builder) workout(date, name string) (*models.Workout, string) {
	if name == "" {
		name = DefaultWorkoutName
	}
	key := date + "\x00" + name
	w, ok := b.workouts[key]
	if !ok {
		w = &models.Workout{ID: models.NewID(), Name: name, Date: date, Blocks: []models.ExerciseBlock{}}
		b.workouts[key] = w
		b.blocks[key] = make(map[string]int)
		b.order = append(b.order, key)
	}
	return w, key
}

// addSet appends a set to exercise name inside the block identified by
// group. Blocks are supersets when superset is true.
func (b *builder) addSet(w *models.Workout, key, group string, superset bool, name string, unit models.WeightUnit, set models.Set) {
	bi, ok := b.blocks[key][group]
	if !ok {
		typ := models.BlockSingle
		if superset {
			typ = models.BlockSuperset
		}
		w.Blocks = append(w.Blocks, models.ExerciseBlock{ID: models.NewID(), Type: typ, Exercises: []models.Exercise{}})
		bi = len(w.Blocks) - 1
		b.blocks[key][group] = bi
	}
	block := &w.Blocks[bi]

	ei := -1
	for i := range block.Exercises {
		if block.Exercises[i].Name == name {
			ei = i
			break
		}
	}
	if ei < 0 {
		block.Exercises = append(block.Exercises, models.Exercise{ID: models.NewID(), Name: name, WeightUnit: unit, Sets: []models.Set{}})
		ei = len(block.Exercises) - 1
	}
	set.ID = models.NewID()
	block.Exercises[ei].Sets = append(block.Exercises[ei].Sets, set)
}

// finish returns the workouts in first-seen order. A superset group that
// only ever saw one exercise becomes a single block.
func (b *builder) finish() []models.Workout {
	out := make([]models.Workout, 0, len(b.order))
	for _, key := range b.order {
		w := b.workouts[key]
		for i := range w.Blocks {
			if w.Blocks[i].Type == models.BlockSuperset && len(w.Blocks[i].Exercises) < 2 {
				w.Blocks[i].Type = models.BlockSingle
			}
		}
		out = append(out, *w)
	}
	return out
}
