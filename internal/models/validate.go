package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// PrepareWorkout tidies a workout submitted for saving: it trims names and
// notes, reduces the date to YYYY-MM-DD, defaults missing units and block
// types, and mints IDs for anything that lacks one.
func PrepareWorkout(w *Workout, defaultUnit WeightUnit) {
	if !defaultUnit.Valid() {
		defaultUnit = DefaultWeightUnit
	}
	if w.ID == "" {
		w.ID = NewID()
	}
	w.Name = strings.TrimSpace(w.Name)
	w.Notes = strings.TrimSpace(w.Notes)
	w.Date = DateOnly(w.Date)
	if w.Blocks == nil {
		w.Blocks = []ExerciseBlock{}
	}

	for i := range w.Blocks {
		b := &w.Blocks[i]
		if b.ID == "" {
			b.ID = NewID()
		}
		if b.Type == "" {
			b.Type = BlockSingle
			if len(b.Exercises) > 1 {
				b.Type = BlockSuperset
			}
		}
		for j := range b.Exercises {
			e := &b.Exercises[j]
			if e.ID == "" {
				e.ID = NewID()
			}
			e.Name = strings.TrimSpace(e.Name)
			if e.WeightUnit == "" {
				e.WeightUnit = defaultUnit
			}
			if e.Sets == nil {
				e.Sets = []Set{}
			}
			for k := range e.Sets {
				if e.Sets[k].ID == "" {
					e.Sets[k].ID = NewID()
				}
			}
		}
	}
}

// ValidateWorkout checks a workout before it is saved. All failures wrap
// ErrInvalidInput and carry a message fit to show the user.
func ValidateWorkout(w *Workout) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("models: %w: please enter a workout name", ErrInvalidInput)
	}
	if !ValidDate(w.Date) {
		return fmt.Errorf("models: %w: invalid date %q", ErrInvalidInput, w.Date)
	}
	if TotalExercises(w) == 0 {
		return fmt.Errorf("models: %w: please add at least one exercise", ErrInvalidInput)
	}

	blockIDs := map[string]bool{}
	for bi, b := range w.Blocks {
		if blockIDs[b.ID] {
			return fmt.Errorf("models: %w: duplicate block id %q", ErrInvalidInput, b.ID)
		}
		blockIDs[b.ID] = true

		switch b.Type {
		case BlockSingle:
			if len(b.Exercises) != 1 {
				return fmt.Errorf("models: %w: block %d is single but has %d exercises", ErrInvalidInput, bi+1, len(b.Exercises))
			}
		case BlockSuperset:
			if len(b.Exercises) < 2 {
				return fmt.Errorf("models: %w: superset in block %d needs at least two exercises", ErrInvalidInput, bi+1)
			}
		default:
			return fmt.Errorf("models: %w: unknown block type %q", ErrInvalidInput, b.Type)
		}

		exerciseIDs := map[string]bool{}
		for _, e := range b.Exercises {
			if strings.TrimSpace(e.Name) == "" {
				return fmt.Errorf("models: %w: please name all exercises", ErrInvalidInput)
			}
			if exerciseIDs[e.ID] {
				return fmt.Errorf("models: %w: duplicate exercise id %q", ErrInvalidInput, e.ID)
			}
			exerciseIDs[e.ID] = true
			if !e.WeightUnit.Valid() {
				return fmt.Errorf("models: %w: exercise %q has invalid weight unit %q", ErrInvalidInput, e.Name, e.WeightUnit)
			}

			setIDs := map[string]bool{}
			for _, s := range e.Sets {
				if setIDs[s.ID] {
					return fmt.Errorf("models: %w: duplicate set id %q in %q", ErrInvalidInput, s.ID, e.Name)
				}
				setIDs[s.ID] = true
				if s.Reps < 0 {
					return fmt.Errorf("models: %w: reps must not be negative (%q)", ErrInvalidInput, e.Name)
				}
				if s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
					return fmt.Errorf("models: %w: weight must be a non-negative number (%q)", ErrInvalidInput, e.Name)
				}
			}
		}
	}
	return nil
}

// UserMessage strips package prefixes and the sentinel text from a
// validation error, leaving the part meant for the user.
func UserMessage(err error) string {
	msg := err.Error()
	sentinel := ErrInvalidInput.Error()
	if i := strings.LastIndex(msg, sentinel+": "); i >= 0 {
		return msg[i+len(sentinel)+2:]
	}
	msg = strings.TrimSuffix(msg, ": "+sentinel)
	for {
		i := strings.Index(msg, ": ")
		if i <= 0 || strings.ContainsAny(msg[:i], " \"") {
			return msg
		}
		msg = msg[i+2:]
	}
}
