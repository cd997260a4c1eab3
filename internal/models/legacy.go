package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecordShape identifies which persisted shape a workout record was stored in.
type RecordShape int

const (
	// ShapeMalformed records carry neither blocks nor exercises.
	ShapeMalformed RecordShape = iota
	// ShapeCanonical records carry blocks.
	ShapeCanonical
	// ShapeLegacy records carry a flat exercises list from before supersets existed.
	ShapeLegacy
)

func (s RecordShape) String() string {
	switch s {
	case ShapeCanonical:
		return "canonical"
	case ShapeLegacy:
		return "legacy"
	}
	return "malformed"
}

// StoredWorkout is a workout record as found in persisted or imported data,
// in any of the shapes the app has ever written. Upcast turns it into a Workout.
type StoredWorkout struct {
	ID        string
	Name      string
	Date      string
	Notes     string
	Blocks    []ExerciseBlock // set when Shape == ShapeCanonical
	Exercises []Exercise      // set when Shape == ShapeLegacy
	Shape     RecordShape
}

// UnmarshalJSON detects the record shape. Blocks win over exercises so an
// already migrated record is never migrated twice.
func (s *StoredWorkout) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Date      string          `json:"date"`
		Notes     *string         `json:"notes"`
		Blocks    json.RawMessage `json:"blocks"`
		Exercises json.RawMessage `json:"exercises"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*s = StoredWorkout{ID: aux.ID, Name: aux.Name, Date: aux.Date}
	if aux.Notes != nil {
		s.Notes = *aux.Notes
	}

	switch {
	case present(aux.Blocks):
		if err := json.Unmarshal(aux.Blocks, &s.Blocks); err != nil {
			return fmt.Errorf("workout %q blocks: %w", aux.ID, err)
		}
		s.Shape = ShapeCanonical
	case present(aux.Exercises):
		if err := json.Unmarshal(aux.Exercises, &s.Exercises); err != nil {
			return fmt.Errorf("workout %q exercises: %w", aux.ID, err)
		}
		s.Shape = ShapeLegacy
	default:
		s.Shape = ShapeMalformed
	}
	return nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// LegacyBlockID is the id given to the single block wrapping a legacy exercise.
func LegacyBlockID(exerciseID string) string {
	return exerciseID + "_block"
}

// Upcast returns the canonical workout for s. Canonical records pass through
// unchanged, legacy exercises each become a single block in the same order,
// and malformed records yield a workout with no blocks.
func (s StoredWorkout) Upcast() Workout {
	w := Workout{ID: s.ID, Name: s.Name, Date: s.Date, Notes: s.Notes}
	switch s.Shape {
	case ShapeCanonical:
		w.Blocks = s.Blocks
	case ShapeLegacy:
		w.Blocks = make([]ExerciseBlock, 0, len(s.Exercises))
		for _, e := range s.Exercises {
			w.Blocks = append(w.Blocks, ExerciseBlock{
				ID:        LegacyBlockID(e.ID),
				Type:      BlockSingle,
				Exercises: []Exercise{e},
			})
		}
	default:
		w.Blocks = []ExerciseBlock{}
	}
	return w
}

// NormalizeWorkouts upcasts every record, preserving order.
func NormalizeWorkouts(records []StoredWorkout) []Workout {
	out := make([]Workout, 0, len(records))
	for _, r := range records {
		out = append(out, r.Upcast())
	}
	return out
}

// DecodeStoredWorkouts parses a JSON array of stored workouts one element at
// a time. An element that cannot be decoded becomes a malformed record that
// keeps whatever id, name, date and notes are readable; the returned errs
// hold one entry per such element. Only an unreadable array is an error.
func DecodeStoredWorkouts(data []byte) (records []StoredWorkout, errs []error, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, nil, fmt.Errorf("models: decode workouts: %w", err)
	}
	records = make([]StoredWorkout, len(elems))
	for i, el := range elems {
		if err := json.Unmarshal(el, &records[i]); err != nil {
			records[i] = salvageRecord(el)
			errs = append(errs, fmt.Errorf("record %d (id %q): %w", i, records[i].ID, err))
		}
	}
	return records, errs, nil
}

// salvageRecord reads the scalar fields of a record whose body is unreadable.
func salvageRecord(data []byte) StoredWorkout {
	s := StoredWorkout{Shape: ShapeMalformed}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) != nil {
		return s
	}
	str := func(key string) string {
		var v string
		json.Unmarshal(fields[key], &v)
		return v
	}
	s.ID, s.Name, s.Date, s.Notes = str("id"), str("name"), str("date"), str("notes")
	return s
}

// DecodeWorkouts parses a JSON array of stored workouts and normalizes it.
// It also reports how many records were in the legacy shape, so the caller
// can decide whether to persist the migrated form. Unlike
// DecodeStoredWorkouts it rejects the whole array when any element is
// unreadable, which is what an import wants.
func DecodeWorkouts(data []byte) ([]Workout, int, error) {
	records, errs, err := DecodeStoredWorkouts(data)
	if err != nil {
		return nil, 0, err
	}
	if len(errs) > 0 {
		return nil, 0, fmt.Errorf("models: decode workouts: %w", errs[0])
	}
	return NormalizeWorkouts(records), CountLegacy(records), nil
}

// CountLegacy reports how many records are in the legacy shape.
func CountLegacy(records []StoredWorkout) int {
	n := 0
	for _, r := range records {
		if r.Shape == ShapeLegacy {
			n++
		}
	}
	return n
}
