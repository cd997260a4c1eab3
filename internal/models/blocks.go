package models

import "fmt"

// MoveBlock swaps the block at index with its neighbour: delta -1 moves it
// up, +1 moves it down.
func MoveBlock(w *Workout, index, delta int) error {
	if delta != -1 && delta != 1 {
		return fmt.Errorf("models: move block: %w: delta must be -1 or 1", ErrInvalidInput)
	}
	to := index + delta
	if index < 0 || index >= len(w.Blocks) || to < 0 || to >= len(w.Blocks) {
		return fmt.Errorf("models: move block %d by %d: %w: out of range", index, delta, ErrInvalidInput)
	}
	w.Blocks[index], w.Blocks[to] = w.Blocks[to], w.Blocks[index]
	return nil
}

// MergeSuperset folds the block after index into the block at index, which
// becomes a superset. A moved exercise whose id is already used in the
// target block gets a fresh one.
func MergeSuperset(w *Workout, index int) error {
	if index < 0 || index+1 >= len(w.Blocks) {
		return fmt.Errorf("models: merge superset at %d: %w: out of range", index, ErrInvalidInput)
	}
	taken := map[string]bool{}
	for _, e := range w.Blocks[index].Exercises {
		taken[e.ID] = true
	}
	for _, e := range w.Blocks[index+1].Exercises {
		if taken[e.ID] {
			e.ID = NewID()
		}
		taken[e.ID] = true
		w.Blocks[index].Exercises = append(w.Blocks[index].Exercises, e)
	}
	w.Blocks[index].Type = BlockSuperset
	w.Blocks = append(w.Blocks[:index+1], w.Blocks[index+2:]...)
	return nil
}

// SplitSuperset breaks the superset at index into single blocks in place.
// The first exercise keeps the superset's block id; the others get
// LegacyBlockID ids, or fresh ones where that id is already in use.
func SplitSuperset(w *Workout, index int) error {
	if index < 0 || index >= len(w.Blocks) {
		return fmt.Errorf("models: split superset at %d: %w: out of range", index, ErrInvalidInput)
	}
	b := w.Blocks[index]
	if b.Type != BlockSuperset {
		return fmt.Errorf("models: split block %d: %w: not a superset", index, ErrInvalidInput)
	}

	taken := map[string]bool{}
	for _, other := range w.Blocks {
		taken[other.ID] = true
	}
	singles := make([]ExerciseBlock, 0, len(b.Exercises))
	for i, e := range b.Exercises {
		id := b.ID
		if i > 0 {
			id = LegacyBlockID(e.ID)
			if taken[id] {
				id = NewID()
			}
			taken[id] = true
		}
		singles = append(singles, ExerciseBlock{ID: id, Type: BlockSingle, Exercises: []Exercise{e}})
	}

	blocks := make([]ExerciseBlock, 0, len(w.Blocks)-1+len(singles))
	blocks = append(blocks, w.Blocks[:index]...)
	blocks = append(blocks, singles...)
	blocks = append(blocks, w.Blocks[index+1:]...)
	w.Blocks = blocks
	return nil
}

// DuplicateWorkout copies w with fresh IDs for the workout and every block,
// exercise and set, so the copy shares no identity with the original.
// A non-empty date replaces the original date.
func DuplicateWorkout(w Workout, date string) Workout {
	c := w.Clone()
	c.ID = NewID()
	if date != "" {
		c.Date = DateOnly(date)
	}
	for i := range c.Blocks {
		c.Blocks[i].ID = NewID()
		for j := range c.Blocks[i].Exercises {
			e := &c.Blocks[i].Exercises[j]
			e.ID = NewID()
			for k := range e.Sets {
				e.Sets[k].ID = NewID()
			}
		}
	}
	return c
}
