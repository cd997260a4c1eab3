package models

import (
	"errors"
	"testing"
)

func TestMoveBlock(t *testing.T) {
	w := pushDay()
	if err := MoveBlock(&w, 1, -1); err != nil {
		t.Fatalf("move up: %v", err)
	}
	if w.Blocks[0].ID != "b2" || w.Blocks[1].ID != "b1" {
		t.Errorf("order after move up = %s,%s", w.Blocks[0].ID, w.Blocks[1].ID)
	}
	if err := MoveBlock(&w, 0, 1); err != nil {
		t.Fatalf("move down: %v", err)
	}
	if w.Blocks[0].ID != "b1" {
		t.Errorf("order after move down = %s", w.Blocks[0].ID)
	}

	for _, tc := range []struct{ index, delta int }{{0, -1}, {1, 1}, {5, 1}, {0, 2}} {
		if err := MoveBlock(&w, tc.index, tc.delta); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("MoveBlock(%d, %d) err = %v, want ErrInvalidInput", tc.index, tc.delta, err)
		}
	}
}

func TestMergeAndSplitSuperset(t *testing.T) {
	w := pushDay()
	if err := SplitSuperset(&w, 1); err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(w.Blocks) != 3 {
		t.Fatalf("blocks after split = %d, want 3", len(w.Blocks))
	}
	if w.Blocks[1].ID != "b2" || w.Blocks[2].ID != "e3_block" || w.Blocks[2].Type != BlockSingle {
		t.Errorf("split blocks = %+v", w.Blocks[1:])
	}

	if err := MergeSuperset(&w, 1); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(w.Blocks) != 2 || w.Blocks[1].Type != BlockSuperset || len(w.Blocks[1].Exercises) != 2 {
		t.Errorf("blocks after merge = %+v", w.Blocks)
	}
	if err := ValidateWorkout(&w); err != nil {
		t.Errorf("merged workout invalid: %v", err)
	}

	if err := SplitSuperset(&w, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("split single block err = %v, want ErrInvalidInput", err)
	}
	if err := MergeSuperset(&w, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("merge last block err = %v, want ErrInvalidInput", err)
	}
}

func TestMergeAndSplitKeepIDsUnique(t *testing.T) {
	w := Workout{ID: "w", Name: "W", Date: "2024-01-01", Blocks: []ExerciseBlock{
		{ID: "b1", Type: BlockSingle, Exercises: []Exercise{{ID: "e1", Name: "Squat", WeightUnit: Kilograms, Sets: []Set{}}}},
		{ID: "b2", Type: BlockSingle, Exercises: []Exercise{{ID: "e1", Name: "Lunge", WeightUnit: Kilograms, Sets: []Set{}}}},
		{ID: "e1_block", Type: BlockSingle, Exercises: []Exercise{{ID: "e9", Name: "Calf Raise", WeightUnit: Kilograms, Sets: []Set{}}}},
	}}
	if err := ValidateWorkout(&w); err != nil {
		t.Fatalf("starting workout invalid: %v", err)
	}

	if err := MergeSuperset(&w, 0); err != nil {
		t.Fatalf("merge: %v", err)
	}
	merged := w.Blocks[0].Exercises
	if merged[0].ID != "e1" || merged[1].ID == "e1" || merged[1].ID == "" {
		t.Errorf("merged exercise ids = %q, %q", merged[0].ID, merged[1].ID)
	}
	if err := ValidateWorkout(&w); err != nil {
		t.Errorf("merged workout invalid: %v", err)
	}

	// Give the second exercise an id whose block id is already taken.
	w.Blocks[0].Exercises[1].ID = "e1"
	w.Blocks[0].Exercises[0].ID = "e0"
	if err := SplitSuperset(&w, 0); err != nil {
		t.Fatalf("split: %v", err)
	}
	if w.Blocks[1].ID == "e1_block" || w.Blocks[1].ID == "" {
		t.Errorf("split block id = %q, want a fresh id", w.Blocks[1].ID)
	}
	if err := ValidateWorkout(&w); err != nil {
		t.Errorf("split workout invalid: %v", err)
	}
}

func TestDuplicateWorkout(t *testing.T) {
	orig := pushDay()
	dup := DuplicateWorkout(orig, "2024-02-01")

	if dup.ID == orig.ID {
		t.Error("workout id not regenerated")
	}
	if dup.Date != "2024-02-01" || dup.Name != orig.Name {
		t.Errorf("dup = %q %q", dup.Name, dup.Date)
	}

	seen := map[string]bool{}
	for _, b := range orig.Blocks {
		seen[b.ID] = true
		for _, e := range b.Exercises {
			seen[e.ID] = true
			for _, s := range e.Sets {
				seen[s.ID] = true
			}
		}
	}
	for _, b := range dup.Blocks {
		if seen[b.ID] {
			t.Errorf("block id %q reused", b.ID)
		}
		for _, e := range b.Exercises {
			if seen[e.ID] {
				t.Errorf("exercise id %q reused", e.ID)
			}
			for _, s := range e.Sets {
				if seen[s.ID] {
					t.Errorf("set id %q reused", s.ID)
				}
			}
		}
	}

	// Mutating the copy leaves the original alone.
	dup.Blocks[0].Exercises[0].Sets[0].Reps = 99
	if orig.Blocks[0].Exercises[0].Sets[0].Reps == 99 {
		t.Error("duplicate shares sets with original")
	}

	same := DuplicateWorkout(orig, "")
	if same.Date != orig.Date {
		t.Errorf("date = %q, want original %q", same.Date, orig.Date)
	}
}
