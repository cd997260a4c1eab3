package models

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateWorkout(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *Workout)
		wantMsg string
	}{
		{"valid", func(w *Workout) {}, ""},
		{"empty name", func(w *Workout) { w.Name = "  " }, "please enter a workout name"},
		{"no exercises", func(w *Workout) { w.Blocks = nil }, "please add at least one exercise"},
		{"unnamed exercise", func(w *Workout) { w.Blocks[1].Exercises[1].Name = "" }, "please name all exercises"},
		{"bad date", func(w *Workout) { w.Date = "20/01/2024" }, "invalid date"},
		{"negative reps", func(w *Workout) { w.Blocks[0].Exercises[0].Sets[0].Reps = -1 }, "reps must not be negative"},
		{"negative weight", func(w *Workout) { w.Blocks[0].Exercises[0].Sets[0].Weight = -5 }, "non-negative"},
		{"bad unit", func(w *Workout) { w.Blocks[0].Exercises[0].WeightUnit = "stone" }, "invalid weight unit"},
		{"single with two", func(w *Workout) { w.Blocks[1].Type = BlockSingle }, "is single"},
		{"superset with one", func(w *Workout) { w.Blocks[0].Type = BlockSuperset }, "at least two"},
		{"duplicate block id", func(w *Workout) { w.Blocks[1].ID = "b1" }, "duplicate block id"},
		{"duplicate set id", func(w *Workout) { w.Blocks[0].Exercises[0].Sets[1].ID = "s1" }, "duplicate set id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := pushDay()
			tt.mutate(&w)
			err := ValidateWorkout(&w)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			if !strings.Contains(UserMessage(err), tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", UserMessage(err), tt.wantMsg)
			}
		})
	}
}

func TestPrepareWorkout(t *testing.T) {
	w := Workout{
		Name:  "  Evening  ",
		Date:  "2024-05-06T19:00:00Z",
		Notes: " tired ",
		Blocks: []ExerciseBlock{
			{Exercises: []Exercise{{Name: " Squat ", Sets: []Set{{Reps: 5, Weight: 60}}}}},
			{Exercises: []Exercise{{Name: "Dip"}, {Name: "Chin-up"}}},
		},
	}
	PrepareWorkout(&w, Pounds)

	if w.ID == "" {
		t.Error("workout id not minted")
	}
	if w.Name != "Evening" || w.Notes != "tired" || w.Date != "2024-05-06" {
		t.Errorf("name/notes/date = %q/%q/%q", w.Name, w.Notes, w.Date)
	}
	if w.Blocks[0].Type != BlockSingle || w.Blocks[1].Type != BlockSuperset {
		t.Errorf("block types = %q, %q", w.Blocks[0].Type, w.Blocks[1].Type)
	}
	e := w.Blocks[0].Exercises[0]
	if e.ID == "" || e.Sets[0].ID == "" || w.Blocks[0].ID == "" {
		t.Error("nested ids not minted")
	}
	if e.Name != "Squat" || e.WeightUnit != Pounds {
		t.Errorf("exercise = %+v", e)
	}
	if w.Blocks[1].Exercises[0].Sets == nil {
		t.Error("sets should be non-nil")
	}
	if err := ValidateWorkout(&w); err != nil {
		t.Errorf("prepared workout invalid: %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ValidateWorkout(&Workout{}), "please enter a workout name"},
		{func() error { _, err := ParseWeightUnit("stone"); return err }(), `invalid weight unit "stone"`},
		{func() error { _, err := ParseMonth("2024-13"); return err }(), `invalid month "2024-13"`},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
