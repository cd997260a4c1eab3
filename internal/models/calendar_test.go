package models

import (
	"errors"
	"testing"
)

func TestSummarizeMonth(t *testing.T) {
	ws := []Workout{
		pushDay(), // 2024-01-20, 3 exercises, 4 sets
		{ID: "w2", Name: "Legs", Date: "2024-01-20", Blocks: []ExerciseBlock{
			{ID: "b", Type: BlockSingle, Exercises: []Exercise{{ID: "e", Name: "Squat", Sets: []Set{{ID: "s"}}}}},
		}},
		{ID: "w3", Name: "Pull", Date: "2024-01-05", Blocks: []ExerciseBlock{}},
		{ID: "w4", Name: "Feb", Date: "2024-02-01", Blocks: []ExerciseBlock{}},
		{ID: "w5", Name: "Last year", Date: "2023-01-20", Blocks: []ExerciseBlock{}},
	}

	ms := SummarizeMonth(ws, "2024-01")
	if ms.Workouts != 3 {
		t.Errorf("workouts = %d, want 3", ms.Workouts)
	}
	if ms.Exercises != 4 {
		t.Errorf("exercises = %d, want 4", ms.Exercises)
	}
	if ms.Sets != 5 {
		t.Errorf("sets = %d, want 5", ms.Sets)
	}
	if len(ms.Days) != 2 {
		t.Fatalf("days = %+v, want 2 entries", ms.Days)
	}
	if ms.Days[0] != (DaySummary{Date: "2024-01-05", Workouts: 1}) || ms.Days[1] != (DaySummary{Date: "2024-01-20", Workouts: 2}) {
		t.Errorf("days = %+v", ms.Days)
	}

	empty := SummarizeMonth(ws, "2024-06")
	if empty.Workouts != 0 || empty.Days == nil {
		t.Errorf("empty month = %+v", empty)
	}
}

func TestParseMonth(t *testing.T) {
	if m, err := ParseMonth("2024-03"); err != nil || m != "2024-03" {
		t.Errorf("ParseMonth(2024-03) = %q, %v", m, err)
	}
	for _, bad := range []string{"2024-13", "2024", "March"} {
		if _, err := ParseMonth(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseMonth(%q) err = %v, want ErrInvalidInput", bad, err)
		}
	}
}
