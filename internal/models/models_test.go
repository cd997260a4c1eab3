package models

import "math"

// pushDay returns a two-block workout used across tests: a single bench
// press block and a row + curl superset.
func pushDay() Workout {
	return Workout{
		ID:   "w1",
		Name: "Push Day",
		Date: "2024-01-20T00:00:00",
		Blocks: []ExerciseBlock{
			{ID: "b1", Type: BlockSingle, Exercises: []Exercise{
				{ID: "e1", Name: "Bench Press", WeightUnit: Kilograms, Sets: []Set{
					{ID: "s1", Reps: 5, Weight: 100},
					{ID: "s2", Reps: 3, Weight: 120},
				}},
			}},
			{ID: "b2", Type: BlockSuperset, Exercises: []Exercise{
				{ID: "e2", Name: "Cable Row", WeightUnit: Pounds, Sets: []Set{
					{ID: "s1", Reps: 10, Weight: 100},
				}},
				{ID: "e3", Name: "Curl", WeightUnit: Pounds, Sets: []Set{
					{ID: "s1", Reps: 12, Weight: 30},
				}},
			}},
		},
	}
}

func approxEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}
