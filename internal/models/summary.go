package models

// WorkoutSummary holds the headline numbers shown for a workout.
type WorkoutSummary struct {
	Exercises int        `json:"exercises"`
	Sets      int        `json:"sets"`
	Volume    float64    `json:"volume"`
	Unit      WeightUnit `json:"unit"`
}

// TotalExercises counts exercises across all blocks.
func TotalExercises(w *Workout) int {
	n := 0
	for _, b := range w.Blocks {
		n += len(b.Exercises)
	}
	return n
}

// TotalSets counts sets across all exercises.
func TotalSets(w *Workout) int {
	n := 0
	for _, b := range w.Blocks {
		for _, e := range b.Exercises {
			n += len(e.Sets)
		}
	}
	return n
}

// TotalVolume sums weight × reps over every set, in displayUnit. Each set is
// brought to kilograms using its exercise's own unit and the total is
// converted once at the end.
func TotalVolume(w *Workout, displayUnit WeightUnit) float64 {
	var kg float64
	for _, b := range w.Blocks {
		for _, e := range b.Exercises {
			for _, s := range e.Sets {
				kg += ToKg(s.Weight, e.WeightUnit) * float64(s.Reps)
			}
		}
	}
	return FromKg(kg, displayUnit)
}

// Summarize computes the workout totals in unit.
func Summarize(w *Workout, unit WeightUnit) WorkoutSummary {
	return WorkoutSummary{
		Exercises: TotalExercises(w),
		Sets:      TotalSets(w),
		Volume:    TotalVolume(w, unit),
		Unit:      unit,
	}
}
