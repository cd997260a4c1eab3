package models

// BlockType distinguishes a lone exercise from a superset.
type BlockType string

// Block types.
const (
	BlockSingle   BlockType = "single"
	BlockSuperset BlockType = "superset"
)

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	return t == BlockSingle || t == BlockSuperset
}

// Set is one performed set of an exercise.
type Set struct {
	ID     string  `json:"id"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Exercise is a named movement with its sets, recorded in one weight unit.
type Exercise struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	WeightUnit WeightUnit `json:"weightUnit"`
	Sets       []Set      `json:"sets"`
}

// ExerciseBlock groups exercises performed together. A single block holds
// exactly one exercise; a superset holds two or more done back to back.
type ExerciseBlock struct {
	ID        string     `json:"id"`
	Type      BlockType  `json:"type"`
	Exercises []Exercise `json:"exercises"`
}

// Workout is a dated training session. Block, exercise and set order is
// display order and is preserved everywhere.
type Workout struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Date   string          `json:"date"`
	Blocks []ExerciseBlock `json:"blocks"`
	Notes  string          `json:"notes,omitempty"`
}

// Exercises returns every exercise of w in display order, flattened across blocks.
func (w *Workout) Exercises() []Exercise {
	var out []Exercise
	for _, b := range w.Blocks {
		out = append(out, b.Exercises...)
	}
	return out
}

// Day returns the workout's calendar date without any time suffix.
func (w *Workout) Day() string {
	return DateOnly(w.Date)
}

// Clone returns a deep copy of w.
func (w Workout) Clone() Workout {
	out := w
	out.Blocks = make([]ExerciseBlock, len(w.Blocks))
	for i, b := range w.Blocks {
		nb := b
		nb.Exercises = make([]Exercise, len(b.Exercises))
		for j, e := range b.Exercises {
			ne := e
			ne.Sets = append([]Set(nil), e.Sets...)
			if ne.Sets == nil {
				ne.Sets = []Set{}
			}
			nb.Exercises[j] = ne
		}
		out.Blocks[i] = nb
	}
	return out
}
