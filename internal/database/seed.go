package database

import _ "embed"

//go:embed sample-workouts.json
var sampleWorkouts []byte

// SampleData returns the embedded sample workouts JSON, a list of canonical
// workouts used to populate an empty store on first run.
func SampleData() []byte {
	return sampleWorkouts
}
