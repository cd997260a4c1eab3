package importers

import (
	"errors"
	"strings"
	"testing"

	"github.com/carpenike/stacked/internal/models"
)

// --- DetectFormat tests ---

func TestDetectFormat_StackedJSON(t *testing.T) {
	data := []byte(`{"workouts": [], "version": "1.0"}`)
	if got := DetectFormat(data); got != FormatStackedJSON {
		t.Errorf("DetectFormat(json) = %q, want %q", got, FormatStackedJSON)
	}
}

func TestDetectFormat_StackedJSON_BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("\n  {\"workouts\": []}")...)
	if got := DetectFormat(data); got != FormatStackedJSON {
		t.Errorf("DetectFormat(json+BOM) = %q, want %q", got, FormatStackedJSON)
	}
}

func TestDetectFormat_StrongCSV(t *testing.T) {
	data := []byte("Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps,Distance,Seconds,Notes,Workout Notes,RPE\n")
	if got := DetectFormat(data); got != FormatStrongCSV {
		t.Errorf("DetectFormat(strong) = %q, want %q", got, FormatStrongCSV)
	}
}

func TestDetectFormat_HevyCSV(t *testing.T) {
	for _, weightCol := range []string{"weight_lbs", "weight_kg"} {
		data := []byte("title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type," + weightCol + ",reps,rpe,duration_seconds,distance_km\n")
		if got := DetectFormat(data); got != FormatHevyCSV {
			t.Errorf("DetectFormat(hevy %s) = %q, want %q", weightCol, got, FormatHevyCSV)
		}
	}
}

func TestDetectFormat_Unknown(t *testing.T) {
	if got := DetectFormat([]byte("some random text\n")); got != "" {
		t.Errorf("DetectFormat(unknown) = %q, want empty", got)
	}
}

// --- Strong CSV parser tests ---

const strongBasic = `Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps,Distance,Seconds,Notes,Workout Notes,RPE
2024-01-15 08:00:00,Morning,30m,Bench Press,1,135,5,,,,Felt strong,
2024-01-15 08:00:00,Morning,30m,Bench Press,2,155,5,,,,,
2024-01-15 08:00:00,Morning,30m,Squat,1,225,3,,,,,8
`

func TestParseStrongCSV_Basic(t *testing.T) {
	pf, err := ParseStrongCSV(strings.NewReader(strongBasic), models.Pounds)
	if err != nil {
		t.Fatalf("ParseStrongCSV: %v", err)
	}
	if pf.Format != FormatStrongCSV {
		t.Errorf("format = %q", pf.Format)
	}
	if len(pf.Workouts) != 1 {
		t.Fatalf("workouts = %d, want 1", len(pf.Workouts))
	}

	w := pf.Workouts[0]
	if w.Name != "Morning" || w.Date != "2024-01-15" || w.Notes != "Felt strong" {
		t.Errorf("workout = %q %q %q", w.Name, w.Date, w.Notes)
	}
	if w.ID == "" {
		t.Error("workout has no id")
	}
	if len(w.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(w.Blocks))
	}
	for _, b := range w.Blocks {
		if b.Type != models.BlockSingle || len(b.Exercises) != 1 {
			t.Errorf("block %+v is not a single", b)
		}
	}

	bench := w.Blocks[0].Exercises[0]
	if bench.Name != "Bench Press" || bench.WeightUnit != models.Pounds || len(bench.Sets) != 2 {
		t.Fatalf("bench = %+v", bench)
	}
	if bench.Sets[1].Weight != 155 || bench.Sets[1].Reps != 5 {
		t.Errorf("bench set 2 = %+v", bench.Sets[1])
	}
	if bench.Sets[0].ID == bench.Sets[1].ID {
		t.Error("set ids are not unique")
	}
	if err := models.ValidateWorkout(&w); err != nil {
		t.Errorf("imported workout does not validate: %v", err)
	}
}

func TestParseStrongCSV_InvalidUnitDefaultsToKg(t *testing.T) {
	pf, err := ParseStrongCSV(strings.NewReader(strongBasic), "stone")
	if err != nil {
		t.Fatalf("ParseStrongCSV: %v", err)
	}
	if got := pf.Workouts[0].Blocks[0].Exercises[0].WeightUnit; got != models.Kilograms {
		t.Errorf("unit = %q, want kg", got)
	}
}

func TestParseStrongCSV_EmptyFile(t *testing.T) {
	csv := "Date,Workout Name,Duration,Exercise Name,Set Order,Weight,Reps\n"
	_, err := ParseStrongCSV(strings.NewReader(csv), models.Kilograms)
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestParseStrongCSV_MissingColumn(t *testing.T) {
	csv := "Workout Name,Weight,Reps\nA,1,1\n"
	if _, err := ParseStrongCSV(strings.NewReader(csv), models.Kilograms); err == nil {
		t.Error("expected error for missing Date column")
	}
}

func TestParseStrongCSV_GroupsByDateAndName(t *testing.T) {
	csv := `Date,Workout Name,Exercise Name,Set Order,Weight,Reps
2024-01-15 08:00:00,Morning,Bench Press,1,135,5
2024-01-15 18:00:00,Evening,Deadlift,1,315,3
2024-01-17 08:00:00,Morning,Squat,1,225,5
,Morning,Squat,1,225,5
2024-01-17 08:00:00,Morning,Squat,Rest Timer,,
`
	pf, err := ParseStrongCSV(strings.NewReader(csv), models.Kilograms)
	if err != nil {
		t.Fatalf("ParseStrongCSV: %v", err)
	}
	if len(pf.Workouts) != 3 {
		t.Fatalf("workouts = %d, want 3", len(pf.Workouts))
	}
	if pf.Workouts[1].Name != "Evening" || pf.Workouts[2].Date != "2024-01-17" {
		t.Errorf("workouts out of order: %+v", pf.Workouts)
	}
	if pf.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", pf.Skipped)
	}
	if n := len(pf.Workouts[2].Blocks[0].Exercises[0].Sets); n != 1 {
		t.Errorf("squat sets = %d, want 1 (rest timer rows ignored)", n)
	}
}

func TestParseStrongCSV_DurationSet(t *testing.T) {
	csv := `Date,Workout Name,Exercise Name,Set Order,Weight,Reps,Seconds
2024-01-15 08:00:00,Core,Plank,1,,0,60
`
	pf, err := ParseStrongCSV(strings.NewReader(csv), models.Kilograms)
	if err != nil {
		t.Fatalf("ParseStrongCSV: %v", err)
	}
	set := pf.Workouts[0].Blocks[0].Exercises[0].Sets[0]
	if set.Reps != 60 || set.Weight != 0 {
		t.Errorf("plank set = %+v, want 60 reps at 0", set)
	}
}

// --- Hevy CSV parser tests ---

const hevyHeader = "title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_lbs,reps,rpe,duration_seconds,distance_km\n"

func TestParseHevyCSV_Basic(t *testing.T) {
	csv := hevyHeader +
		`Push,"15 Jan 2024, 08:00","15 Jan 2024, 09:00",Chest focus,Bench Press,,,0,normal,135,5,,,
Push,"15 Jan 2024, 08:00","15 Jan 2024, 09:00",Chest focus,Bench Press,,,1,normal,155,5,,,
Push,"15 Jan 2024, 08:00","15 Jan 2024, 09:00",Chest focus,Cable Fly,0,,0,normal,30,12,,,
Push,"15 Jan 2024, 08:00","15 Jan 2024, 09:00",Chest focus,Push Up,0,,0,normal,0,15,,,
Push,"15 Jan 2024, 08:00","15 Jan 2024, 09:00",Chest focus,Cable Fly,0,,1,normal,30,10,,,
`
	pf, err := ParseHevyCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseHevyCSV: %v", err)
	}
	if len(pf.Workouts) != 1 {
		t.Fatalf("workouts = %d, want 1", len(pf.Workouts))
	}
	w := pf.Workouts[0]
	if w.Name != "Push" || w.Date != "2024-01-15" || w.Notes != "Chest focus" {
		t.Errorf("workout = %q %q %q", w.Name, w.Date, w.Notes)
	}
	if len(w.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(w.Blocks))
	}
	if w.Blocks[0].Type != models.BlockSingle {
		t.Errorf("block 0 type = %q", w.Blocks[0].Type)
	}
	ss := w.Blocks[1]
	if ss.Type != models.BlockSuperset || len(ss.Exercises) != 2 {
		t.Fatalf("superset block = %+v", ss)
	}
	if ss.Exercises[0].Name != "Cable Fly" || len(ss.Exercises[0].Sets) != 2 {
		t.Errorf("cable fly = %+v", ss.Exercises[0])
	}
	if ss.Exercises[0].WeightUnit != models.Pounds {
		t.Errorf("unit = %q, want lbs", ss.Exercises[0].WeightUnit)
	}
	if err := models.ValidateWorkout(&w); err != nil {
		t.Errorf("imported workout does not validate: %v", err)
	}
}

func TestParseHevyCSV_KilogramColumn(t *testing.T) {
	csv := "title,start_time,exercise_title,superset_id,set_index,weight_kg,reps\n" +
		"Legs,2024-02-01 07:00:00,Squat,3,0,100,5\n"
	pf, err := ParseHevyCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseHevyCSV: %v", err)
	}
	b := pf.Workouts[0].Blocks[0]
	// A superset id seen on only one exercise still yields a single block.
	if b.Type != models.BlockSingle {
		t.Errorf("type = %q, want single", b.Type)
	}
	if e := b.Exercises[0]; e.WeightUnit != models.Kilograms || e.Sets[0].Weight != 100 {
		t.Errorf("exercise = %+v", e)
	}
}

func TestParseHevyCSV_EmptyFile(t *testing.T) {
	if _, err := ParseHevyCSV(strings.NewReader(hevyHeader)); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestParseCSV(t *testing.T) {
	pf, err := ParseCSV(append([]byte{0xEF, 0xBB, 0xBF}, strongBasic...), models.Kilograms)
	if err != nil {
		t.Fatalf("ParseCSV(strong): %v", err)
	}
	if pf.Format != FormatStrongCSV || len(pf.Workouts) != 1 {
		t.Errorf("parsed = %+v", pf)
	}

	if _, err := ParseCSV([]byte(`{"workouts":[]}`), models.Kilograms); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("json err = %v", err)
	}
	if _, err := ParseCSV([]byte("hello"), models.Kilograms); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("unknown err = %v", err)
	}
}

// --- parseStrongDate tests ---

func TestParseStrongDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-15 08:00:00", "2024-01-15"},
		{"2024-01-15T08:00:00Z", "2024-01-15"},
		{"2024-01-15", "2024-01-15"},
		{"01/15/2024", "2024-01-15"},
		{"Jan 15, 2024", "2024-01-15"},
		{"15 Jan 2024, 08:00", "2024-01-15"},
	}

	for _, tt := range tests {
		got := parseStrongDate(tt.input)
		if got != tt.want {
			t.Errorf("parseStrongDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// --- helpers ---

func TestContainsAll(t *testing.T) {
	if !containsAll("abc def ghi", "abc", "def") {
		t.Error("containsAll should match present substrings")
	}
	if containsAll("abc def ghi", "abc", "xyz") {
		t.Error("containsAll should not match missing substring")
	}
}

func TestFirstLineOf(t *testing.T) {
	if got := firstLineOf([]byte("abc\ndef")); got != "abc" {
		t.Errorf("firstLineOf = %q, want abc", got)
	}
	if got := firstLineOf([]byte("abc")); got != "abc" {
		t.Errorf("firstLineOf = %q, want abc (no newline)", got)
	}
}

func TestParseInt(t *testing.T) {
	for in, want := range map[string]int{"": 0, "5": 5, "5.0": 5, "-3": 0, "x": 0} {
		if got := parseInt(in); got != want {
			t.Errorf("parseInt(%q) = %d, want %d", in, got, want)
		}
	}
}
