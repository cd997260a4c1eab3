package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carpenike/stacked/internal/models"
	"github.com/carpenike/stacked/internal/storage"
)

type ListCmd struct {
	Query string `help:"Only workouts whose name, date or exercises match." short:"q"`
	Date  string `help:"Only workouts on this date (YYYY-MM-DD)."`
}

func (c *ListCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	workouts, err := store.ListWorkouts(app.Ctx)
	if err != nil {
		return err
	}
	if c.Date != "" {
		if !models.ValidDate(c.Date) {
			return fmt.Errorf("invalid date %q", c.Date)
		}
		workouts = models.WorkoutsOnDate(workouts, c.Date)
	}
	workouts = models.SearchWorkouts(workouts, c.Query)
	models.SortByDateDesc(workouts)

	if len(workouts) == 0 {
		app.printf("No workouts found\n")
		return nil
	}
	for i := range workouts {
		w := &workouts[i]
		app.printf("%s  %-24s %2d exercises %3d sets  %s\n",
			w.Day(), w.Name, models.TotalExercises(w), models.TotalSets(w), w.ID)
	}
	return nil
}

type ShowCmd struct {
	ID   string `arg:"" help:"Workout id."`
	Unit string `help:"Unit for the volume total (kg or lbs). Defaults to the saved setting."`
}

func (c *ShowCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	unit, err := resolveUnit(app, store, c.Unit)
	if err != nil {
		return err
	}
	w, err := store.GetWorkout(app.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("workout %s: %w", c.ID, err)
	}

	app.printf("%s  %s\n", w.Day(), w.Name)
	if w.Notes != "" {
		app.printf("  %s\n", w.Notes)
	}
	for _, b := range w.Blocks {
		if b.Type == models.BlockSuperset {
			app.printf("\n  Superset\n")
		} else {
			app.printf("\n")
		}
		for _, e := range b.Exercises {
			app.printf("  %s\n", e.Name)
			for i, s := range e.Sets {
				app.printf("    %d. %d x %g %s\n", i+1, s.Reps, s.Weight, e.WeightUnit)
			}
		}
	}
	sum := models.Summarize(w, unit)
	app.printf("\n%d exercises, %d sets, %.1f %s volume\n", sum.Exercises, sum.Sets, sum.Volume, sum.Unit)
	return nil
}

// resolveUnit parses flag, or falls back to the saved settings unit.
func resolveUnit(app *Context, store storage.Store, flag string) (models.WeightUnit, error) {
	if flag != "" {
		u, err := models.ParseWeightUnit(flag)
		if err != nil {
			return "", errors.New(models.UserMessage(err))
		}
		return u, nil
	}
	settings, err := store.GetSettings(app.Ctx)
	if err != nil {
		return "", err
	}
	return settings.WeightUnit, nil
}

type SettingsCmd struct {
	Unit string `help:"Set the weight unit (kg or lbs)."`
}

func (c *SettingsCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Unit != "" {
		u, err := models.ParseWeightUnit(c.Unit)
		if err != nil {
			return errors.New(models.UserMessage(err))
		}
		if err := store.SaveSettings(app.Ctx, models.AppSettings{WeightUnit: u}); err != nil {
			return err
		}
	}
	settings, err := store.GetSettings(app.Ctx)
	if err != nil {
		return err
	}
	app.printf("weight unit: %s\n", settings.WeightUnit)
	return nil
}

type SeedCmd struct{}

func (c *SeedCmd) Run(app *Context) error {
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := storage.SeedSamples(app.Ctx, store, app.Log)
	if err != nil {
		return err
	}
	if n == 0 {
		app.printf("Workout log is not empty; nothing seeded\n")
		return nil
	}
	app.printf("Seeded %d sample workouts\n", n)
	return nil
}

type ClearCmd struct {
	Yes bool `help:"Confirm deleting everything."`
}

func (c *ClearCmd) Run(app *Context) error {
	if !c.Yes && !confirm(app, "Delete every workout and reset the settings?") {
		app.printf("Cancelled\n")
		return nil
	}
	db, store, err := app.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Clear(app.Ctx); err != nil {
		return err
	}
	app.printf("All data cleared\n")
	return nil
}

// confirm asks a yes/no question on app.In. Anything but y or yes is no.
func confirm(app *Context, question string) bool {
	app.printf("%s [y/N]: ", question)
	var answer string
	fmt.Fscanln(app.In, &answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
