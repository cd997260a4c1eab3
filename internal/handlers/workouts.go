package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/carpenike/stacked/internal/models"
	"github.com/go-chi/chi/v5"
)

// workoutDetail is a workout with its headline numbers.
type workoutDetail struct {
	Workout models.Workout        `json:"workout"`
	Summary models.WorkoutSummary `json:"summary"`
}

// displayUnit is the ?unit= override, or the saved settings unit.
func (s *Server) displayUnit(r *http.Request) (models.WeightUnit, error) {
	if v := r.URL.Query().Get("unit"); v != "" {
		return models.ParseWeightUnit(v)
	}
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		return "", err
	}
	return settings.WeightUnit, nil
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.ListWorkouts(r.Context())
	if err != nil {
		s.fail(w, r, "list workouts", err)
		return
	}
	workouts = models.SearchWorkouts(workouts, r.URL.Query().Get("q"))
	models.SortByDateDesc(workouts)
	if workouts == nil {
		workouts = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	unit, err := s.displayUnit(r)
	if err != nil {
		s.fail(w, r, "resolve display unit", err)
		return
	}
	workout, err := s.store.GetWorkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workoutDetail{Workout: *workout, Summary: models.Summarize(workout, unit)})
}

// prepare decodes, tidies and validates a submitted workout. A non-empty id
// overrides whatever id the body carries.
func (s *Server) prepare(r *http.Request, id string) (models.Workout, models.WeightUnit, error) {
	var workout models.Workout
	if err := decodeJSON(r, &workout, false); err != nil {
		return workout, "", err
	}
	if id != "" {
		workout.ID = id
	}
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		return workout, "", err
	}
	models.PrepareWorkout(&workout, settings.WeightUnit)
	if err := models.ValidateWorkout(&workout); err != nil {
		return workout, "", err
	}
	return workout, settings.WeightUnit, nil
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	workout, unit, err := s.prepare(r, "")
	if err != nil {
		s.fail(w, r, "prepare workout", err)
		return
	}
	if err := s.store.AddWorkout(r.Context(), workout); err != nil {
		s.fail(w, r, "add workout", err)
		return
	}
	s.notifier.WorkoutLogged(&workout, unit)
	s.notice(r, "Workout saved")
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	workout, _, err := s.prepare(r, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "prepare workout", err)
		return
	}
	if err := s.store.UpdateWorkout(r.Context(), workout); err != nil {
		s.fail(w, r, "update workout", err)
		return
	}
	s.notice(r, "Workout updated")
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteWorkout(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, "delete workout", err)
		return
	}
	s.notice(r, "Workout deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicateWorkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &body, true); err != nil {
		s.fail(w, r, "decode duplicate request", err)
		return
	}
	if body.Date != "" && !models.ValidDate(body.Date) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q", body.Date))
		return
	}

	original, err := s.store.GetWorkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get workout", err)
		return
	}
	copied := models.DuplicateWorkout(*original, body.Date)
	if err := s.store.AddWorkout(r.Context(), copied); err != nil {
		s.fail(w, r, "add duplicated workout", err)
		return
	}
	s.notice(r, "Workout duplicated")
	writeJSON(w, http.StatusCreated, copied)
}

func (s *Server) handleMoveBlock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction string `json:"direction"`
	}
	if err := decodeJSON(r, &body, false); err != nil {
		s.fail(w, r, "decode move request", err)
		return
	}
	var delta int
	switch body.Direction {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		writeError(w, http.StatusBadRequest, `direction must be "up" or "down"`)
		return
	}
	s.editBlocks(w, r, "move block", func(workout *models.Workout, index int) error {
		return models.MoveBlock(workout, index, delta)
	})
}

func (s *Server) handleMergeSuperset(w http.ResponseWriter, r *http.Request) {
	s.editBlocks(w, r, "merge superset", models.MergeSuperset)
}

func (s *Server) handleSplitSuperset(w http.ResponseWriter, r *http.Request) {
	s.editBlocks(w, r, "split superset", models.SplitSuperset)
}

// editBlocks applies edit to the block at the {index} path parameter of the
// {id} workout and saves the result.
func (s *Server) editBlocks(w http.ResponseWriter, r *http.Request, op string, edit func(*models.Workout, int) error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block index")
		return
	}
	workout, err := s.store.GetWorkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get workout", err)
		return
	}
	if err := edit(workout, index); err != nil {
		s.fail(w, r, op, err)
		return
	}
	if err := models.ValidateWorkout(workout); err != nil {
		s.fail(w, r, op, err)
		return
	}
	if err := s.store.UpdateWorkout(r.Context(), *workout); err != nil {
		s.fail(w, r, "update workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}
