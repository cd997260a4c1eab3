package handlers

import (
	"fmt"
	"net/http"

	"github.com/carpenike/stacked/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleWorkoutsOnDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if !models.ValidDate(date) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q", date))
		return
	}
	workouts, err := s.store.ListWorkouts(r.Context())
	if err != nil {
		s.fail(w, r, "list workouts", err)
		return
	}
	onDate := models.WorkoutsOnDate(workouts, date)
	if onDate == nil {
		onDate = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, onDate)
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	month, err := models.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		s.fail(w, r, "parse month", err)
		return
	}
	workouts, err := s.store.ListWorkouts(r.Context())
	if err != nil {
		s.fail(w, r, "list workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SummarizeMonth(workouts, month))
}
