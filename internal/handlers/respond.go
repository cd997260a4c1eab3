package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/carpenike/stacked/internal/middleware"
	"github.com/carpenike/stacked/internal/models"
)

// noticeKey is the session key holding the one-shot user notice.
const noticeKey = "notice"

// genericError is the only detail a client sees for a storage failure.
const genericError = "Something went wrong"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps err onto a response. Validation problems and missing workouts
// are the caller's fault; anything else is logged and reported generically.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, models.UserMessage(err))
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "workout not found")
	case errors.Is(err, models.ErrWorkoutExists):
		writeError(w, http.StatusConflict, "a workout with that id already exists")
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		s.log.Error("handlers: "+op, "error", err, "request_id", middleware.RequestID(r.Context()))
		s.notice(r, genericError)
		writeError(w, http.StatusInternalServerError, genericError)
	}
}

// decodeJSON reads a JSON body into v. An empty body is allowed when
// optional is true and leaves v untouched.
func decodeJSON(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	if err != nil {
		return fmt.Errorf("handlers: %w: invalid JSON body", models.ErrInvalidInput)
	}
	return nil
}

// notice stores a message for the next GET /api/notice.
func (s *Server) notice(r *http.Request, msg string) {
	s.sessions.Put(r.Context(), noticeKey, msg)
}

// handleNotice pops the pending notice. No content when there is none.
func (s *Server) handleNotice(w http.ResponseWriter, r *http.Request) {
	msg := s.sessions.PopString(r.Context(), noticeKey)
	if msg == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"notice": msg})
}
