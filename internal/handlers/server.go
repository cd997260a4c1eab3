// Package handlers serves the workout log as a JSON API.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/carpenike/stacked/internal/middleware"
	"github.com/carpenike/stacked/internal/notify"
	"github.com/carpenike/stacked/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxUploadSize = 10 << 20 // 10 MB

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    storage.Store
	sessions *scs.SessionManager
	notifier *notify.Notifier
	log      *slog.Logger
	now      func() time.Time
	router   chi.Router
}

// New creates a Server with all routes configured. notifier may be nil.
func New(store storage.Store, sessions *scs.SessionManager, notifier *notify.Notifier, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		sessions: sessions,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestLogger(s.log))
	s.router.Use(chimw.Recoverer)
	s.router.Use(middleware.SecurityHeaders)

	s.router.Get("/health", handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBody(maxUploadSize))
		r.Use(s.sessions.LoadAndSave)

		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Put("/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/workouts/{id}/duplicate", s.handleDuplicateWorkout)
		r.Post("/workouts/{id}/blocks/{index}/move", s.handleMoveBlock)
		r.Post("/workouts/{id}/blocks/{index}/merge", s.handleMergeSuperset)
		r.Post("/workouts/{id}/blocks/{index}/split", s.handleSplitSuperset)

		r.Get("/dates/{date}/workouts", s.handleWorkoutsOnDate)
		r.Get("/calendar/{month}", s.handleMonthSummary)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Delete("/data", s.handleClearData)

		r.Get("/notice", s.handleNotice)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}
