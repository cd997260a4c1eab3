// Package storage persists workouts and settings. Two backends share one
// contract: KVStore keeps JSON documents under fixed keys, RelationalStore
// keeps the normalized workout tree in tables.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carpenike/stacked/internal/database"
	"github.com/carpenike/stacked/internal/models"
)

// Store is the persistence contract shared by every backend. Lookups of a
// missing workout return models.ErrNotFound.
//
// ListWorkouts returns workouts in stored order: insertion order, with an
// updated workout keeping its place. Callers sort for display.
type Store interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
	AddWorkout(ctx context.Context, w models.Workout) error
	AppendWorkouts(ctx context.Context, workouts []models.Workout) error
	UpdateWorkout(ctx context.Context, w models.Workout) error
	DeleteWorkout(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, workouts []models.Workout) error
	GetSettings(ctx context.Context) (models.AppSettings, error)
	SaveSettings(ctx context.Context, s models.AppSettings) error
	Clear(ctx context.Context) error
}

// SeedSamples loads the bundled sample workouts into s when it holds no
// workouts yet. It reports how many were added.
func SeedSamples(ctx context.Context, s Store, log *slog.Logger) (int, error) {
	existing, err := s.ListWorkouts(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage: seed samples: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	samples, _, err := models.DecodeWorkouts(database.SampleData())
	if err != nil {
		return 0, fmt.Errorf("storage: seed samples: %w", err)
	}
	if err := s.AppendWorkouts(ctx, samples); err != nil {
		if errors.Is(err, ErrUnreadable) {
			log.Warn("stored workouts are unreadable, not seeding samples", "error", err)
			return 0, nil
		}
		return 0, fmt.Errorf("storage: seed samples: %w", err)
	}
	log.Info("seeded sample workouts", "count", len(samples))
	return len(samples), nil
}

// Restore overwrites every workout and the settings in s, as a backup
// import does.
func Restore(ctx context.Context, s Store, workouts []models.Workout, settings models.AppSettings) error {
	if err := s.ReplaceAll(ctx, workouts); err != nil {
		return fmt.Errorf("storage: restore workouts: %w", err)
	}
	if err := s.SaveSettings(ctx, settings.Normalized()); err != nil {
		return fmt.Errorf("storage: restore settings: %w", err)
	}
	return nil
}

// Append adds workouts after the existing ones in a single write, so a
// failure leaves the store as it was.
func Append(ctx context.Context, s Store, workouts []models.Workout) error {
	if err := s.AppendWorkouts(ctx, workouts); err != nil {
		return fmt.Errorf("storage: append: %w", err)
	}
	return nil
}

// Backends accepted by New.
const (
	BackendLocal      = "local"
	BackendRelational = "relational"
)

// New returns the Store for backend on a migrated database.
func New(backend string, db *sql.DB, userID string, log *slog.Logger) (Store, error) {
	switch backend {
	case BackendLocal, "":
		return NewKVStore(db, log), nil
	case BackendRelational:
		return NewRelationalStore(db, userID, log), nil
	}
	return nil, fmt.Errorf("storage: unknown backend %q", backend)
}
