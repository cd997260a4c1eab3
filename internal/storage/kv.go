package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/carpenike/stacked/internal/models"
)

// Keys used by KVStore.
const (
	WorkoutsKey = "workouts"
	SettingsKey = "settings"
)

// ErrUnreadable is returned by writes that would have to overwrite a stored
// workouts document that cannot be parsed.
var ErrUnreadable = errors.New("stored workouts are unreadable")

// KVStore keeps the whole workout list and the settings as two JSON
// documents in the kv_store table. Reads upcast legacy records but do not
// write them back; MigrateLegacy does that.
type KVStore struct {
	db  *sql.DB
	log *slog.Logger

	// mu serializes read-modify-write cycles on the workouts document.
	mu sync.Mutex
}

// NewKVStore returns a KVStore on a migrated database.
func NewKVStore(db *sql.DB, log *slog.Logger) *KVStore {
	return &KVStore{db: db, log: log}
}

func (s *KVStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *KVStore) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}

// document is the decoded workouts key. raw[i] is the stored bytes of
// workouts[i]; writes re-encode only the records they change, so a record
// the app cannot read is carried over untouched.
type document struct {
	raw      []json.RawMessage
	workouts []models.Workout
	shapes   []models.RecordShape
}

func (d *document) index(id string) int {
	for i := range d.workouts {
		if d.workouts[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *document) append(w models.Workout) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("storage: encode workout %s: %w", w.ID, err)
	}
	d.raw = append(d.raw, data)
	d.workouts = append(d.workouts, w)
	d.shapes = append(d.shapes, models.ShapeCanonical)
	return nil
}

func (d *document) set(i int, w models.Workout) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("storage: encode workout %s: %w", w.ID, err)
	}
	d.raw[i], d.workouts[i], d.shapes[i] = data, w, models.ShapeCanonical
	return nil
}

// load decodes the workouts key. Unreadable records are logged and read as
// malformed workouts. An unreadable document yields ErrUnreadable.
func (s *KVStore) load(ctx context.Context) (*document, error) {
	data, ok, err := s.get(ctx, WorkoutsKey)
	if err != nil {
		return nil, err
	}
	doc := &document{raw: []json.RawMessage{}, workouts: []models.Workout{}}
	if !ok {
		return doc, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("storage: %s key: %w: %v", WorkoutsKey, ErrUnreadable, err)
	}
	records, errs, err := models.DecodeStoredWorkouts(data)
	if err != nil {
		return nil, fmt.Errorf("storage: %s key: %w: %v", WorkoutsKey, ErrUnreadable, err)
	}
	for _, e := range errs {
		s.log.Warn("stored workout is unreadable, showing it without blocks", "error", e)
	}
	doc.raw = raw
	doc.workouts = models.NormalizeWorkouts(records)
	doc.shapes = make([]models.RecordShape, len(records))
	for i, r := range records {
		doc.shapes[i] = r.Shape
	}
	return doc, nil
}

// read is load for read-only callers: an unreadable document is logged and
// read as empty.
func (s *KVStore) read(ctx context.Context) ([]models.Workout, error) {
	doc, err := s.load(ctx)
	if errors.Is(err, ErrUnreadable) {
		s.log.Warn("stored workouts are unreadable, treating as empty", "error", err)
		return []models.Workout{}, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.workouts, nil
}

func (s *KVStore) save(ctx context.Context, doc *document) error {
	return s.put(ctx, WorkoutsKey, doc.raw)
}

// ListWorkouts returns workouts in stored order.
func (s *KVStore) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	return s.read(ctx)
}

// GetWorkout returns the workout with id.
func (s *KVStore) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	workouts, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		if workouts[i].ID == id {
			return &workouts[i], nil
		}
	}
	return nil, models.ErrNotFound
}

// AddWorkout appends w to the list.
func (s *KVStore) AddWorkout(ctx context.Context, w models.Workout) error {
	return s.AppendWorkouts(ctx, []models.Workout{w})
}

// AppendWorkouts adds workouts after the stored ones in one write. Nothing
// is written if any id is already taken.
func (s *KVStore) AppendWorkouts(ctx context.Context, workouts []models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, w := range workouts {
		if doc.index(w.ID) >= 0 {
			return fmt.Errorf("storage: add workout %s: %w", w.ID, models.ErrWorkoutExists)
		}
		if err := doc.append(w); err != nil {
			return err
		}
	}
	return s.save(ctx, doc)
}

// UpdateWorkout replaces the workout with the same id, keeping its position.
func (s *KVStore) UpdateWorkout(ctx context.Context, w models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := doc.index(w.ID)
	if i < 0 {
		return models.ErrNotFound
	}
	if err := doc.set(i, w); err != nil {
		return err
	}
	return s.save(ctx, doc)
}

// DeleteWorkout removes the workout with id.
func (s *KVStore) DeleteWorkout(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := doc.index(id)
	if i < 0 {
		return models.ErrNotFound
	}
	doc.raw = append(doc.raw[:i], doc.raw[i+1:]...)
	doc.workouts = append(doc.workouts[:i], doc.workouts[i+1:]...)
	doc.shapes = append(doc.shapes[:i], doc.shapes[i+1:]...)
	return s.save(ctx, doc)
}

// ReplaceAll overwrites the stored list, even when the stored document is
// unreadable; it is how an import or a restore replaces corrupt data.
func (s *KVStore) ReplaceAll(ctx context.Context, workouts []models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if workouts == nil {
		workouts = []models.Workout{}
	}
	seen := make(map[string]bool, len(workouts))
	for _, w := range workouts {
		if seen[w.ID] {
			return fmt.Errorf("storage: replace all: %s: %w", w.ID, models.ErrWorkoutExists)
		}
		seen[w.ID] = true
	}
	return s.put(ctx, WorkoutsKey, workouts)
}

// GetSettings returns saved settings, or the defaults when none are saved or
// the stored document is unreadable.
func (s *KVStore) GetSettings(ctx context.Context) (models.AppSettings, error) {
	data, ok, err := s.get(ctx, SettingsKey)
	if err != nil {
		return models.DefaultSettings(), err
	}
	if !ok {
		return models.DefaultSettings(), nil
	}
	settings, err := models.DecodeSettings(data)
	if err != nil {
		s.log.Warn("stored settings are unreadable, using defaults", "error", err)
	}
	return settings, nil
}

// SaveSettings stores settings.
func (s *KVStore) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.put(ctx, SettingsKey, settings)
}

// Clear removes both documents.
func (s *KVStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key IN (?, ?)`, WorkoutsKey, SettingsKey); err != nil {
		return fmt.Errorf("storage: clear: %w", err)
	}
	return nil
}

// MigrateLegacy rewrites legacy records of the workouts document in
// canonical shape and returns how many were upcast. Other records, readable
// or not, are kept as stored.
func (s *KVStore) MigrateLegacy(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	legacy := 0
	for i, shape := range doc.shapes {
		if shape != models.ShapeLegacy {
			continue
		}
		if err := doc.set(i, doc.workouts[i]); err != nil {
			return 0, err
		}
		legacy++
	}
	if legacy == 0 {
		return 0, nil
	}
	if err := s.save(ctx, doc); err != nil {
		return 0, err
	}
	s.log.Info("migrated legacy workouts", "count", legacy)
	return legacy, nil
}
