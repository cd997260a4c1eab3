package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carpenike/stacked/internal/models"
)

// RelationalStore keeps one user's workouts in the workouts, exercise_blocks,
// exercises and sets tables, with settings in profiles. Every write of a
// workout tree runs in a single transaction, so a failure never leaves
// orphaned child rows behind.
type RelationalStore struct {
	db     *sql.DB
	userID string
	log    *slog.Logger
}

// NewRelationalStore returns a store scoped to userID.
func NewRelationalStore(db *sql.DB, userID string, log *slog.Logger) *RelationalStore {
	return &RelationalStore{db: db, userID: userID, log: log}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *RelationalStore) ensureProfile(ctx context.Context, q execer) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO profiles (user_id, weight_unit) VALUES (?, ?) ON CONFLICT(user_id) DO NOTHING`,
		s.userID, string(models.DefaultWeightUnit))
	if err != nil {
		return fmt.Errorf("storage: ensure profile %s: %w", s.userID, err)
	}
	return nil
}

// withTx runs fn in a transaction, rolling back on error.
func (s *RelationalStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

// insertTree writes the blocks, exercises and sets of w under workoutPK,
// numbering each level with order_index.
func insertTree(ctx context.Context, tx *sql.Tx, workoutPK int64, w *models.Workout) error {
	for bi, b := range w.Blocks {
		var blockPK int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO exercise_blocks (id, workout_id, type, order_index) VALUES (?, ?, ?, ?) RETURNING pk`,
			b.ID, workoutPK, string(blockType(b)), bi,
		).Scan(&blockPK)
		if err != nil {
			return fmt.Errorf("storage: insert block %s of workout %s: %w", b.ID, w.ID, err)
		}

		for ei, e := range b.Exercises {
			unit := e.WeightUnit
			if !unit.Valid() {
				unit = models.DefaultWeightUnit
			}
			var exercisePK int64
			err := tx.QueryRowContext(ctx,
				`INSERT INTO exercises (id, exercise_block_id, name, weight_unit, order_index) VALUES (?, ?, ?, ?, ?) RETURNING pk`,
				e.ID, blockPK, e.Name, string(unit), ei,
			).Scan(&exercisePK)
			if err != nil {
				return fmt.Errorf("storage: insert exercise %s of workout %s: %w", e.ID, w.ID, err)
			}

			for si, set := range e.Sets {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO sets (id, exercise_id, reps, weight, order_index) VALUES (?, ?, ?, ?, ?)`,
					set.ID, exercisePK, set.Reps, set.Weight, si)
				if err != nil {
					return fmt.Errorf("storage: insert set %s of workout %s: %w", set.ID, w.ID, err)
				}
			}
		}
	}
	return nil
}

func blockType(b models.ExerciseBlock) models.BlockType {
	if b.Type.Valid() {
		return b.Type
	}
	if len(b.Exercises) > 1 {
		return models.BlockSuperset
	}
	return models.BlockSingle
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *RelationalStore) insertWorkout(ctx context.Context, tx *sql.Tx, w *models.Workout) error {
	var pk int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO workouts (id, user_id, name, date, notes) VALUES (?, ?, ?, ?, ?) RETURNING pk`,
		w.ID, s.userID, w.Name, w.Date, nullString(w.Notes),
	).Scan(&pk)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("storage: add workout %s: %w", w.ID, models.ErrWorkoutExists)
		}
		return fmt.Errorf("storage: insert workout %s: %w", w.ID, err)
	}
	return insertTree(ctx, tx, pk, w)
}

// AddWorkout inserts w and its whole tree.
func (s *RelationalStore) AddWorkout(ctx context.Context, w models.Workout) error {
	return s.AppendWorkouts(ctx, []models.Workout{w})
}

// AppendWorkouts inserts every workout in one transaction.
func (s *RelationalStore) AppendWorkouts(ctx context.Context, workouts []models.Workout) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureProfile(ctx, tx); err != nil {
			return err
		}
		for i := range workouts {
			if err := s.insertWorkout(ctx, tx, &workouts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateWorkout updates the workout row, drops its blocks (cascading to
// exercises and sets) and re-inserts the tree.
func (s *RelationalStore) UpdateWorkout(ctx context.Context, w models.Workout) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var pk int64
		err := tx.QueryRowContext(ctx,
			`UPDATE workouts SET name = ?, date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE user_id = ? AND id = ? RETURNING pk`,
			w.Name, w.Date, nullString(w.Notes), s.userID, w.ID,
		).Scan(&pk)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("storage: update workout %s: %w", w.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM exercise_blocks WHERE workout_id = ?`, pk); err != nil {
			return fmt.Errorf("storage: clear blocks of workout %s: %w", w.ID, err)
		}
		return insertTree(ctx, tx, pk, &w)
	})
}

// DeleteWorkout removes a workout; child rows go with it.
func (s *RelationalStore) DeleteWorkout(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM workouts WHERE user_id = ? AND id = ?`, s.userID, id)
	if err != nil {
		return fmt.Errorf("storage: delete workout %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: delete workout %s: %w", id, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ReplaceAll deletes every workout of the user and inserts workouts.
func (s *RelationalStore) ReplaceAll(ctx context.Context, workouts []models.Workout) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureProfile(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM workouts WHERE user_id = ?`, s.userID); err != nil {
			return fmt.Errorf("storage: clear workouts: %w", err)
		}
		for i := range workouts {
			if err := s.insertWorkout(ctx, tx, &workouts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListWorkouts returns the user's workouts in insertion order.
func (s *RelationalStore) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	return s.load(ctx, "")
}

// GetWorkout returns one workout with its full tree.
func (s *RelationalStore) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	if id == "" {
		return nil, models.ErrNotFound
	}
	workouts, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, models.ErrNotFound
	}
	return &workouts[0], nil
}

// load reads workouts (all, or just id) and then their trees. The two
// queries run one after the other because the pool has a single connection.
func (s *RelationalStore) load(ctx context.Context, id string) ([]models.Workout, error) {
	query := `SELECT pk, id, name, date, notes FROM workouts WHERE user_id = ?`
	args := []any{s.userID}
	if id != "" {
		query += ` AND id = ?`
		args = append(args, id)
	}
	query += ` ORDER BY pk`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list workouts: %w", err)
	}

	workouts := []models.Workout{}
	index := map[int64]int{} // workout pk → position in workouts
	for rows.Next() {
		var (
			pk    int64
			w     models.Workout
			notes sql.NullString
		)
		if err := rows.Scan(&pk, &w.ID, &w.Name, &w.Date, &notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: scan workout: %w", err)
		}
		w.Notes = notes.String
		w.Blocks = []models.ExerciseBlock{}
		index[pk] = len(workouts)
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: iterate workouts: %w", err)
	}
	rows.Close()

	if len(workouts) == 0 {
		return workouts, nil
	}
	if err := s.loadTrees(ctx, id, workouts, index); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (s *RelationalStore) loadTrees(ctx context.Context, id string, workouts []models.Workout, index map[int64]int) error {
	query := `SELECT w.pk, b.pk, b.id, b.type,
	                 e.pk, e.id, e.name, e.weight_unit,
	                 st.id, st.reps, st.weight
	          FROM workouts w
	          JOIN exercise_blocks b ON b.workout_id = w.pk
	          LEFT JOIN exercises e ON e.exercise_block_id = b.pk
	          LEFT JOIN sets st ON st.exercise_id = e.pk
	          WHERE w.user_id = ?`
	args := []any{s.userID}
	if id != "" {
		query += ` AND w.id = ?`
		args = append(args, id)
	}
	query += ` ORDER BY w.pk, b.order_index, e.order_index, st.order_index`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("storage: load workout trees: %w", err)
	}
	defer rows.Close()

	lastBlock, lastExercise := int64(-1), int64(-1)
	for rows.Next() {
		var (
			workoutPK, blockPK int64
			blockID, blockTyp  string
			exercisePK         sql.NullInt64
			exerciseID, name   sql.NullString
			unit               sql.NullString
			setID              sql.NullString
			reps               sql.NullInt64
			weight             sql.NullFloat64
		)
		if err := rows.Scan(&workoutPK, &blockPK, &blockID, &blockTyp,
			&exercisePK, &exerciseID, &name, &unit,
			&setID, &reps, &weight); err != nil {
			return fmt.Errorf("storage: scan workout tree: %w", err)
		}

		wi, ok := index[workoutPK]
		if !ok {
			continue
		}
		w := &workouts[wi]

		if blockPK != lastBlock {
			w.Blocks = append(w.Blocks, models.ExerciseBlock{
				ID:        blockID,
				Type:      models.BlockType(blockTyp),
				Exercises: []models.Exercise{},
			})
			lastBlock = blockPK
			lastExercise = -1
		}
		if !exercisePK.Valid {
			continue
		}
		b := &w.Blocks[len(w.Blocks)-1]
		if exercisePK.Int64 != lastExercise {
			b.Exercises = append(b.Exercises, models.Exercise{
				ID:         exerciseID.String,
				Name:       name.String,
				WeightUnit: models.WeightUnit(unit.String),
				Sets:       []models.Set{},
			})
			lastExercise = exercisePK.Int64
		}
		if !setID.Valid {
			continue
		}
		e := &b.Exercises[len(b.Exercises)-1]
		e.Sets = append(e.Sets, models.Set{ID: setID.String, Reps: int(reps.Int64), Weight: weight.Float64})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("storage: iterate workout trees: %w", err)
	}
	return nil
}

// GetSettings reads the profile, creating it with defaults on first use.
func (s *RelationalStore) GetSettings(ctx context.Context) (models.AppSettings, error) {
	if err := s.ensureProfile(ctx, s.db); err != nil {
		return models.DefaultSettings(), err
	}
	var unit string
	err := s.db.QueryRowContext(ctx, `SELECT weight_unit FROM profiles WHERE user_id = ?`, s.userID).Scan(&unit)
	if err != nil {
		return models.DefaultSettings(), fmt.Errorf("storage: get settings: %w", err)
	}
	return models.AppSettings{WeightUnit: models.WeightUnit(unit)}.Normalized(), nil
}

// SaveSettings upserts the profile's weight unit.
func (s *RelationalStore) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, weight_unit) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET weight_unit = excluded.weight_unit, updated_at = CURRENT_TIMESTAMP`,
		s.userID, string(settings.WeightUnit))
	if err != nil {
		return fmt.Errorf("storage: save settings: %w", err)
	}
	return nil
}

// Clear deletes the user's profile; workouts and their trees cascade.
func (s *RelationalStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, s.userID); err != nil {
		return fmt.Errorf("storage: clear: %w", err)
	}
	s.log.Info("cleared workout data", "user_id", s.userID)
	return nil
}
