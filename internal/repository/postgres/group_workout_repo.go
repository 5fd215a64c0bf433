package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

const groupWorkoutColumns = `group_workout_id, name, trainer_id, date, notes, level, duration,
	usage_count, parent_workout_id, created_at`

// pgGroupWorkoutRepository implements repository.GroupWorkoutRepository.
// Every multi-statement write runs in one transaction.
type pgGroupWorkoutRepository struct {
	db *sqlx.DB
}

func NewGroupWorkoutRepository(db *sqlx.DB) repository.GroupWorkoutRepository {
	return &pgGroupWorkoutRepository{db: db}
}

// Create inserts the workout, its ordered exercises, its participants and an
// assignment per participant.
func (r *pgGroupWorkoutRepository) Create(ctx context.Context, workout *domain.GroupWorkout, exercises []domain.GroupWorkoutExercise, participants []domain.GroupWorkoutParticipant) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertGroupWorkout(ctx, tx, workout); err != nil {
			return err
		}
		if err := insertGroupExercises(ctx, tx, workout.ID, exercises); err != nil {
			return err
		}
		for i := range participants {
			p := &participants[i]
			p.GroupWorkoutID = workout.ID
			err := tx.QueryRowxContext(ctx, `
				INSERT INTO group_workout_participants
					(group_workout_id, user_id, custom_reps, custom_sets, custom_weights, notes)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				workout.ID, p.UserID, p.CustomReps, p.CustomSets, p.CustomWeights, p.Notes,
			).Scan(&p.ID)
			if err != nil {
				return mapError("insert group workout participant", err)
			}

			groupID := workout.ID
			err = insertAssignment(ctx, tx, &domain.UserWorkout{
				UserID:         p.UserID,
				GroupWorkoutID: &groupID,
				AssignedBy:     workout.TrainerID,
				Status:         domain.StatusAssigned,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func insertGroupWorkout(ctx context.Context, tx *sqlx.Tx, w *domain.GroupWorkout) error {
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO group_workouts (name, trainer_id, date, notes, level, duration, parent_workout_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING group_workout_id, usage_count, created_at`,
		w.Name, w.TrainerID, w.Date, w.Notes, w.Level, w.Duration, w.ParentWorkoutID,
	).Scan(&w.ID, &w.UsageCount, &w.CreatedAt)
	return mapError("insert group workout", err)
}

// insertGroupExercises stores exercises in slice order; the index becomes the
// position.
func insertGroupExercises(ctx context.Context, tx *sqlx.Tx, groupID int64, exercises []domain.GroupWorkoutExercise) error {
	for i := range exercises {
		ex := &exercises[i]
		ex.GroupWorkoutID = groupID
		ex.Position = i
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO group_workout_exercises (group_workout_id, exercise_id, position, sets, reps, weight)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			groupID, ex.ExerciseID, ex.Position, ex.Sets, ex.Reps, ex.Weight,
		).Scan(&ex.ID)
		if err != nil {
			return mapError("insert group workout exercise", err)
		}
	}
	return nil
}

// CreateVersion appends a new version of parentID. The parent row is read but
// never written; assignments move to the new version.
func (r *pgGroupWorkoutRepository) CreateVersion(ctx context.Context, parentID int64, fields domain.GroupWorkoutFields, exercises []domain.GroupWorkoutExercise) (*domain.GroupWorkout, error) {
	var version domain.GroupWorkout
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var parent domain.GroupWorkout
		err := tx.GetContext(ctx, &parent,
			`SELECT `+groupWorkoutColumns+` FROM group_workouts WHERE group_workout_id = $1`, parentID)
		if err != nil {
			return mapError("get parent group workout", err)
		}

		version = inheritVersion(parent, fields)
		if err := insertGroupWorkout(ctx, tx, &version); err != nil {
			return err
		}

		if exercises == nil {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO group_workout_exercises (group_workout_id, exercise_id, position, sets, reps, weight)
				SELECT $1, exercise_id, position, sets, reps, weight
				FROM group_workout_exercises
				WHERE group_workout_id = $2
				ORDER BY position, id`, version.ID, parentID)
			if err != nil {
				return mapError("copy group workout exercises", err)
			}
		} else if err := insertGroupExercises(ctx, tx, version.ID, exercises); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO group_workout_participants
				(group_workout_id, user_id, custom_reps, custom_sets, custom_weights, notes)
			SELECT $1, user_id, custom_reps, custom_sets, custom_weights, notes
			FROM group_workout_participants
			WHERE group_workout_id = $2
			ORDER BY id`, version.ID, parentID)
		if err != nil {
			return mapError("copy group workout participants", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE user_workouts SET group_workout_id = $1 WHERE group_workout_id = $2`,
			version.ID, parentID)
		return mapError("repoint assignments", err)
	})
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// inheritVersion builds the child row: supplied fields win, the rest is
// copied from the parent.
func inheritVersion(parent domain.GroupWorkout, fields domain.GroupWorkoutFields) domain.GroupWorkout {
	parentID := parent.ID
	v := domain.GroupWorkout{
		Name:            parent.Name,
		TrainerID:       parent.TrainerID,
		Date:            parent.Date,
		Notes:           parent.Notes,
		Level:           parent.Level,
		Duration:        parent.Duration,
		ParentWorkoutID: &parentID,
	}
	if fields.Name != nil {
		v.Name = *fields.Name
	}
	if fields.TrainerID != nil {
		v.TrainerID = fields.TrainerID
	}
	if fields.Date != nil {
		v.Date = *fields.Date
	}
	if fields.Notes != nil {
		v.Notes = fields.Notes
	}
	if fields.Level != nil {
		v.Level = fields.Level
	}
	if fields.Duration != nil {
		v.Duration = fields.Duration
	}
	return v
}

// Finish completes userID's assignment of group workout id, records the
// actual performance and bumps the usage counter. A second finish of the
// same assignment yields repository.ErrConflict. Finishing a workout the user
// was never assigned records a completed assignment for them.
func (r *pgGroupWorkoutRepository) Finish(ctx context.Context, id, userID int64, actuals domain.Actuals) (*domain.CompletedGroupWorkout, error) {
	var completed domain.CompletedGroupWorkout
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var lockedID int64
		err := tx.GetContext(ctx, &lockedID,
			`SELECT group_workout_id FROM group_workouts WHERE group_workout_id = $1 FOR UPDATE`, id)
		if err != nil {
			return mapError("lock group workout", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE user_workouts
			SET status = 'completed', completed_at = NOW(),
			    actual_sets = $1, actual_reps = $2, actual_weight = $3
			WHERE user_id = $4 AND group_workout_id = $5 AND status = 'assigned'`,
			actuals.Sets, actuals.Reps, actuals.Weight, userID, id)
		if err != nil {
			return mapError("complete assignment", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return mapError("complete assignment", err)
		}

		if n == 0 {
			var done bool
			err := tx.GetContext(ctx, &done, `
				SELECT EXISTS (
					SELECT 1 FROM user_workouts
					WHERE user_id = $1 AND group_workout_id = $2 AND status = 'completed'
				)`, userID, id)
			if err != nil {
				return mapError("check completed assignment", err)
			}
			if done {
				return repository.ErrConflict
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO user_workouts
					(user_id, group_workout_id, status, assigned_at, completed_at, actual_sets, actual_reps, actual_weight)
				VALUES ($1, $2, 'completed', NOW(), NOW(), $3, $4, $5)`,
				userID, id, actuals.Sets, actuals.Reps, actuals.Weight)
			if err != nil {
				return mapError("record self-started completion", err)
			}
		}

		completed = domain.CompletedGroupWorkout{
			GroupWorkoutID: id,
			UserID:         userID,
			ActualSets:     actuals.Sets,
			ActualReps:     actuals.Reps,
			ActualWeight:   actuals.Weight,
		}
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO completed_group_workouts (group_workout_id, user_id, actual_sets, actual_reps, actual_weight)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, completed_at`,
			id, userID, actuals.Sets, actuals.Reps, actuals.Weight,
		).Scan(&completed.ID, &completed.CompletedAt)
		if err != nil {
			return mapError("insert completed group workout", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE group_workouts SET usage_count = usage_count + 1 WHERE group_workout_id = $1`, id)
		return mapError("increment usage count", err)
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

func (r *pgGroupWorkoutRepository) GetByID(ctx context.Context, id int64) (*domain.GroupWorkout, error) {
	var w domain.GroupWorkout
	err := r.db.GetContext(ctx, &w,
		`SELECT `+groupWorkoutColumns+` FROM group_workouts WHERE group_workout_id = $1`, id)
	if err != nil {
		return nil, mapError("get group workout", err)
	}
	return &w, nil
}

func (r *pgGroupWorkoutRepository) ListExercises(ctx context.Context, id int64) ([]domain.GroupWorkoutExercise, error) {
	exercises := []domain.GroupWorkoutExercise{}
	err := r.db.SelectContext(ctx, &exercises, `
		SELECT gwe.id, gwe.group_workout_id, gwe.exercise_id, e.name AS exercise_name,
		       gwe.position, gwe.sets, gwe.reps, gwe.weight
		FROM group_workout_exercises gwe
		JOIN exercises e ON gwe.exercise_id = e.exercise_id
		WHERE gwe.group_workout_id = $1
		ORDER BY gwe.position, gwe.id`, id)
	if err != nil {
		return nil, mapError("list group workout exercises", err)
	}
	return exercises, nil
}

// ListParticipantReps joins every participant with every exercise. A
// participant's custom reps replace the prescribed reps when set.
func (r *pgGroupWorkoutRepository) ListParticipantReps(ctx context.Context, id int64) ([]domain.ParticipantRep, error) {
	rows := []domain.ParticipantRep{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT gwp.user_id, u.username AS participant_name, gwe.exercise_id,
		       COALESCE(gwp.custom_reps, gwe.reps) AS reps
		FROM group_workout_participants gwp
		JOIN users u ON gwp.user_id = u.user_id
		JOIN group_workout_exercises gwe ON gwp.group_workout_id = gwe.group_workout_id
		WHERE gwp.group_workout_id = $1
		ORDER BY gwp.id, gwe.position, gwe.id`, id)
	if err != nil {
		return nil, mapError("list participant reps", err)
	}
	return rows, nil
}

// SuggestionRows returns, per participant and exercise, the latest logged
// weight and the catalog baselines. Participants without an intake are
// skipped.
func (r *pgGroupWorkoutRepository) SuggestionRows(ctx context.Context, id int64) ([]domain.SuggestionRow, error) {
	rows := []domain.SuggestionRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT u.user_id, u.level, i.sex, e.exercise_id, e.name AS exercise_name,
		       (
		           SELECT we.weight
		           FROM workout_exercises we
		           JOIN workouts w ON we.workout_id = w.workout_id
		           WHERE w.user_id = u.user_id AND we.exercise_id = e.exercise_id
		           ORDER BY w.date DESC, we.id DESC
		           LIMIT 1
		       ) AS last_weight,
		       e.men_starterweight, e.men_intermediateweight, e.men_advancedweight,
		       e.women_starterweight, e.women_intermediateweight, e.women_advancedweight
		FROM group_workout_participants gwp
		JOIN users u ON gwp.user_id = u.user_id
		JOIN intake i ON u.user_id = i.user_id
		JOIN group_workout_exercises gwe ON gwp.group_workout_id = gwe.group_workout_id
		JOIN exercises e ON gwe.exercise_id = e.exercise_id
		WHERE gwp.group_workout_id = $1
		ORDER BY u.user_id, e.exercise_id`, id)
	if err != nil {
		return nil, mapError("suggested weight rows", err)
	}
	return rows, nil
}

func (r *pgGroupWorkoutRepository) selectList(ctx context.Context, op, query string, args ...interface{}) ([]domain.GroupWorkout, error) {
	workouts := []domain.GroupWorkout{}
	if err := r.db.SelectContext(ctx, &workouts, query, args...); err != nil {
		return nil, mapError(op, err)
	}
	return workouts, nil
}

func (r *pgGroupWorkoutRepository) List(ctx context.Context) ([]domain.GroupWorkout, error) {
	return r.selectList(ctx, "list group workouts",
		`SELECT `+groupWorkoutColumns+` FROM group_workouts ORDER BY date DESC`)
}

// ListByLevel returns workouts of one level. An empty level lists every
// workout ordered by level so callers can bucket them.
func (r *pgGroupWorkoutRepository) ListByLevel(ctx context.Context, level string) ([]domain.GroupWorkout, error) {
	if level == "" {
		return r.selectList(ctx, "list group workouts by level",
			`SELECT `+groupWorkoutColumns+` FROM group_workouts ORDER BY level NULLS LAST, date DESC`)
	}
	return r.selectList(ctx, "list group workouts by level",
		`SELECT `+groupWorkoutColumns+` FROM group_workouts WHERE level = $1 ORDER BY date DESC`, level)
}

func (r *pgGroupWorkoutRepository) ListByTrainer(ctx context.Context, trainerID int64) ([]domain.GroupWorkout, error) {
	return r.selectList(ctx, "list trainer group workouts",
		`SELECT `+groupWorkoutColumns+` FROM group_workouts WHERE trainer_id = $1 ORDER BY date DESC`, trainerID)
}

// ListPublic returns the latest workouts that have no trainer.
func (r *pgGroupWorkoutRepository) ListPublic(ctx context.Context, limit int) ([]domain.GroupWorkout, error) {
	return r.selectList(ctx, "list public group workouts",
		`SELECT `+groupWorkoutColumns+` FROM group_workouts WHERE trainer_id IS NULL ORDER BY date DESC LIMIT $1`, limit)
}

func (r *pgGroupWorkoutRepository) ListMostUsed(ctx context.Context, limit int) ([]domain.GroupWorkout, error) {
	return r.selectList(ctx, "list most used group workouts",
		`SELECT `+groupWorkoutColumns+` FROM group_workouts ORDER BY usage_count DESC, date DESC LIMIT $1`, limit)
}

// Search matches workout names case-insensitively.
func (r *pgGroupWorkoutRepository) Search(ctx context.Context, query string) ([]domain.GroupWorkout, error) {
	return r.selectList(ctx, "search group workouts",
		`SELECT `+groupWorkoutColumns+` FROM group_workouts WHERE name ILIKE $1 ORDER BY name ASC`,
		"%"+escapeLike(query)+"%")
}

// History walks parent_workout_id from id back to the first version.
func (r *pgGroupWorkoutRepository) History(ctx context.Context, id int64) ([]domain.GroupWorkout, error) {
	workouts, err := r.selectList(ctx, "group workout history", `
		WITH RECURSIVE chain AS (
			SELECT gw.*, 0 AS depth
			FROM group_workouts gw
			WHERE gw.group_workout_id = $1
			UNION ALL
			SELECT gw.*, chain.depth + 1
			FROM group_workouts gw
			JOIN chain ON gw.group_workout_id = chain.parent_workout_id
		)
		SELECT `+groupWorkoutColumns+` FROM chain ORDER BY depth`, id)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, repository.ErrNotFound
	}
	return workouts, nil
}
