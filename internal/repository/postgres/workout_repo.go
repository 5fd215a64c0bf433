package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

const workoutColumns = `workout_id, user_id, name, date, notes, is_global`

type pgWorkoutRepository struct {
	db *sqlx.DB
}

func NewWorkoutRepository(db *sqlx.DB) repository.WorkoutRepository {
	return &pgWorkoutRepository{db: db}
}

func (r *pgWorkoutRepository) List(ctx context.Context) ([]domain.Workout, error) {
	workouts := []domain.Workout{}
	err := r.db.SelectContext(ctx, &workouts, `SELECT `+workoutColumns+` FROM workouts ORDER BY date DESC`)
	if err != nil {
		return nil, mapError("list workouts", err)
	}
	return workouts, nil
}

func (r *pgWorkoutRepository) Create(ctx context.Context, workout *domain.Workout, rows []domain.WorkoutExercise) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return insertWorkout(ctx, tx, workout, rows)
	})
}

// CreateAndAssign stores a trainer-authored workout and assigns it in a
// single transaction.
func (r *pgWorkoutRepository) CreateAndAssign(ctx context.Context, workout *domain.Workout, rows []domain.WorkoutExercise, assigneeID int64) (*domain.UserWorkout, error) {
	var assignment *domain.UserWorkout
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertWorkout(ctx, tx, workout, rows); err != nil {
			return err
		}
		assignedBy := workout.UserID
		workoutID := workout.ID
		assignment = &domain.UserWorkout{
			UserID:     assigneeID,
			WorkoutID:  &workoutID,
			AssignedBy: &assignedBy,
			Status:     domain.StatusAssigned,
		}
		return insertAssignment(ctx, tx, assignment)
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func insertWorkout(ctx context.Context, tx *sqlx.Tx, workout *domain.Workout, rows []domain.WorkoutExercise) error {
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO workouts (user_id, name, date, notes, is_global)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING workout_id`,
		workout.UserID, workout.Name, workout.Date, workout.Notes, workout.IsGlobal,
	).Scan(&workout.ID)
	if err != nil {
		return mapError("insert workout", err)
	}

	for i := range rows {
		rows[i].WorkoutID = workout.ID
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO workout_exercises (workout_id, exercise_id, sets, reps, weight, rir)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			workout.ID, rows[i].ExerciseID, rows[i].Sets, rows[i].Reps, rows[i].Weight, rows[i].RIR,
		).Scan(&rows[i].ID)
		if err != nil {
			return mapError("insert workout exercise", err)
		}
	}
	return nil
}

func insertAssignment(ctx context.Context, tx *sqlx.Tx, a *domain.UserWorkout) error {
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO user_workouts (user_id, workout_id, group_workout_id, assigned_by, status, assigned_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, assigned_at`,
		a.UserID, a.WorkoutID, a.GroupWorkoutID, a.AssignedBy, a.Status,
	).Scan(&a.ID, &a.AssignedAt)
	return mapError("insert assignment", err)
}

func (r *pgWorkoutRepository) GetByID(ctx context.Context, id int64) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.db.GetContext(ctx, &workout, `SELECT `+workoutColumns+` FROM workouts WHERE workout_id = $1`, id)
	if err != nil {
		return nil, mapError("get workout", err)
	}
	return &workout, nil
}

func (r *pgWorkoutRepository) ListExercises(ctx context.Context, workoutID int64) ([]domain.WorkoutExerciseDetail, error) {
	rows := []domain.WorkoutExerciseDetail{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT we.exercise_id, e.name AS exercise_name, we.sets, we.reps, we.weight, we.rir
		FROM workout_exercises we
		JOIN exercises e ON we.exercise_id = e.exercise_id
		WHERE we.workout_id = $1
		ORDER BY we.id`, workoutID)
	if err != nil {
		return nil, mapError("list workout exercises", err)
	}
	return rows, nil
}

// ListByUser returns the workouts a user owns, newest first.
func (r *pgWorkoutRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Workout, error) {
	workouts := []domain.Workout{}
	err := r.db.SelectContext(ctx, &workouts,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, mapError("list workout history", err)
	}
	return workouts, nil
}

func (r *pgWorkoutRepository) ListAssigned(ctx context.Context, userID int64) ([]domain.AssignedWorkout, error) {
	assigned := []domain.AssignedWorkout{}
	err := r.db.SelectContext(ctx, &assigned, `
		SELECT uw.id AS assignment_id, w.workout_id, w.name, w.date, w.notes,
		       uw.assigned_by, uw.status, uw.assigned_at, uw.completed_at
		FROM user_workouts uw
		JOIN workouts w ON uw.workout_id = w.workout_id
		WHERE uw.user_id = $1
		ORDER BY uw.assigned_at DESC`, userID)
	if err != nil {
		return nil, mapError("list assigned workouts", err)
	}
	return assigned, nil
}

// Progress returns every logged set of an exercise by a user in date order.
func (r *pgWorkoutRepository) Progress(ctx context.Context, userID, exerciseID int64) ([]domain.ProgressPoint, error) {
	points := []domain.ProgressPoint{}
	err := r.db.SelectContext(ctx, &points, `
		SELECT we.weight, we.reps, w.date
		FROM workout_exercises we
		JOIN workouts w ON we.workout_id = w.workout_id
		WHERE we.exercise_id = $1 AND w.user_id = $2
		ORDER BY w.date ASC`, exerciseID, userID)
	if err != nil {
		return nil, mapError("exercise progress", err)
	}
	return points, nil
}

func (r *pgWorkoutRepository) WeeklyCounts(ctx context.Context, userID int64) ([]domain.WeeklyCount, error) {
	counts := []domain.WeeklyCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT DATE_TRUNC('week', uw.completed_at) AS week, COUNT(*) AS workout_count
		FROM user_workouts uw
		WHERE uw.user_id = $1 AND uw.completed_at IS NOT NULL
		GROUP BY week
		ORDER BY week ASC`, userID)
	if err != nil {
		return nil, mapError("workouts per week", err)
	}
	return counts, nil
}

// PublicHistory lists a user's assignments of global workouts, most recently
// completed first.
func (r *pgWorkoutRepository) PublicHistory(ctx context.Context, userID int64) ([]domain.PublicWorkoutEntry, error) {
	entries := []domain.PublicWorkoutEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT w.workout_id, w.name, uw.status, uw.assigned_at, uw.completed_at
		FROM user_workouts uw
		JOIN workouts w ON uw.workout_id = w.workout_id
		WHERE uw.user_id = $1 AND w.is_global = TRUE
		ORDER BY uw.completed_at DESC NULLS LAST`, userID)
	if err != nil {
		return nil, mapError("public workout history", err)
	}
	return entries, nil
}
