package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

const exerciseColumns = `exercise_id, name, muscle_group, difficulty,
	men_starterweight, men_intermediateweight, men_advancedweight,
	women_starterweight, women_intermediateweight, women_advancedweight,
	media_key, created_at, updated_at`

// pgExerciseRepository implements repository.ExerciseRepository
type pgExerciseRepository struct {
	db *sqlx.DB
}

// NewExerciseRepository creates a new Exercise repository backed by Postgres.
func NewExerciseRepository(db *sqlx.DB) repository.ExerciseRepository {
	return &pgExerciseRepository{db: db}
}

// Create inserts a new exercise. Names are unique across the catalog.
func (r *pgExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.Name == "" {
		return errors.New("exercise name is required")
	}

	query := `
		INSERT INTO exercises (name, muscle_group, difficulty,
			men_starterweight, men_intermediateweight, men_advancedweight,
			women_starterweight, women_intermediateweight, women_advancedweight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING exercise_id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		exercise.Name, exercise.MuscleGroup, exercise.Difficulty,
		exercise.MenStarterWeight, exercise.MenIntermediateWeight, exercise.MenAdvancedWeight,
		exercise.WomenStarterWeight, exercise.WomenIntermediateWeight, exercise.WomenAdvancedWeight,
	).Scan(&exercise.ID, &exercise.CreatedAt, &exercise.UpdatedAt)
	return mapError("insert exercise", err)
}

// GetByID retrieves an exercise by its ID.
func (r *pgExerciseRepository) GetByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.db.GetContext(ctx, &exercise, `SELECT `+exerciseColumns+` FROM exercises WHERE exercise_id = $1`, id)
	if err != nil {
		return nil, mapError("get exercise", err)
	}
	return &exercise, nil
}

func (r *pgExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	err := r.db.SelectContext(ctx, &exercises, `SELECT `+exerciseColumns+` FROM exercises ORDER BY name`)
	if err != nil {
		return nil, mapError("list exercises", err)
	}
	return exercises, nil
}

// Update modifies an existing exercise and bumps updated_at. The media key is
// left alone; it changes only through SetMediaKey.
func (r *pgExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	query := `
		UPDATE exercises SET
			name = $1, muscle_group = $2, difficulty = $3,
			men_starterweight = $4, men_intermediateweight = $5, men_advancedweight = $6,
			women_starterweight = $7, women_intermediateweight = $8, women_advancedweight = $9,
			updated_at = NOW()
		WHERE exercise_id = $10
		RETURNING created_at, updated_at, media_key`
	err := r.db.QueryRowxContext(ctx, query,
		exercise.Name, exercise.MuscleGroup, exercise.Difficulty,
		exercise.MenStarterWeight, exercise.MenIntermediateWeight, exercise.MenAdvancedWeight,
		exercise.WomenStarterWeight, exercise.WomenIntermediateWeight, exercise.WomenAdvancedWeight,
		exercise.ID,
	).Scan(&exercise.CreatedAt, &exercise.UpdatedAt, &exercise.MediaKey)
	return mapError("update exercise", err)
}

// Delete removes an exercise. Exercises still referenced by a workout yield
// repository.ErrInvalidReference.
func (r *pgExerciseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exercises WHERE exercise_id = $1`, id)
	if err != nil {
		return mapError("delete exercise", err)
	}
	return requireAffected(res)
}

func (r *pgExerciseRepository) SetMediaKey(ctx context.Context, id int64, key string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE exercises SET media_key = $1, updated_at = NOW() WHERE exercise_id = $2`, key, id)
	if err != nil {
		return mapError("set exercise media", err)
	}
	return requireAffected(res)
}
