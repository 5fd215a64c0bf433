package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

const intakeColumns = `id, user_id, client_name, sex, age, fat_percentage, height_cm, weight_category,
	bmi, ffmi, athleticism_score, movement_shoulder, movement_hips, movement_ankles,
	movement_thoracic, genetics, created_at`

type pgIntakeRepository struct {
	db *sqlx.DB
}

func NewIntakeRepository(db *sqlx.DB) repository.IntakeRepository {
	return &pgIntakeRepository{db: db}
}

// Create stores the intake of a user. The unique index on user_id turns a
// second submission into repository.ErrConflict and leaves the first row
// untouched.
func (r *pgIntakeRepository) Create(ctx context.Context, intake *domain.Intake) error {
	query := `
		INSERT INTO intake (user_id, client_name, sex, age, fat_percentage, height_cm, weight_category,
			bmi, ffmi, athleticism_score, movement_shoulder, movement_hips, movement_ankles,
			movement_thoracic, genetics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query,
		intake.UserID, intake.ClientName, intake.Sex, intake.Age, intake.FatPercentage,
		intake.HeightCM, intake.WeightCategory, intake.BMI, intake.FFMI, intake.AthleticismScore,
		intake.MovementShoulder, intake.MovementHips, intake.MovementAnkles,
		intake.MovementThoracic, intake.Genetics,
	).Scan(&intake.ID, &intake.CreatedAt)
	return mapError("insert intake", err)
}

func (r *pgIntakeRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Intake, error) {
	var intake domain.Intake
	err := r.db.GetContext(ctx, &intake, `SELECT `+intakeColumns+` FROM intake WHERE user_id = $1`, userID)
	if err != nil {
		return nil, mapError("get intake", err)
	}
	return &intake, nil
}
