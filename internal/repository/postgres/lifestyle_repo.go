package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

type pgLifestyleRepository struct {
	db *sqlx.DB
}

func NewLifestyleRepository(db *sqlx.DB) repository.LifestyleRepository {
	return &pgLifestyleRepository{db: db}
}

// Create appends an entry dated now.
func (r *pgLifestyleRepository) Create(ctx context.Context, entry *domain.LifestyleEntry) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO lifestyle_data (user_id, stress, sleep, soreness, calories, weight, note, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, date`,
		entry.UserID, entry.Stress, entry.Sleep, entry.Soreness, entry.Calories, entry.Weight, entry.Note,
	).Scan(&entry.ID, &entry.Date)
	return mapError("insert lifestyle entry", err)
}

// ListByUser returns a user's entries, newest first.
func (r *pgLifestyleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.LifestyleEntry, error) {
	entries := []domain.LifestyleEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, stress, sleep, soreness, calories, weight, note, date
		FROM lifestyle_data
		WHERE user_id = $1
		ORDER BY date DESC`, userID)
	if err != nil {
		return nil, mapError("list lifestyle entries", err)
	}
	return entries, nil
}
