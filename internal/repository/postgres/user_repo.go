package postgres

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

const userColumns = `user_id, username, password, role, level, created_at`

// pgUserRepository implements repository.UserRepository.
type pgUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a user repository backed by Postgres.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &pgUserRepository{db: db}
}

// Create inserts a new user and fills in its generated id and timestamp.
// A taken username yields repository.ErrConflict.
func (r *pgUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Username == "" || user.PasswordHash == "" || user.Role == "" {
		return errors.New("user username, password hash, and role are required")
	}

	query := `
		INSERT INTO users (username, password, role, level)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at`
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.Level).
		Scan(&user.ID, &user.CreatedAt)
	return mapError("insert user", err)
}

func (r *pgUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	if err != nil {
		return nil, mapError("get user", err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, mapError("get user by username", err)
	}
	return &user, nil
}

func (r *pgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, mapError("list users", err)
	}
	return users, nil
}

// UpdatePassword replaces the stored password hash of a user.
func (r *pgUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password = $1 WHERE user_id = $2`, passwordHash, id)
	if err != nil {
		return mapError("update password", err)
	}
	return requireAffected(res)
}
