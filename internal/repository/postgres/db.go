package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"horizon/coach-api/internal/config"
	"horizon/coach-api/internal/repository"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB opens the pool described by cfg and verifies it with a ping.
func ConnectDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

type healthRepository struct {
	db *sqlx.DB
}

func NewHealthRepository(db *sqlx.DB) repository.HealthRepository {
	return &healthRepository{db: db}
}

func (r *healthRepository) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := r.db.GetContext(ctx, &now, `SELECT NOW()`); err != nil {
		return time.Time{}, fmt.Errorf("health query: %w", err)
	}
	return now, nil
}
