package service

import (
	"context"
	"time"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/repository"
)

type HealthService interface {
	Check(ctx context.Context) (time.Time, error)
}

type healthService struct {
	repo repository.HealthRepository
}

func NewHealthService(repo repository.HealthRepository) HealthService {
	return &healthService{repo: repo}
}

// Check performs a database round trip and returns the database clock.
func (s *healthService) Check(ctx context.Context) (time.Time, error) {
	now, err := s.repo.Now(ctx)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.KindUnavailable, "Database connection failed", err)
	}
	return now, nil
}
