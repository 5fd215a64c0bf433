package service

import (
	"context"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

var ErrLifestyleInvalid = apperr.Validation("Lifestyle values cannot be negative.")

type LifestyleService interface {
	ListEntries(ctx context.Context, caller Caller, userID int64) ([]domain.LifestyleEntry, error)
	AddEntry(ctx context.Context, caller Caller, userID int64, entry domain.LifestyleEntry) (*domain.LifestyleEntry, error)
}

type lifestyleService struct {
	lifestyleRepo repository.LifestyleRepository
}

func NewLifestyleService(lifestyleRepo repository.LifestyleRepository) LifestyleService {
	return &lifestyleService{lifestyleRepo: lifestyleRepo}
}

// ListEntries returns the entries of userID, newest first.
func (s *lifestyleService) ListEntries(ctx context.Context, caller Caller, userID int64) ([]domain.LifestyleEntry, error) {
	if !caller.CanAccessUser(userID) {
		return nil, ErrForbidden
	}
	entries, err := s.lifestyleRepo.ListByUser(ctx, userID)
	return entries, translate(err, nil, nil)
}

// AddEntry appends an entry for userID dated now.
func (s *lifestyleService) AddEntry(ctx context.Context, caller Caller, userID int64, entry domain.LifestyleEntry) (*domain.LifestyleEntry, error) {
	if !caller.CanAccessUser(userID) {
		return nil, ErrForbidden
	}
	if negativeInt(entry.Stress) || negativeInt(entry.Soreness) || negativeInt(entry.Calories) ||
		negativeFloat(entry.Sleep) || negativeFloat(entry.Weight) {
		return nil, ErrLifestyleInvalid
	}
	entry.UserID = userID

	if err := s.lifestyleRepo.Create(ctx, &entry); err != nil {
		return nil, translate(err, nil, nil)
	}
	return &entry, nil
}

func negativeInt(v *int) bool {
	return v != nil && *v < 0
}

func negativeFloat(v *float64) bool {
	return v != nil && *v < 0
}
