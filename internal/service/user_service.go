package service

import (
	"context"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

var ErrUserNotFound = apperr.New(apperr.KindNotFound, "User not found")

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetProfile returns the user behind an access token.
func (s *userService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, ErrUserNotFound, nil)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
