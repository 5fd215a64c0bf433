package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrIntakeNotFound      = apperr.New(apperr.KindNotFound, "No intake data found for this user.")
	ErrIntakeAlreadyExists = apperr.New(apperr.KindConflict, "Intake data already submitted for this user.")
	ErrIntakeInvalid       = apperr.Validation(`Invalid input: "client_name", "sex" and "age" are required.`)
)

type IntakeService interface {
	GetIntake(ctx context.Context, caller Caller, userID int64) (*domain.Intake, error)
	SubmitIntake(ctx context.Context, caller Caller, userID int64, intake domain.Intake) (*domain.Intake, error)
}

type intakeService struct {
	intakeRepo repository.IntakeRepository
	logger     *zap.Logger
}

func NewIntakeService(intakeRepo repository.IntakeRepository, logger *zap.Logger) IntakeService {
	return &intakeService{intakeRepo: intakeRepo, logger: logger}
}

func (s *intakeService) GetIntake(ctx context.Context, caller Caller, userID int64) (*domain.Intake, error) {
	if !caller.CanAccessUser(userID) {
		return nil, ErrForbidden
	}
	intake, err := s.intakeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err, ErrIntakeNotFound, nil)
	}
	return intake, nil
}

// SubmitIntake stores the one intake of userID. A second submission fails
// with ErrIntakeAlreadyExists and leaves the stored row unchanged.
func (s *intakeService) SubmitIntake(ctx context.Context, caller Caller, userID int64, intake domain.Intake) (*domain.Intake, error) {
	if !caller.CanAccessUser(userID) {
		return nil, ErrForbidden
	}
	intake.ClientName = strings.TrimSpace(intake.ClientName)
	if intake.ClientName == "" || intake.Sex == 0 || intake.Age <= 0 {
		return nil, ErrIntakeInvalid
	}
	intake.UserID = userID

	if err := s.intakeRepo.Create(ctx, &intake); err != nil {
		return nil, translate(err, nil, ErrIntakeAlreadyExists)
	}
	s.logger.Info("intake submitted", zap.Int64("user_id", userID))
	return &intake, nil
}
