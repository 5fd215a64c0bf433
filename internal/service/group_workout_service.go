package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrGroupWorkoutNotFound   = apperr.New(apperr.KindNotFound, "Group workout not found.")
	ErrGroupWorkoutInvalid    = apperr.Validation(`Invalid input: "name", "trainer_id", and "exercises" are required.`)
	ErrInvalidTrainerID       = apperr.Validation(`Invalid input: "trainer_id" must be a valid integer.`)
	ErrTrainerIDNotTrainer    = apperr.Validation(`Invalid input: "trainer_id" must reference a trainer.`)
	ErrGroupExerciseInvalid   = apperr.Validation("Every exercise needs an exercise_id and non-negative sets, reps and weight.")
	ErrParticipantInvalid     = apperr.Validation("Every participant needs a user_id.")
	ErrSearchQueryRequired    = apperr.Validation("Search query is required.")
	ErrGroupWorkoutNameEmpty  = apperr.Validation("Name cannot be empty.")
	ErrWorkoutAlreadyFinished = apperr.New(apperr.KindConflict, "Workout already completed by this user.")
)

const (
	publicWorkoutLimit   = 10
	mostUsedWorkoutLimit = 10
)

// CreateGroupWorkoutInput is a new group workout. TrainerID is the raw value
// from the request and must parse as an integer.
type CreateGroupWorkoutInput struct {
	Name         string
	TrainerID    string
	Date         *time.Time
	Notes        *string
	Level        *string
	Duration     *int
	Exercises    []domain.GroupWorkoutExercise
	Participants []domain.GroupWorkoutParticipant
}

// EditGroupWorkoutInput lists the fields to change. Nil fields and an empty
// TrainerID are inherited; nil Exercises copies the previous version's.
type EditGroupWorkoutInput struct {
	Name      *string
	TrainerID string
	Date      *time.Time
	Notes     *string
	Level     *string
	Duration  *int
	Exercises []domain.GroupWorkoutExercise
}

type GroupWorkoutService interface {
	CreateGroupWorkout(ctx context.Context, in CreateGroupWorkoutInput) (*domain.GroupWorkout, error)
	EditGroupWorkout(ctx context.Context, id int64, in EditGroupWorkoutInput) (*domain.GroupWorkout, error)
	FinishGroupWorkout(ctx context.Context, caller Caller, id, userID int64, actuals domain.Actuals) (*domain.CompletedGroupWorkout, error)
	GetGroupWorkoutDetails(ctx context.Context, id int64) (*domain.GroupWorkoutDetails, error)
	GetSuggestedWeights(ctx context.Context, id int64) ([]domain.SuggestedWeight, error)

	ListGroupWorkouts(ctx context.Context) ([]domain.GroupWorkout, error)
	ListByLevel(ctx context.Context, level string) ([]domain.GroupWorkout, error)
	GroupByLevel(ctx context.Context) ([]domain.LevelGroup, error)
	ListYours(ctx context.Context, trainerID int64) ([]domain.GroupWorkout, error)
	ListLast10(ctx context.Context) ([]domain.GroupWorkout, error)
	ListMostUsed(ctx context.Context) ([]domain.GroupWorkout, error)
	Search(ctx context.Context, query string) ([]domain.GroupWorkout, error)
	GetHistory(ctx context.Context, id int64) ([]domain.GroupWorkout, error)
}

type groupWorkoutService struct {
	groupRepo repository.GroupWorkoutRepository
	userRepo  repository.UserRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewGroupWorkoutService(groupRepo repository.GroupWorkoutRepository, userRepo repository.UserRepository, logger *zap.Logger) GroupWorkoutService {
	return &groupWorkoutService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// parseTrainerID accepts the raw trainer_id and checks that it names a user
// whose role allows authoring workouts.
func (s *groupWorkoutService) parseTrainerID(ctx context.Context, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidTrainerID
	}
	trainer, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrTrainerIDNotTrainer
		}
		return 0, translate(err, nil, nil)
	}
	if !trainer.IsTrainer() {
		return 0, ErrTrainerIDNotTrainer
	}
	return id, nil
}

func validateGroupExercises(exercises []domain.GroupWorkoutExercise) error {
	for _, ex := range exercises {
		if ex.ExerciseID <= 0 || ex.Sets < 0 || ex.Reps < 0 || ex.Weight < 0 {
			return ErrGroupExerciseInvalid
		}
	}
	return nil
}

// CreateGroupWorkout stores the workout with its exercises and participants
// and assigns it to every participant.
func (s *groupWorkoutService) CreateGroupWorkout(ctx context.Context, in CreateGroupWorkoutInput) (*domain.GroupWorkout, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.TrainerID) == "" || len(in.Exercises) == 0 {
		return nil, ErrGroupWorkoutInvalid
	}
	if err := validateGroupExercises(in.Exercises); err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(in.Participants))
	for _, p := range in.Participants {
		if p.UserID <= 0 || seen[p.UserID] {
			return nil, ErrParticipantInvalid
		}
		seen[p.UserID] = true
	}
	trainerID, err := s.parseTrainerID(ctx, in.TrainerID)
	if err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}
	workout := &domain.GroupWorkout{
		Name:      name,
		TrainerID: &trainerID,
		Date:      date,
		Notes:     in.Notes,
		Level:     in.Level,
		Duration:  in.Duration,
	}
	if err := s.groupRepo.Create(ctx, workout, in.Exercises, in.Participants); err != nil {
		return nil, translate(err, nil, nil)
	}

	s.logger.Info("group workout created",
		zap.Int64("group_workout_id", workout.ID),
		zap.Int64("trainer_id", trainerID),
		zap.Int("participants", len(in.Participants)))
	return workout, nil
}

// EditGroupWorkout appends a new version of id. The row at id is left as is.
func (s *groupWorkoutService) EditGroupWorkout(ctx context.Context, id int64, in EditGroupWorkoutInput) (*domain.GroupWorkout, error) {
	fields := domain.GroupWorkoutFields{
		Date:     in.Date,
		Notes:    in.Notes,
		Level:    in.Level,
		Duration: in.Duration,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrGroupWorkoutNameEmpty
		}
		fields.Name = &name
	}
	if strings.TrimSpace(in.TrainerID) != "" {
		trainerID, err := s.parseTrainerID(ctx, in.TrainerID)
		if err != nil {
			return nil, err
		}
		fields.TrainerID = &trainerID
	}
	if in.Exercises != nil {
		if len(in.Exercises) == 0 {
			return nil, ErrGroupWorkoutInvalid
		}
		if err := validateGroupExercises(in.Exercises); err != nil {
			return nil, err
		}
	}

	version, err := s.groupRepo.CreateVersion(ctx, id, fields, in.Exercises)
	if err != nil {
		return nil, translate(err, ErrGroupWorkoutNotFound, nil)
	}

	s.logger.Info("group workout edited",
		zap.Int64("parent_workout_id", id),
		zap.Int64("group_workout_id", version.ID))
	return version, nil
}

// FinishGroupWorkout completes the workout for userID, defaulting to the
// caller. Only trainers may finish on behalf of someone else.
func (s *groupWorkoutService) FinishGroupWorkout(ctx context.Context, caller Caller, id, userID int64, actuals domain.Actuals) (*domain.CompletedGroupWorkout, error) {
	if userID == 0 {
		userID = caller.UserID
	}
	if !caller.CanAccessUser(userID) {
		return nil, ErrForbidden
	}

	completed, err := s.groupRepo.Finish(ctx, id, userID, actuals)
	if err != nil {
		return nil, translate(err, ErrGroupWorkoutNotFound, ErrWorkoutAlreadyFinished)
	}
	return completed, nil
}

func (s *groupWorkoutService) GetGroupWorkoutDetails(ctx context.Context, id int64) (*domain.GroupWorkoutDetails, error) {
	workout, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrGroupWorkoutNotFound, nil)
	}
	exercises, err := s.groupRepo.ListExercises(ctx, id)
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	reps, err := s.groupRepo.ListParticipantReps(ctx, id)
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return &domain.GroupWorkoutDetails{
		GroupWorkout: *workout,
		Exercises:    exercises,
		Participants: domain.GroupParticipantReps(reps),
	}, nil
}

// GetSuggestedWeights returns one suggestion per participant and exercise.
func (s *groupWorkoutService) GetSuggestedWeights(ctx context.Context, id int64) ([]domain.SuggestedWeight, error) {
	if _, err := s.groupRepo.GetByID(ctx, id); err != nil {
		return nil, translate(err, ErrGroupWorkoutNotFound, nil)
	}
	rows, err := s.groupRepo.SuggestionRows(ctx, id)
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return suggestWeights(rows), nil
}

func (s *groupWorkoutService) ListGroupWorkouts(ctx context.Context) ([]domain.GroupWorkout, error) {
	workouts, err := s.groupRepo.List(ctx)
	return workouts, translate(err, nil, nil)
}

func (s *groupWorkoutService) ListByLevel(ctx context.Context, level string) ([]domain.GroupWorkout, error) {
	workouts, err := s.groupRepo.ListByLevel(ctx, level)
	return workouts, translate(err, nil, nil)
}

// GroupByLevel returns every workout bucketed by level.
func (s *groupWorkoutService) GroupByLevel(ctx context.Context) ([]domain.LevelGroup, error) {
	workouts, err := s.groupRepo.ListByLevel(ctx, "")
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return domain.GroupByLevel(workouts), nil
}

func (s *groupWorkoutService) ListYours(ctx context.Context, trainerID int64) ([]domain.GroupWorkout, error) {
	workouts, err := s.groupRepo.ListByTrainer(ctx, trainerID)
	return workouts, translate(err, nil, nil)
}

// ListLast10 returns the ten latest public workouts, i.e. those without a
// trainer.
func (s *groupWorkoutService) ListLast10(ctx context.Context) ([]domain.GroupWorkout, error) {
	workouts, err := s.groupRepo.ListPublic(ctx, publicWorkoutLimit)
	return workouts, translate(err, nil, nil)
}

func (s *groupWorkoutService) ListMostUsed(ctx context.Context) ([]domain.GroupWorkout, error) {
	workouts, err := s.groupRepo.ListMostUsed(ctx, mostUsedWorkoutLimit)
	return workouts, translate(err, nil, nil)
}

func (s *groupWorkoutService) Search(ctx context.Context, query string) ([]domain.GroupWorkout, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryRequired
	}
	workouts, err := s.groupRepo.Search(ctx, query)
	return workouts, translate(err, nil, nil)
}

// GetHistory returns the version chain of id, newest first.
func (s *groupWorkoutService) GetHistory(ctx context.Context, id int64) ([]domain.GroupWorkout, error) {
	chain, err := s.groupRepo.History(ctx, id)
	if err != nil {
		return nil, translate(err, ErrGroupWorkoutNotFound, nil)
	}
	return chain, nil
}
