package service

import (
	"context"
	"strings"
	"time"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

var (
	ErrWorkoutNotFound     = apperr.New(apperr.KindNotFound, "Workout not found")
	ErrWorkoutInvalidInput = apperr.Validation(`Invalid input: "name" and "exercises" are required fields.`)
	ErrWorkoutInvalidSet   = apperr.Validation("Every exercise needs an exercise_id and at least one set with non-negative reps and weight.")
	ErrAssigneeRequired    = apperr.Validation("userId is required.")
)

// CreateWorkoutInput is a logged session: each exercise carries its sets.
type CreateWorkoutInput struct {
	Name      string
	Date      *time.Time
	Notes     *string
	Exercises []domain.WorkoutExerciseInput
}

// AssignWorkoutInput is a trainer-planned session for one client.
type AssignWorkoutInput struct {
	UserID    int64
	Name      string
	Date      *time.Time
	Notes     *string
	IsGlobal  bool
	Exercises []domain.PlannedExercise
}

type WorkoutService interface {
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	CreateWorkout(ctx context.Context, userID int64, in CreateWorkoutInput) (*domain.Workout, error)
	GetWorkoutDetails(ctx context.Context, id int64) (*domain.WorkoutDetails, error)
	GetHistory(ctx context.Context, userID int64) ([]domain.Workout, error)
	GetAssigned(ctx context.Context, userID int64) ([]domain.AssignedWorkout, error)
	GetExerciseProgress(ctx context.Context, userID, exerciseID int64) ([]domain.ProgressPoint, error)
	GetWorkoutsPerWeek(ctx context.Context, userID int64) ([]domain.WeeklyCount, error)
	GetPublicHistory(ctx context.Context, userID int64) ([]domain.PublicWorkoutEntry, error)
	CreateAndAssign(ctx context.Context, trainerID int64, in AssignWorkoutInput) (*domain.UserWorkout, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	now         func() time.Time
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo, now: time.Now}
}

func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.List(ctx)
	return workouts, translate(err, nil, nil)
}

// CreateWorkout stores a workout owned by userID. Every submitted set becomes
// one row whose sets column holds the number of sets of that exercise.
func (s *workoutService) CreateWorkout(ctx context.Context, userID int64, in CreateWorkoutInput) (*domain.Workout, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(in.Exercises) == 0 {
		return nil, ErrWorkoutInvalidInput
	}

	var rows []domain.WorkoutExercise
	for _, ex := range in.Exercises {
		if ex.ExerciseID <= 0 || len(ex.Sets) == 0 {
			return nil, ErrWorkoutInvalidSet
		}
		for _, set := range ex.Sets {
			if set.Reps < 0 || set.Weight < 0 {
				return nil, ErrWorkoutInvalidSet
			}
			rows = append(rows, domain.WorkoutExercise{
				ExerciseID: ex.ExerciseID,
				Sets:       len(ex.Sets),
				Reps:       set.Reps,
				Weight:     set.Weight,
				RIR:        set.RIR,
			})
		}
	}

	workout := &domain.Workout{
		UserID: userID,
		Name:   name,
		Date:   s.dateOrNow(in.Date),
		Notes:  in.Notes,
	}
	if err := s.workoutRepo.Create(ctx, workout, rows); err != nil {
		return nil, translate(err, nil, nil)
	}
	return workout, nil
}

func (s *workoutService) GetWorkoutDetails(ctx context.Context, id int64) (*domain.WorkoutDetails, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrWorkoutNotFound, nil)
	}
	exercises, err := s.workoutRepo.ListExercises(ctx, id)
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return &domain.WorkoutDetails{Workout: *workout, Exercises: exercises}, nil
}

func (s *workoutService) GetHistory(ctx context.Context, userID int64) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListByUser(ctx, userID)
	return workouts, translate(err, nil, nil)
}

func (s *workoutService) GetAssigned(ctx context.Context, userID int64) ([]domain.AssignedWorkout, error) {
	assigned, err := s.workoutRepo.ListAssigned(ctx, userID)
	return assigned, translate(err, nil, nil)
}

func (s *workoutService) GetExerciseProgress(ctx context.Context, userID, exerciseID int64) ([]domain.ProgressPoint, error) {
	points, err := s.workoutRepo.Progress(ctx, userID, exerciseID)
	return points, translate(err, nil, nil)
}

func (s *workoutService) GetWorkoutsPerWeek(ctx context.Context, userID int64) ([]domain.WeeklyCount, error) {
	counts, err := s.workoutRepo.WeeklyCounts(ctx, userID)
	return counts, translate(err, nil, nil)
}

func (s *workoutService) GetPublicHistory(ctx context.Context, userID int64) ([]domain.PublicWorkoutEntry, error) {
	entries, err := s.workoutRepo.PublicHistory(ctx, userID)
	return entries, translate(err, nil, nil)
}

// CreateAndAssign stores a workout authored by trainerID and assigns it to
// in.UserID in one transaction.
func (s *workoutService) CreateAndAssign(ctx context.Context, trainerID int64, in AssignWorkoutInput) (*domain.UserWorkout, error) {
	if in.UserID <= 0 {
		return nil, ErrAssigneeRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len(in.Exercises) == 0 {
		return nil, ErrWorkoutInvalidInput
	}

	rows := make([]domain.WorkoutExercise, 0, len(in.Exercises))
	for _, ex := range in.Exercises {
		if ex.ExerciseID <= 0 || ex.Sets < 0 || ex.Reps < 0 || ex.Weight < 0 {
			return nil, ErrWorkoutInvalidSet
		}
		rows = append(rows, domain.WorkoutExercise{
			ExerciseID: ex.ExerciseID,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Weight:     ex.Weight,
		})
	}

	workout := &domain.Workout{
		UserID:   trainerID,
		Name:     name,
		Date:     s.dateOrNow(in.Date),
		Notes:    in.Notes,
		IsGlobal: in.IsGlobal,
	}
	assignment, err := s.workoutRepo.CreateAndAssign(ctx, workout, rows, in.UserID)
	if err != nil {
		return nil, translate(err, nil, nil)
	}
	return assignment, nil
}

func (s *workoutService) dateOrNow(d *time.Time) time.Time {
	if d == nil || d.IsZero() {
		return s.now().UTC()
	}
	return *d
}
