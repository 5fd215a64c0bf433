package repository

import (
	"context"
	"time"

	"horizon/coach-api/internal/domain"
)

// Error constants for the repository layer. Implementations wrap them so
// callers can use errors.Is.
var (
	ErrNotFound         = RepositoryError("not found")
	ErrConflict         = RepositoryError("conflict")
	ErrInvalidReference = RepositoryError("invalid reference")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id int64) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id int64) error
	SetMediaKey(ctx context.Context, id int64, key string) error
}

// WorkoutRepository defines the interface for personal and trainer-created
// workouts and their assignments.
type WorkoutRepository interface {
	List(ctx context.Context) ([]domain.Workout, error)
	// Create inserts the workout and its exercise rows in one transaction.
	Create(ctx context.Context, workout *domain.Workout, rows []domain.WorkoutExercise) error
	// CreateAndAssign additionally inserts an assignment for assigneeID.
	CreateAndAssign(ctx context.Context, workout *domain.Workout, rows []domain.WorkoutExercise, assigneeID int64) (*domain.UserWorkout, error)
	GetByID(ctx context.Context, id int64) (*domain.Workout, error)
	ListExercises(ctx context.Context, workoutID int64) ([]domain.WorkoutExerciseDetail, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Workout, error)
	ListAssigned(ctx context.Context, userID int64) ([]domain.AssignedWorkout, error)
	Progress(ctx context.Context, userID, exerciseID int64) ([]domain.ProgressPoint, error)
	WeeklyCounts(ctx context.Context, userID int64) ([]domain.WeeklyCount, error)
	PublicHistory(ctx context.Context, userID int64) ([]domain.PublicWorkoutEntry, error)
}

// GroupWorkoutRepository defines the interface for versioned group workouts.
// Versions are append-only: no method updates an existing group_workouts row
// other than its usage counter.
type GroupWorkoutRepository interface {
	Create(ctx context.Context, workout *domain.GroupWorkout, exercises []domain.GroupWorkoutExercise, participants []domain.GroupWorkoutParticipant) error
	// CreateVersion inserts a child of parentID. A nil exercises slice copies
	// the parent's exercises.
	CreateVersion(ctx context.Context, parentID int64, fields domain.GroupWorkoutFields, exercises []domain.GroupWorkoutExercise) (*domain.GroupWorkout, error)
	Finish(ctx context.Context, id, userID int64, actuals domain.Actuals) (*domain.CompletedGroupWorkout, error)

	GetByID(ctx context.Context, id int64) (*domain.GroupWorkout, error)
	ListExercises(ctx context.Context, id int64) ([]domain.GroupWorkoutExercise, error)
	ListParticipantReps(ctx context.Context, id int64) ([]domain.ParticipantRep, error)
	SuggestionRows(ctx context.Context, id int64) ([]domain.SuggestionRow, error)

	List(ctx context.Context) ([]domain.GroupWorkout, error)
	ListByLevel(ctx context.Context, level string) ([]domain.GroupWorkout, error)
	ListByTrainer(ctx context.Context, trainerID int64) ([]domain.GroupWorkout, error)
	ListPublic(ctx context.Context, limit int) ([]domain.GroupWorkout, error)
	ListMostUsed(ctx context.Context, limit int) ([]domain.GroupWorkout, error)
	Search(ctx context.Context, query string) ([]domain.GroupWorkout, error)
	// History returns the version chain ending at id, newest first.
	History(ctx context.Context, id int64) ([]domain.GroupWorkout, error)
}

// IntakeRepository stores the one-per-user intake assessment.
type IntakeRepository interface {
	Create(ctx context.Context, intake *domain.Intake) error
	GetByUserID(ctx context.Context, userID int64) (*domain.Intake, error)
}

type LifestyleRepository interface {
	Create(ctx context.Context, entry *domain.LifestyleEntry) error
	ListByUser(ctx context.Context, userID int64) ([]domain.LifestyleEntry, error)
}

// HealthRepository reports the database clock, proving a round trip.
type HealthRepository interface {
	Now(ctx context.Context) (time.Time, error)
}
