package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

// recordingWorkoutRepo captures what the service hands to the repository.
type recordingWorkoutRepo struct {
	repository.WorkoutRepository
	workout    *domain.Workout
	rows       []domain.WorkoutExercise
	assigneeID int64
}

func (r *recordingWorkoutRepo) Create(_ context.Context, w *domain.Workout, rows []domain.WorkoutExercise) error {
	w.ID = 11
	r.workout, r.rows = w, rows
	return nil
}

func (r *recordingWorkoutRepo) CreateAndAssign(_ context.Context, w *domain.Workout, rows []domain.WorkoutExercise, assigneeID int64) (*domain.UserWorkout, error) {
	w.ID = 12
	r.workout, r.rows, r.assigneeID = w, rows, assigneeID
	id := w.ID
	return &domain.UserWorkout{ID: 1, UserID: assigneeID, WorkoutID: &id, AssignedBy: &w.UserID, Status: domain.StatusAssigned}, nil
}

func (r *recordingWorkoutRepo) GetByID(_ context.Context, id int64) (*domain.Workout, error) {
	return nil, repository.ErrNotFound
}

func TestCreateWorkout_OneRowPerSet(t *testing.T) {
	repo := &recordingWorkoutRepo{}
	svc := NewWorkoutService(repo)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.(*workoutService).now = func() time.Time { return fixed }

	w, err := svc.CreateWorkout(context.Background(), 4, CreateWorkoutInput{
		Name: "Push",
		Exercises: []domain.WorkoutExerciseInput{{
			ExerciseID: 2,
			Sets:       []domain.WorkoutSet{{Weight: 60, Reps: 8}, {Weight: 62.5, Reps: 6, RIR: intp(1)}},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(11), w.ID)
	assert.Equal(t, int64(4), repo.workout.UserID)
	assert.Equal(t, fixed, repo.workout.Date)
	require.Len(t, repo.rows, 2)
	for _, row := range repo.rows {
		assert.Equal(t, 2, row.Sets)
	}
	assert.Equal(t, 62.5, repo.rows[1].Weight)
	assert.Equal(t, 1, *repo.rows[1].RIR)
}

func TestCreateWorkout_Validation(t *testing.T) {
	svc := NewWorkoutService(&recordingWorkoutRepo{})
	ctx := context.Background()

	_, err := svc.CreateWorkout(ctx, 1, CreateWorkoutInput{Name: "Push"})
	assert.ErrorIs(t, err, ErrWorkoutInvalidInput)

	_, err = svc.CreateWorkout(ctx, 1, CreateWorkoutInput{
		Name:      "Push",
		Exercises: []domain.WorkoutExerciseInput{{ExerciseID: 2}},
	})
	assert.ErrorIs(t, err, ErrWorkoutInvalidSet)

	_, err = svc.CreateWorkout(ctx, 1, CreateWorkoutInput{
		Name:      "Push",
		Exercises: []domain.WorkoutExerciseInput{{ExerciseID: 2, Sets: []domain.WorkoutSet{{Reps: -3}}}},
	})
	assert.ErrorIs(t, err, ErrWorkoutInvalidSet)
}

func TestCreateAndAssign(t *testing.T) {
	repo := &recordingWorkoutRepo{}
	svc := NewWorkoutService(repo)
	ctx := context.Background()

	_, err := svc.CreateAndAssign(ctx, 7, AssignWorkoutInput{Name: "Pull"})
	assert.ErrorIs(t, err, ErrAssigneeRequired)

	assignment, err := svc.CreateAndAssign(ctx, 7, AssignWorkoutInput{
		UserID:    3,
		Name:      "Pull",
		IsGlobal:  true,
		Exercises: []domain.PlannedExercise{{ExerciseID: 5, Sets: 4, Reps: 8, Weight: 50}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), assignment.UserID)
	assert.Equal(t, int64(7), *assignment.AssignedBy)
	assert.Equal(t, int64(7), repo.workout.UserID)
	assert.True(t, repo.workout.IsGlobal)
	assert.Equal(t, int64(3), repo.assigneeID)
}

func TestGetWorkoutDetails_NotFound(t *testing.T) {
	svc := NewWorkoutService(&recordingWorkoutRepo{})
	_, err := svc.GetWorkoutDetails(context.Background(), 1)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}
