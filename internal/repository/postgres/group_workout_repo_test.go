package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

var groupWorkoutCols = []string{"group_workout_id", "name", "trainer_id", "date", "notes", "level",
	"duration", "usage_count", "parent_workout_id", "created_at"}

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestGroupWorkoutRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO group_workouts`).
		WithArgs("Leg Day", int64(7), sqlmock.AnyArg(), nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"group_workout_id", "usage_count", "created_at"}).AddRow(int64(11), 0, now))
	mock.ExpectQuery(`INSERT INTO group_workout_exercises`).
		WithArgs(int64(11), int64(3), int64(0), int64(3), int64(10), 40.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))
	mock.ExpectQuery(`INSERT INTO group_workout_exercises`).
		WithArgs(int64(11), int64(4), int64(1), int64(0), int64(0), 0.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(102)))
	mock.ExpectQuery(`INSERT INTO group_workout_participants`).
		WithArgs(int64(11), int64(20), nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(201)))
	mock.ExpectQuery(`INSERT INTO user_workouts`).
		WithArgs(int64(20), nil, int64(11), int64(7), "assigned").
		WillReturnRows(sqlmock.NewRows([]string{"id", "assigned_at"}).AddRow(int64(301), now))
	mock.ExpectCommit()

	workout := &domain.GroupWorkout{Name: "Leg Day", TrainerID: int64p(7), Date: now}
	exercises := []domain.GroupWorkoutExercise{
		{ExerciseID: 3, Sets: 3, Reps: 10, Weight: 40},
		{ExerciseID: 4},
	}
	participants := []domain.GroupWorkoutParticipant{{UserID: 20}}

	require.NoError(t, repo.Create(context.Background(), workout, exercises, participants))
	assert.Equal(t, int64(11), workout.ID)
	assert.Equal(t, 1, exercises[1].Position)
	assert.Equal(t, int64(11), participants[0].GroupWorkoutID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkoutRepository_CreateRollsBackOnChildFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO group_workouts`).
		WillReturnRows(sqlmock.NewRows([]string{"group_workout_id", "usage_count", "created_at"}).AddRow(int64(11), 0, time.Now()))
	mock.ExpectQuery(`INSERT INTO group_workout_exercises`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(),
		&domain.GroupWorkout{Name: "Leg Day", Date: time.Now()},
		[]domain.GroupWorkoutExercise{{ExerciseID: 3}}, nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The parent row must only be read. sqlmock fails on any statement that was
// not expected, so an UPDATE of group_workouts would fail this test.
func TestGroupWorkoutRepository_CreateVersionLeavesParentUntouched(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)
	parentDate := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM group_workouts WHERE group_workout_id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(groupWorkoutCols).
			AddRow(int64(11), "Leg Day", int64(7), parentDate, "old notes", "Novice", 45, 3, nil, now))
	mock.ExpectQuery(`INSERT INTO group_workouts`).
		WithArgs("Leg Day v2", int64(7), parentDate, "old notes", "Novice", int64(60), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"group_workout_id", "usage_count", "created_at"}).AddRow(int64(12), 0, now))
	mock.ExpectExec(`INSERT INTO group_workout_exercises .* SELECT`).
		WithArgs(int64(12), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO group_workout_participants .* SELECT`).
		WithArgs(int64(12), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE user_workouts SET group_workout_id = \$1 WHERE group_workout_id = \$2`).
		WithArgs(int64(12), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	version, err := repo.CreateVersion(context.Background(), 11,
		domain.GroupWorkoutFields{Name: strp("Leg Day v2"), Duration: intp(60)}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), version.ID)
	require.NotNil(t, version.ParentWorkoutID)
	assert.Equal(t, int64(11), *version.ParentWorkoutID)
	assert.Equal(t, "Leg Day v2", version.Name)
	assert.Equal(t, parentDate, version.Date)
	assert.Equal(t, "Novice", *version.Level)
	assert.Equal(t, 60, *version.Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkoutRepository_CreateVersionMissingParent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM group_workouts WHERE group_workout_id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(groupWorkoutCols))
	mock.ExpectRollback()

	_, err := repo.CreateVersion(context.Background(), 404, domain.GroupWorkoutFields{}, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkoutRepository_Finish(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT group_workout_id FROM group_workouts WHERE group_workout_id = \$1 FOR UPDATE`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"group_workout_id"}).AddRow(int64(11)))
	mock.ExpectExec(`UPDATE user_workouts`).
		WithArgs(int64(3), int64(10), 42.5, int64(20), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO completed_group_workouts`).
		WithArgs(int64(11), int64(20), int64(3), int64(10), 42.5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "completed_at"}).AddRow(int64(501), now))
	mock.ExpectExec(`UPDATE group_workouts SET usage_count = usage_count \+ 1`).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	weight := 42.5
	done, err := repo.Finish(context.Background(), 11, 20,
		domain.Actuals{Sets: intp(3), Reps: intp(10), Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, int64(501), done.ID)
	assert.Equal(t, now, done.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkoutRepository_FinishTwiceConflicts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"group_workout_id"}).AddRow(int64(11)))
	mock.ExpectExec(`UPDATE user_workouts`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(20), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Finish(context.Background(), 11, 20, domain.Actuals{})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkoutRepository_FinishUnassignedRecordsCompletion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"group_workout_id"}).AddRow(int64(11)))
	mock.ExpectExec(`UPDATE user_workouts`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO user_workouts`).
		WithArgs(int64(20), int64(11), nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO completed_group_workouts`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "completed_at"}).AddRow(int64(502), time.Now()))
	mock.ExpectExec(`UPDATE group_workouts SET usage_count`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := repo.Finish(context.Background(), 11, 20, domain.Actuals{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkoutRepository_FinishMissingWorkout(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"group_workout_id"}))
	mock.ExpectRollback()

	_, err := repo.Finish(context.Background(), 404, 20, domain.Actuals{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupWorkoutRepository_History(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)
	now := time.Now()

	mock.ExpectQuery(`WITH RECURSIVE chain`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(groupWorkoutCols).
			AddRow(int64(12), "Leg Day v2", int64(7), now, nil, nil, nil, 0, int64(11), now).
			AddRow(int64(11), "Leg Day", int64(7), now, nil, nil, nil, 3, nil, now))

	chain, err := repo.History(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, int64(12), chain[0].ID)
	assert.Nil(t, chain[1].ParentWorkoutID)
}

func TestGroupWorkoutRepository_SearchEscapesWildcards(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGroupWorkoutRepository(db)

	mock.ExpectQuery(`WHERE name ILIKE \$1`).
		WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows(groupWorkoutCols))

	workouts, err := repo.Search(context.Background(), "100%")
	require.NoError(t, err)
	assert.Empty(t, workouts)
	assert.NotNil(t, workouts)
}
