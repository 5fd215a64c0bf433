package domain

import "time"

// AssignmentStatus type for assignment lifecycle. The only transition is
// assigned -> completed.
type AssignmentStatus string

const (
	StatusAssigned  AssignmentStatus = "assigned"
	StatusCompleted AssignmentStatus = "completed"
)

// UserWorkout links a user to a workout or group workout, as assigned by a
// trainer. It is independent of who authored the workout.
type UserWorkout struct {
	ID             int64            `db:"id" json:"assignment_id"`
	UserID         int64            `db:"user_id" json:"user_id"`
	WorkoutID      *int64           `db:"workout_id" json:"workout_id,omitempty"`
	GroupWorkoutID *int64           `db:"group_workout_id" json:"group_workout_id,omitempty"`
	AssignedBy     *int64           `db:"assigned_by" json:"assigned_by"`
	Status         AssignmentStatus `db:"status" json:"status"`
	AssignedAt     time.Time        `db:"assigned_at" json:"assigned_at"`
	CompletedAt    *time.Time       `db:"completed_at" json:"completed_at"`
	ActualSets     *int             `db:"actual_sets" json:"actual_sets,omitempty"`
	ActualReps     *int             `db:"actual_reps" json:"actual_reps,omitempty"`
	ActualWeight   *float64         `db:"actual_weight" json:"actual_weight,omitempty"`
}

// AssignedWorkout is an assignment joined with its workout, as shown to the
// assignee.
type AssignedWorkout struct {
	AssignmentID int64            `db:"assignment_id" json:"assignment_id"`
	WorkoutID    int64            `db:"workout_id" json:"workout_id"`
	Name         string           `db:"name" json:"name"`
	Date         time.Time        `db:"date" json:"date"`
	Notes        *string          `db:"notes" json:"notes"`
	AssignedBy   *int64           `db:"assigned_by" json:"assigned_by"`
	Status       AssignmentStatus `db:"status" json:"status"`
	AssignedAt   time.Time        `db:"assigned_at" json:"assigned_at"`
	CompletedAt  *time.Time       `db:"completed_at" json:"completed_at"`
}

// PublicWorkoutEntry is a completed or pending global workout of a user.
type PublicWorkoutEntry struct {
	WorkoutID   int64            `db:"workout_id" json:"workout_id"`
	Name        string           `db:"name" json:"name"`
	Status      AssignmentStatus `db:"status" json:"status"`
	AssignedAt  time.Time        `db:"assigned_at" json:"assigned_at"`
	CompletedAt *time.Time       `db:"completed_at" json:"completed_at"`
}

// Actuals is the performance a participant reports when finishing.
type Actuals struct {
	Sets   *int     `json:"actual_sets"`
	Reps   *int     `json:"actual_reps"`
	Weight *float64 `json:"actual_weight"`
}

// CompletedGroupWorkout is an append-only record of a finished group workout.
type CompletedGroupWorkout struct {
	ID             int64     `db:"id" json:"id"`
	GroupWorkoutID int64     `db:"group_workout_id" json:"group_workout_id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	ActualSets     *int      `db:"actual_sets" json:"actual_sets"`
	ActualReps     *int      `db:"actual_reps" json:"actual_reps"`
	ActualWeight   *float64  `db:"actual_weight" json:"actual_weight"`
	CompletedAt    time.Time `db:"completed_at" json:"completed_at"`
}
