package domain

import "time"

// Workout is a session owned by a user (its author or, for trainer-created
// workouts, the trainer).
type Workout struct {
	ID       int64     `db:"workout_id" json:"workout_id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	Name     string    `db:"name" json:"name"`
	Date     time.Time `db:"date" json:"date"`
	Notes    *string   `db:"notes" json:"notes"`
	IsGlobal bool      `db:"is_global" json:"is_global"`
}

// WorkoutExercise is one logged set row of a workout.
type WorkoutExercise struct {
	ID         int64   `db:"id" json:"id"`
	WorkoutID  int64   `db:"workout_id" json:"workout_id"`
	ExerciseID int64   `db:"exercise_id" json:"exercise_id"`
	Sets       int     `db:"sets" json:"sets"`
	Reps       int     `db:"reps" json:"reps"`
	Weight     float64 `db:"weight" json:"weight"`
	RIR        *int    `db:"rir" json:"rir,omitempty"`
}

// WorkoutSet is a single set as submitted by the client.
type WorkoutSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	RIR    *int    `json:"rir,omitempty"`
}

// WorkoutExerciseInput groups the sets of one exercise in a new workout.
type WorkoutExerciseInput struct {
	ExerciseID int64        `json:"exercise_id"`
	Sets       []WorkoutSet `json:"sets"`
}

// PlannedExercise is a prescribed exercise in a trainer-created workout.
type PlannedExercise struct {
	ExerciseID int64   `json:"exercise_id"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
}

// WorkoutExerciseDetail is a workout row joined with its exercise name.
type WorkoutExerciseDetail struct {
	ExerciseID   int64   `db:"exercise_id" json:"exercise_id"`
	ExerciseName string  `db:"exercise_name" json:"exercise_name"`
	Sets         int     `db:"sets" json:"sets"`
	Reps         int     `db:"reps" json:"reps"`
	Weight       float64 `db:"weight" json:"weight"`
	RIR          *int    `db:"rir" json:"rir,omitempty"`
}

type WorkoutDetails struct {
	Workout
	Exercises []WorkoutExerciseDetail `json:"exercises"`
}

// ProgressPoint is one logged weight of an exercise, used for progress charts.
type ProgressPoint struct {
	Weight float64   `db:"weight" json:"weight"`
	Reps   int       `db:"reps" json:"reps"`
	Date   time.Time `db:"date" json:"date"`
}

// WeeklyCount is the number of completed workouts in a calendar week.
type WeeklyCount struct {
	Week         time.Time `db:"week" json:"week"`
	WorkoutCount int       `db:"workout_count" json:"workout_count"`
}
