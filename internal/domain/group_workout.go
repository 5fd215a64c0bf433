package domain

import "time"

// GroupWorkout is a trainer-authored session template. Edits never modify a
// row; they insert a new one whose ParentWorkoutID points at the previous
// version.
type GroupWorkout struct {
	ID              int64     `db:"group_workout_id" json:"group_workout_id"`
	Name            string    `db:"name" json:"name"`
	TrainerID       *int64    `db:"trainer_id" json:"trainer_id"`
	Date            time.Time `db:"date" json:"date"`
	Notes           *string   `db:"notes" json:"notes"`
	Level           *string   `db:"level" json:"level"`
	Duration        *int      `db:"duration" json:"duration"`
	UsageCount      int       `db:"usage_count" json:"usage_count"`
	ParentWorkoutID *int64    `db:"parent_workout_id" json:"parent_workout_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// GroupWorkoutExercise is one prescribed exercise of a group workout.
type GroupWorkoutExercise struct {
	ID             int64   `db:"id" json:"-"`
	GroupWorkoutID int64   `db:"group_workout_id" json:"-"`
	ExerciseID     int64   `db:"exercise_id" json:"exercise_id"`
	ExerciseName   string  `db:"exercise_name" json:"exercise_name,omitempty"`
	Position       int     `db:"position" json:"position"`
	Sets           int     `db:"sets" json:"sets"`
	Reps           int     `db:"reps" json:"reps"`
	Weight         float64 `db:"weight" json:"weight"`
}

// GroupWorkoutParticipant is a user enrolled in a group workout, optionally
// overriding the prescribed reps, sets or weight.
type GroupWorkoutParticipant struct {
	ID             int64    `db:"id" json:"-"`
	GroupWorkoutID int64    `db:"group_workout_id" json:"-"`
	UserID         int64    `db:"user_id" json:"user_id"`
	CustomReps     *int     `db:"custom_reps" json:"custom_reps"`
	CustomSets     *int     `db:"custom_sets" json:"custom_sets"`
	CustomWeights  *float64 `db:"custom_weights" json:"custom_weights"`
	Notes          *string  `db:"notes" json:"notes"`
}

// ParticipantRep is a joined participant/exercise row before grouping.
type ParticipantRep struct {
	UserID          int64  `db:"user_id"`
	ParticipantName string `db:"participant_name"`
	ExerciseID      int64  `db:"exercise_id"`
	Reps            int    `db:"reps"`
}

type ParticipantExercise struct {
	ExerciseID int64 `json:"exercise_id"`
	Reps       int   `json:"reps"`
}

// ParticipantDetail is one participant with their reps per exercise.
type ParticipantDetail struct {
	UserID          int64                 `json:"user_id"`
	ParticipantName string                `json:"participant_name"`
	Exercises       []ParticipantExercise `json:"exercises"`
}

type GroupWorkoutDetails struct {
	GroupWorkout GroupWorkout           `json:"groupWorkout"`
	Exercises    []GroupWorkoutExercise `json:"exercises"`
	Participants []ParticipantDetail    `json:"participants"`
}

// GroupParticipantReps folds joined rows into one entry per participant,
// preserving the order in which participants first appear.
func GroupParticipantReps(rows []ParticipantRep) []ParticipantDetail {
	details := make([]ParticipantDetail, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.UserID]
		if !ok {
			i = len(details)
			index[row.UserID] = i
			details = append(details, ParticipantDetail{
				UserID:          row.UserID,
				ParticipantName: row.ParticipantName,
				Exercises:       []ParticipantExercise{},
			})
		}
		details[i].Exercises = append(details[i].Exercises, ParticipantExercise{
			ExerciseID: row.ExerciseID,
			Reps:       row.Reps,
		})
	}
	return details
}

// LevelGroup is the set of group workouts sharing a level.
type LevelGroup struct {
	Level    *string        `json:"level"`
	Workouts []GroupWorkout `json:"workouts"`
}

// GroupByLevel buckets workouts by level, keeping the input order of both
// levels and workouts.
func GroupByLevel(workouts []GroupWorkout) []LevelGroup {
	groups := make([]LevelGroup, 0)
	index := make(map[string]int)
	for _, w := range workouts {
		key := "\x00"
		if w.Level != nil {
			key = *w.Level
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, LevelGroup{Level: w.Level})
		}
		groups[i].Workouts = append(groups[i].Workouts, w)
	}
	return groups
}

// GroupWorkoutFields are the editable attributes of a group workout. Nil
// fields are inherited from the parent version on edit.
type GroupWorkoutFields struct {
	Name      *string
	TrainerID *int64
	Date      *time.Time
	Notes     *string
	Level     *string
	Duration  *int
}

// SuggestionRow carries what is needed to suggest a weight for one
// participant and exercise.
type SuggestionRow struct {
	UserID       int64    `db:"user_id"`
	Level        *Level   `db:"level"`
	Sex          *int     `db:"sex"`
	ExerciseID   int64    `db:"exercise_id"`
	ExerciseName string   `db:"exercise_name"`
	LastWeight   *float64 `db:"last_weight"`

	MenStarterWeight        *float64 `db:"men_starterweight"`
	MenIntermediateWeight   *float64 `db:"men_intermediateweight"`
	MenAdvancedWeight       *float64 `db:"men_advancedweight"`
	WomenStarterWeight      *float64 `db:"women_starterweight"`
	WomenIntermediateWeight *float64 `db:"women_intermediateweight"`
	WomenAdvancedWeight     *float64 `db:"women_advancedweight"`
}

func (r SuggestionRow) Baselines() Baselines {
	return Baselines{
		MenStarter:        r.MenStarterWeight,
		MenIntermediate:   r.MenIntermediateWeight,
		MenAdvanced:       r.MenAdvancedWeight,
		WomenStarter:      r.WomenStarterWeight,
		WomenIntermediate: r.WomenIntermediateWeight,
		WomenAdvanced:     r.WomenAdvancedWeight,
	}
}

// SuggestedWeight is the recommendation for one participant and exercise.
type SuggestedWeight struct {
	UserID          int64    `json:"user_id"`
	Level           *Level   `json:"level"`
	Sex             *int     `json:"sex"`
	ExerciseID      int64    `json:"exercise_id"`
	ExerciseName    string   `json:"exercise_name"`
	SuggestedWeight *float64 `json:"suggested_weight"`
	FromHistory     bool     `json:"from_history"`
}
