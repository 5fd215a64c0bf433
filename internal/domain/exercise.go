package domain

import "time"

// Exercise is a catalog entry with per-sex, per-level baseline weights.
type Exercise struct {
	ID          int64  `db:"exercise_id" json:"exercise_id"`
	Name        string `db:"name" json:"name"`
	MuscleGroup string `db:"muscle_group" json:"muscle_group"`
	Difficulty  string `db:"difficulty" json:"difficulty"`

	MenStarterWeight        *float64 `db:"men_starterweight" json:"men_starterweight"`
	MenIntermediateWeight   *float64 `db:"men_intermediateweight" json:"men_intermediateweight"`
	MenAdvancedWeight       *float64 `db:"men_advancedweight" json:"men_advancedweight"`
	WomenStarterWeight      *float64 `db:"women_starterweight" json:"women_starterweight"`
	WomenIntermediateWeight *float64 `db:"women_intermediateweight" json:"women_intermediateweight"`
	WomenAdvancedWeight     *float64 `db:"women_advancedweight" json:"women_advancedweight"`

	// Object key of the demo video in storage; internal use only.
	MediaKey *string `db:"media_key" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (e *Exercise) HasMedia() bool {
	return e.MediaKey != nil && *e.MediaKey != ""
}

// Baselines holds the bracket weights of one exercise.
type Baselines struct {
	MenStarter        *float64
	MenIntermediate   *float64
	MenAdvanced       *float64
	WomenStarter      *float64
	WomenIntermediate *float64
	WomenAdvanced     *float64
}

func (e *Exercise) Baselines() Baselines {
	return Baselines{
		MenStarter:        e.MenStarterWeight,
		MenIntermediate:   e.MenIntermediateWeight,
		MenAdvanced:       e.MenAdvancedWeight,
		WomenStarter:      e.WomenStarterWeight,
		WomenIntermediate: e.WomenIntermediateWeight,
		WomenAdvanced:     e.WomenAdvancedWeight,
	}
}
