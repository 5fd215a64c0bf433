package domain

import "time"

// SexMale is the intake sex code that selects the men's baseline weights.
// Every other value selects the women's.
const SexMale = 2

// Intake is the one-time assessment a client fills in on signup.
type Intake struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	ClientName       string    `db:"client_name" json:"client_name"`
	Sex              int       `db:"sex" json:"sex"`
	Age              int       `db:"age" json:"age"`
	FatPercentage    *float64  `db:"fat_percentage" json:"fat_percentage"`
	HeightCM         *float64  `db:"height_cm" json:"height_cm"`
	WeightCategory   *int      `db:"weight_category" json:"weight_category"`
	BMI              *float64  `db:"bmi" json:"bmi"`
	FFMI             *float64  `db:"ffmi" json:"ffmi"`
	AthleticismScore *int      `db:"athleticism_score" json:"athleticism_score"`
	MovementShoulder *int      `db:"movement_shoulder" json:"movement_shoulder"`
	MovementHips     *int      `db:"movement_hips" json:"movement_hips"`
	MovementAnkles   *int      `db:"movement_ankles" json:"movement_ankles"`
	MovementThoracic *int      `db:"movement_thoracic" json:"movement_thoracic"`
	Genetics         *int      `db:"genetics" json:"genetics"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

func (i *Intake) IsMale() bool {
	return i.Sex == SexMale
}
