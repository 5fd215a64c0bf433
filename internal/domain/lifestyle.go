package domain

import "time"

// LifestyleEntry is a periodic self-report. Entries are append-only.
type LifestyleEntry struct {
	ID       int64     `db:"id" json:"id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	Stress   *int      `db:"stress" json:"stress"`
	Sleep    *float64  `db:"sleep" json:"sleep"`
	Soreness *int      `db:"soreness" json:"soreness"`
	Calories *int      `db:"calories" json:"calories"`
	Weight   *float64  `db:"weight" json:"weight"`
	Note     *string   `db:"note" json:"note,omitempty"`
	Date     time.Time `db:"date" json:"date"`
}
