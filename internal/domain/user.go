package domain

import "time"

// Role type to distinguish between user roles
type Role string

const (
	RoleClient   Role = "client"
	RoleUser     Role = "user" // legacy alias of client
	RolePT       Role = "pt"
	RoleMasterPT Role = "masterPt"
)

// TrainerRoles lists the roles allowed to author workouts and edit the catalog.
var TrainerRoles = []Role{RolePT, RoleMasterPT}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleUser, RolePT, RoleMasterPT:
		return true
	}
	return false
}

func (r Role) IsTrainer() bool {
	return r == RolePT || r == RoleMasterPT
}

// Level is a user's training level, used to pick baseline weights.
type Level string

const (
	LevelUntrained    Level = "Untrained"
	LevelNovice       Level = "Novice"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
	LevelElite        Level = "Elite"
)

// User represents an account (client or trainer).
type User struct {
	ID           int64     `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"` // Never expose this via JSON
	Role         Role      `db:"role" json:"role"`
	Level        *Level    `db:"level" json:"level,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) IsTrainer() bool {
	return u.Role.IsTrainer()
}

// TrainerID is the user's own id for trainers and nil for everyone else.
func (u *User) TrainerID() *int64 {
	if !u.IsTrainer() {
		return nil
	}
	id := u.ID
	return &id
}
