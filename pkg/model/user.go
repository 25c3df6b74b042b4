package model

import "time"

// Role is a closed enumeration. The stored value is the string form; anything
// other than "admin" reads back as RolePatient.
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role      Role      `json:"role,omitempty" bson:"role,omitempty" validate:"omitempty,oneof=patient admin"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
