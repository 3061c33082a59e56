package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RolePublic     = "public"
)

type AppUser struct {
	ID        string    `json:"id" bson:"_id,omitempty" db:"id"`
	Name      string    `json:"name" bson:"name" db:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" db:"email" validate:"required,email"`
	Role      string    `json:"role" bson:"role" db:"role" validate:"required,oneof=admin supervisor"`
	Password  string    `json:"password,omitempty" bson:"password_hash" db:"password_hash"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// RequestingUser is the authenticated caller a filter or service call is scoped to.
type RequestingUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (u RequestingUser) IsSupervisor() bool {
	return u.Role == RoleSupervisor
}

func (u RequestingUser) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleSupervisor
}
