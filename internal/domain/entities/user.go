package entities

import (
	"time"
)

// Role is the fixed role a user holds in the clinic
type Role string

const (
	RolePatient Role = "patient"
	RoleDentist Role = "dentist"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// AllRoles lists every known role.
var AllRoles = []Role{RolePatient, RoleDentist, RoleStaff, RoleAdmin}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDentist, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsClinician reports whether users with this role can treat patients
func (r Role) IsClinician() bool {
	return r == RoleDentist || r == RoleAdmin
}

// User represents a user in the system. Role never changes once assigned.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address,omitempty" db:"address"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Session is the identity collaborator's view of the current visitor.
// A nil User means nobody is signed in.
type Session struct {
	User    *User `json:"user"`
	Loading bool  `json:"loading"`
}

// Role returns the signed-in role, or an empty role for anonymous visitors
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
