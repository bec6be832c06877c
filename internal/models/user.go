package models

import "time"

// UserRole represents the portal roles used by the RBAC system.
type UserRole string

const (
	RoleProgrammer UserRole = "programmer"
	RoleRecruiter  UserRole = "recruiter"
	RoleGuide      UserRole = "guide"
)

// Valid reports whether the role is one of the known portal roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleProgrammer, RoleRecruiter, RoleGuide:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Guide is the directory entry programmers browse when requesting mentorship.
type Guide struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Expertise string `db:"-" json:"expertise"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
