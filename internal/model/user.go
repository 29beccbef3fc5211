package model

import "time"

// User represents an authentication user.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// IsAdmin reports whether the user role grants admin access.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}
