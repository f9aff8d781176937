package domain

import (
	"strings"
	"time"
)

// User models a principal known to the system. PasswordHash never leaves the
// process: it is excluded from every serialized representation.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"role_id"`
	Role         *Role     `json:"role,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user's resolved role is the ADMIN role.
// A user whose role has not been resolved is never an admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role != nil && u.Role.Name == RoleAdmin
}

// NormalizeEmail returns the canonical form used for storage and comparison:
// trimmed and lowercased. Email uniqueness is case-insensitive, so every path
// that stores or looks up an email must go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
