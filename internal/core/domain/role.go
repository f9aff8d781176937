package domain

import (
	"strings"
	"time"
)

// System role names. ADMIN and USER are protected: they cannot be deleted or
// structurally modified, and ADMIN cannot be deactivated.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Permission tags grouped into roles.
const (
	PermCreateUser  = "CREATE_USER"
	PermReadUser    = "READ_USER"
	PermUpdateUser  = "UPDATE_USER"
	PermDeleteUser  = "DELETE_USER"
	PermManageRoles = "MANAGE_ROLES"
)

// Role is a named, prioritized bundle of permissions. Name is always stored
// in canonical uppercase form; Priority orders display only and carries no
// access semantics.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasPermission reports whether the role grants the given permission tag.
func (r *Role) HasPermission(perm string) bool {
	if r == nil {
		return false
	}
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// CanonicalRoleName converts a role name to the canonical stored form.
func CanonicalRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// IsProtectedRole reports whether name (in any casing) is a system role.
func IsProtectedRole(name string) bool {
	switch CanonicalRoleName(name) {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}
