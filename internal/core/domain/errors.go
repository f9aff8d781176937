package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the authentication and authorization core. The API
// layer maps each to a deterministic HTTP status; none of them ever carries
// secret material.
var (
	// ErrUnauthenticated is returned by guard checks when no active identity
	// could be derived from the request.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidCredentials covers every login failure: unknown email, wrong
	// password, deactivated account. Deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers every token verification failure: bad signature,
	// wrong algorithm, expired. Deliberately indistinguishable to callers.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden is returned when an authenticated caller lacks the role or
	// ownership required by the operation.
	ErrForbidden = errors.New("access forbidden")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role name already exists")

	// ErrRoleProtected rejects structural changes to the system roles.
	ErrRoleProtected = errors.New("system roles cannot be modified or deleted")

	// ErrRoleInUse rejects deleting a role still referenced by users.
	ErrRoleInUse = errors.New("role is assigned to users and cannot be deleted")

	// ErrAdminUndeletable rejects deleting a user holding the ADMIN role.
	ErrAdminUndeletable = errors.New("cannot delete admin users")

	// ErrDefaultRoleMissing fails a self-registration when the USER role is
	// absent. A configuration error for that request, never a process crash.
	ErrDefaultRoleMissing = errors.New("default USER role not configured")
)

// FieldError describes a single invalid field in a write payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the field errors found by an entity validation
// pass. It is run before any store write, so a store never sees an entity
// that fails these checks.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
