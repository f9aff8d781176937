package domain

import (
	"net/mail"
	"unicode/utf8"
)

// MinPasswordLength is the weakest secret accepted at registration or
// password change.
const MinPasswordLength = 8

// ValidateNewUser checks the fields of a user about to be created. The email
// must already be normalized. Returns a *ValidationError listing every
// failing field, or nil.
func ValidateNewUser(name, email, password string) error {
	var fields []FieldError
	if name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	fields = append(fields, validateEmail(email)...)
	if utf8.RuneCountInString(password) < MinPasswordLength {
		fields = append(fields, FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// ValidateEmail checks a normalized email address for structural validity.
func ValidateEmail(email string) error {
	if fields := validateEmail(email); len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

func validateEmail(email string) []FieldError {
	if email == "" {
		return []FieldError{{Field: "email", Message: "is required"}}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return []FieldError{{Field: "email", Message: "must be a valid email address"}}
	}
	return nil
}

// Validate checks a role about to be written. Name must already be in
// canonical form.
func (r *Role) Validate() error {
	var fields []FieldError
	if r.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	} else if r.Name != CanonicalRoleName(r.Name) {
		fields = append(fields, FieldError{Field: "name", Message: "must be canonical uppercase"})
	}
	if r.DisplayName == "" {
		fields = append(fields, FieldError{Field: "display_name", Message: "is required"})
	}
	if r.Priority < 0 {
		fields = append(fields, FieldError{Field: "priority", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}
