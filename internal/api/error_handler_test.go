package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(err, c)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp["error"]
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"role not found", domain.ErrRoleNotFound, http.StatusNotFound},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"role exists", domain.ErrRoleExists, http.StatusConflict},
		{"role protected", domain.ErrRoleProtected, http.StatusBadRequest},
		{"role in use", domain.ErrRoleInUse, http.StatusBadRequest},
		{"admin undeletable", domain.ErrAdminUndeletable, http.StatusBadRequest},
		{"default role missing", domain.ErrDefaultRoleMissing, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := renderError(t, tt.err)
			if code != tt.code {
				t.Fatalf("expected status %d, got %d", tt.code, code)
			}
			if msg == "" {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	code, _ := renderError(t, fmt.Errorf("looking up user: %w", domain.ErrUserNotFound))
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped ErrUserNotFound, got %d", code)
	}
}

func TestErrorHandler_TokenFailureStaysGeneric(t *testing.T) {
	// Token and session failures must not reveal which check failed.
	code, msg := renderError(t, domain.ErrInvalidToken)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if msg != "authentication required" {
		t.Fatalf("token failure leaked detail: %q", msg)
	}
}

func TestErrorHandler_ValidationError(t *testing.T) {
	verr := &domain.ValidationError{Fields: []domain.FieldError{
		{Field: "email", Message: "must be a valid email"},
	}}
	code, msg := renderError(t, verr)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if msg == "" {
		t.Fatalf("expected field messages in response")
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))
	if code != http.StatusNotFound || msg != "route not found" {
		t.Fatalf("expected echo error passthrough, got %d %q", code, msg)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, msg := renderError(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
