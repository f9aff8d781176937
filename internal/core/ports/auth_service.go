package ports

import (
	"context"

	"github.com/userhub/identity-service/internal/core/domain"
)

// RegisterInput carries a self-registration. Email may arrive in any casing;
// the service normalizes it. RoleID is optional — empty means the default
// USER role.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	RoleID   string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
