package ports

import (
	"context"

	"github.com/userhub/identity-service/internal/core/auth"
	"github.com/userhub/identity-service/internal/core/domain"
)

// CreateUserInput is the admin-only user creation payload. Unlike
// self-registration, the role is mandatory.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	RoleID   string
}

// UserService gates every user record operation through the guard before
// touching the store.
type UserService interface {
	List(ctx context.Context, ac auth.Context) ([]domain.User, error)
	Get(ctx context.Context, ac auth.Context, id string) (*domain.User, error)
	Me(ctx context.Context, ac auth.Context) (*domain.User, error)
	Create(ctx context.Context, ac auth.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, ac auth.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, ac auth.Context, id string) error
}
