package ports

import (
	"context"

	"github.com/userhub/identity-service/internal/core/auth"
	"github.com/userhub/identity-service/internal/core/domain"
)

type CreateRoleInput struct {
	Name        string
	DisplayName string
	Description string
	Permissions []string
	Priority    int
}

// RolePatch is a partial role update: nil fields are left untouched.
type RolePatch struct {
	DisplayName *string
	Description *string
	Permissions *[]string
	IsActive    *bool
	Priority    *int
}

// RoleService enforces the role registry invariants: canonical uppercase
// names, protected system roles, and reference counting before deletion.
// Every operation is admin-only.
type RoleService interface {
	List(ctx context.Context, ac auth.Context) ([]domain.Role, error)
	ListActive(ctx context.Context, ac auth.Context) ([]domain.Role, error)
	Get(ctx context.Context, ac auth.Context, id string) (*domain.Role, error)
	Create(ctx context.Context, ac auth.Context, input CreateRoleInput) (*domain.Role, error)
	Update(ctx context.Context, ac auth.Context, id string, patch RolePatch) (*domain.Role, error)
	ToggleStatus(ctx context.Context, ac auth.Context, id string) (*domain.Role, error)
	Delete(ctx context.Context, ac auth.Context, id string) error
}
