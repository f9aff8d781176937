package ports

import (
	"context"

	"github.com/userhub/identity-service/internal/core/domain"
)

// RoleRepository is the role registry store. Names are stored in canonical
// uppercase form; the store's unique index on name is the authority on
// uniqueness and violations surface as domain.ErrRoleExists.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	ListActive(ctx context.Context) ([]domain.Role, error)
	Insert(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}
