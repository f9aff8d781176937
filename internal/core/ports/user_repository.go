package ports

import (
	"context"

	"github.com/userhub/identity-service/internal/core/domain"
)

// UserPatch is a partial update: nil fields are left untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	RoleID   *string
	IsActive *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.RoleID == nil && p.IsActive == nil
}

// UserRepository is the credential store. Lookups return users with their
// role resolved. Uniqueness of the normalized email is ultimately enforced by
// the store's unique index; duplicate-key violations surface as
// domain.ErrEmailTaken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, roleID string) (int64, error)
}
