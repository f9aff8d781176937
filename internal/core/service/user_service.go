package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/auth"
	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/ports"
	"github.com/userhub/identity-service/internal/pkg/password"
)

// UserService implements the user record operations behind the guard.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher password.Hasher
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, hasher password.Hasher, logger zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, hasher: hasher, logger: logger}
}

// List returns all users. Admin only.
func (s *UserService) List(ctx context.Context, ac auth.Context) ([]domain.User, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Get returns one user. Callers may read their own record; everyone else
// needs the admin role.
func (s *UserService) Get(ctx context.Context, ac auth.Context, id string) (*domain.User, error) {
	if _, _, err := auth.RequireSelfOrAdmin(ac, id); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Me returns the caller's own record, re-read from the store so the role is
// current.
func (s *UserService) Me(ctx context.Context, ac auth.Context) (*domain.User, error) {
	caller, err := auth.RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, caller.ID)
}

// Create adds a user with an explicit role. Admin only.
func (s *UserService) Create(ctx context.Context, ac auth.Context, input ports.CreateUserInput) (*domain.User, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)
	if err := domain.ValidateNewUser(input.Name, email, input.Password); err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Insert(ctx, &domain.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", role.Name).Msg("user created by admin")
	return created, nil
}

// Update applies a partial update under the ownership-vs-admin policy.
// A caller editing their own record may change name and email only; role and
// active-status fields in a self-update are dropped silently rather than
// rejected. Admins editing another user may change every field.
func (s *UserService) Update(ctx context.Context, ac auth.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	caller, self, err := auth.RequireSelfOrAdmin(ac, id)
	if err != nil {
		return nil, err
	}

	if self && !caller.IsAdmin() {
		if patch.RoleID != nil || patch.IsActive != nil {
			s.logger.Debug().Str("user_id", caller.ID).Msg("dropping privileged fields from self-update")
		}
		patch.RoleID = nil
		patch.IsActive = nil
	}

	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if err := domain.ValidateEmail(email); err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if patch.RoleID != nil {
		if _, err := s.roles.FindByID(ctx, *patch.RoleID); err != nil {
			return nil, err
		}
	}
	if patch.IsEmpty() {
		return s.users.FindByID(ctx, id)
	}

	return s.users.UpdateFields(ctx, id, patch)
}

// Delete removes a user. Admin only; accounts holding the ADMIN role cannot
// be deleted.
func (s *UserService) Delete(ctx context.Context, ac auth.Context, id string) error {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return err
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Role != nil && target.Role.Name == domain.RoleAdmin {
		return domain.ErrAdminUndeletable
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
