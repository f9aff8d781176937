package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/auth"
	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/ports"
)

// RoleService implements role registry operations and owns its invariants:
// canonical uppercase names, protected {ADMIN, USER} roles, usage counting
// before deletion.
type RoleService struct {
	roles  ports.RoleRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, users ports.UserRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, logger: logger}
}

// List returns every role, highest priority first. Admin only.
func (s *RoleService) List(ctx context.Context, ac auth.Context) ([]domain.Role, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}
	return s.roles.List(ctx)
}

// ListActive returns active roles, highest priority first. Admin only.
func (s *RoleService) ListActive(ctx context.Context, ac auth.Context) ([]domain.Role, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}
	return s.roles.ListActive(ctx)
}

// Get returns one role by id. Admin only.
func (s *RoleService) Get(ctx context.Context, ac auth.Context, id string) (*domain.Role, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}
	return s.roles.FindByID(ctx, id)
}

// Create adds a role under its canonical uppercase name. The name lookup is a
// fast path for a better error; the store's unique index decides races.
func (s *RoleService) Create(ctx context.Context, ac auth.Context, input ports.CreateRoleInput) (*domain.Role, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	role := &domain.Role{
		Name:        domain.CanonicalRoleName(input.Name),
		DisplayName: input.DisplayName,
		Description: input.Description,
		Permissions: input.Permissions,
		IsActive:    true,
		Priority:    input.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.roles.FindByName(ctx, role.Name); err == nil {
		return nil, domain.ErrRoleExists
	} else if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, err
	}

	created, err := s.roles.Insert(ctx, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("role", created.Name).Msg("role created")
	return created, nil
}

// Update applies a partial update to a custom role. Protected roles reject
// every structural change.
func (s *RoleService) Update(ctx context.Context, ac auth.Context, id string, patch ports.RolePatch) (*domain.Role, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.IsProtectedRole(role.Name) {
		return nil, domain.ErrRoleProtected
	}

	if patch.DisplayName != nil {
		role.DisplayName = *patch.DisplayName
	}
	if patch.Description != nil {
		role.Description = *patch.Description
	}
	if patch.Permissions != nil {
		role.Permissions = *patch.Permissions
	}
	if patch.IsActive != nil {
		role.IsActive = *patch.IsActive
	}
	if patch.Priority != nil {
		role.Priority = *patch.Priority
	}
	role.UpdatedAt = time.Now().UTC()

	if err := role.Validate(); err != nil {
		return nil, err
	}
	return s.roles.Update(ctx, role)
}

// ToggleStatus flips a role's active flag. ADMIN can never be deactivated.
func (s *RoleService) ToggleStatus(ctx context.Context, ac auth.Context, id string) (*domain.Role, error) {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.Name == domain.RoleAdmin {
		return nil, domain.ErrRoleProtected
	}

	role.IsActive = !role.IsActive
	role.UpdatedAt = time.Now().UTC()

	updated, err := s.roles.Update(ctx, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("role", updated.Name).Bool("is_active", updated.IsActive).Msg("role status toggled")
	return updated, nil
}

// Delete removes a custom role. Protected roles are rejected outright;
// custom roles are rejected while any user still references them. The count
// is taken from the store, never trusted from the caller.
func (s *RoleService) Delete(ctx context.Context, ac auth.Context, id string) error {
	if _, err := auth.RequireAdmin(ac); err != nil {
		return err
	}

	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if domain.IsProtectedRole(role.Name) {
		return domain.ErrRoleProtected
	}

	n, err := s.users.CountByRole(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrRoleInUse
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("role", role.Name).Msg("role deleted")
	return nil
}
