// Package seed creates the system roles and the bootstrap admin account on
// startup. Seeding is idempotent: existing records are left untouched.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/ports"
	"github.com/userhub/identity-service/internal/pkg/password"
)

func defaultRoles() []domain.Role {
	return []domain.Role{
		{
			Name:        domain.RoleAdmin,
			DisplayName: "Administrator",
			Description: "Full system access",
			Permissions: []string{
				domain.PermCreateUser,
				domain.PermReadUser,
				domain.PermUpdateUser,
				domain.PermDeleteUser,
				domain.PermManageRoles,
			},
			IsActive: true,
			Priority: 100,
		},
		{
			Name:        domain.RoleUser,
			DisplayName: "User",
			Description: "Standard user access",
			Permissions: []string{domain.PermReadUser},
			IsActive:    true,
			Priority:    10,
		},
	}
}

// AdminAccount is the bootstrap admin credential pair.
type AdminAccount struct {
	Email    string
	Password string
}

// Run ensures the ADMIN and USER roles exist and that at least the bootstrap
// admin account does. Failures are returned for the caller to log; they are
// not fatal to the process.
func Run(ctx context.Context, roles ports.RoleRepository, users ports.UserRepository, hasher password.Hasher, admin AdminAccount, log zerolog.Logger) error {
	for _, role := range defaultRoles() {
		if _, err := roles.FindByName(ctx, role.Name); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrRoleNotFound) {
			return err
		}

		now := time.Now().UTC()
		role.CreatedAt = now
		role.UpdatedAt = now
		if _, err := roles.Insert(ctx, &role); err != nil {
			// Lost a race against a concurrent replica; fine.
			if errors.Is(err, domain.ErrRoleExists) {
				continue
			}
			return err
		}
		log.Info().Str("role", role.Name).Msg("seeded role")
	}

	return seedAdmin(ctx, roles, users, hasher, admin, log)
}

func seedAdmin(ctx context.Context, roles ports.RoleRepository, users ports.UserRepository, hasher password.Hasher, admin AdminAccount, log zerolog.Logger) error {
	email := domain.NormalizeEmail(admin.Email)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	adminRole, err := roles.FindByName(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = users.Insert(ctx, &domain.User{
		Name:         "Admin User",
		Email:        email,
		PasswordHash: hash,
		RoleID:       adminRole.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil
		}
		return err
	}

	log.Info().Str("email", email).Msg("seeded bootstrap admin account")
	return nil
}
