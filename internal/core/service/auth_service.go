package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/ports"
	"github.com/userhub/identity-service/internal/core/token"
	"github.com/userhub/identity-service/internal/pkg/password"
)

// AuthService implements self-registration and login.
type AuthService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher password.Hasher
	codec  *token.Codec
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, hasher password.Hasher, codec *token.Codec, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, roles: roles, hasher: hasher, codec: codec, logger: logger}
}

// Register creates an account and returns a fresh token alongside it. When no
// role is requested the role literally named USER is assigned; its absence
// fails this registration, not the process. The email existence check is a
// fast path only — the store's unique index is the authority (the insert can
// still come back with ErrEmailTaken under a race).
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	if err := domain.ValidateNewUser(input.Name, email, input.Password); err != nil {
		return "", nil, err
	}

	var role *domain.Role
	var err error
	if input.RoleID != "" {
		role, err = s.roles.FindByID(ctx, input.RoleID)
		if err != nil {
			return "", nil, err
		}
	} else {
		role, err = s.roles.FindByName(ctx, domain.RoleUser)
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				s.logger.Error().Msg("default USER role missing; registration rejected")
				return "", nil, domain.ErrDefaultRoleMissing
			}
			return "", nil, err
		}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", nil, err
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
		return "", nil, err
	}

	tkn, err := s.codec.Issue(created.ID, role.Name)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", role.Name).Msg("user registered")
	return tkn, created, nil
}

// Login verifies credentials and issues a token. Unknown email, wrong
// password and deactivated account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, pass string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || pass == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		s.logger.Debug().Str("user_id", user.ID).Msg("login attempt on deactivated account")
		return "", nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(pass, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	tkn, err := s.codec.Issue(user.ID, roleName)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return tkn, user, nil
}
