package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/token"
)

// IdentityResolver resolves a token subject to a current user, role included.
type IdentityResolver interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Guard turns a raw bearer token into an auth Context. Verification failures,
// unresolvable subjects and deactivated accounts all terminate in the
// anonymous context; there are no retries and no intermediate states.
type Guard struct {
	codec *token.Codec
	users IdentityResolver
	log   zerolog.Logger
}

func NewGuard(codec *token.Codec, users IdentityResolver, log zerolog.Logger) *Guard {
	return &Guard{codec: codec, users: users, log: log}
}

// FromToken builds the per-request Context. raw is the bare token, or empty
// when the request carried none. The distinction between the failure modes is
// visible only in logs, never to the caller.
func (g *Guard) FromToken(ctx context.Context, raw string) Context {
	if raw == "" {
		return Anonymous()
	}

	claims, err := g.codec.Verify(raw)
	if err != nil {
		return Anonymous()
	}

	user, err := g.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			g.log.Debug().Str("subject", claims.Subject).Msg("token subject no longer resolves")
		} else {
			g.log.Error().Err(err).Str("subject", claims.Subject).Msg("identity lookup failed")
		}
		return Anonymous()
	}
	if !user.IsActive {
		g.log.Debug().Str("user_id", user.ID).Msg("deactivated account presented a valid token")
		return Anonymous()
	}

	return WithIdentity(user)
}

// RequireAuthenticated returns the caller's identity or ErrUnauthenticated.
func RequireAuthenticated(ac Context) (*domain.User, error) {
	if !ac.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return ac.Identity(), nil
}

// RequireAdmin returns the caller's identity when its resolved role is ADMIN.
// Unauthenticated callers fail with ErrUnauthenticated before any role check.
func RequireAdmin(ac Context) (*domain.User, error) {
	user, err := RequireAuthenticated(ac)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// RequireSelfOrAdmin authorizes an operation targeting the user identified by
// targetID. It returns the caller and whether the caller is the target
// itself; callers that are neither the target nor an admin get ErrForbidden.
func RequireSelfOrAdmin(ac Context, targetID string) (caller *domain.User, self bool, err error) {
	user, err := RequireAuthenticated(ac)
	if err != nil {
		return nil, false, err
	}
	if user.ID == targetID {
		return user, true, nil
	}
	if !user.IsAdmin() {
		return nil, false, domain.ErrForbidden
	}
	return user, false, nil
}
