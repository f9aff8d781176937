// Package token signs and verifies the stateless bearer tokens issued at
// login. A token is valid iff its HMAC-SHA-256 signature checks out and its
// expiry has not passed; there is no server-side revocation.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/domain"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Claims is the claim set carried by every issued token. Subject holds the
// user id; Role is advisory only — authorization always re-resolves the role
// from the store.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed tokens with a process-wide secret.
// It is stateless and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCodec(secret string, ttl time.Duration, log zerolog.Logger) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, log: log}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token binding the user id (and role name, if known) to an
// expiry of now+TTL.
func (c *Codec) Issue(userID, roleName string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiry. Every failure — wrong algorithm, bad
// signature, expired — collapses to domain.ErrInvalidToken so callers cannot
// tell a tampered token from an expired one. The real cause is logged at
// debug level.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		c.log.Debug().Err(err).Msg("token verification failed")
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		c.log.Debug().Msg("token has no subject")
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
