package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-service/internal/core/domain"
)

func testCodec(ttl time.Duration) *Codec {
	return NewCodec("test-secret", ttl, zerolog.Nop())
}

func TestCodec_IssueVerify_RoundTrip(t *testing.T) {
	c := testCodec(time.Hour)

	raw, err := c.Issue("user-1", "ADMIN")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := c.Verify(raw)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", claims.Subject)
	}
	if claims.Role != "ADMIN" {
		t.Fatalf("expected role ADMIN, got %q", claims.Role)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected issued-at and expiry claims")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	c := testCodec(time.Hour)

	// Sign an already-expired token with the codec's own secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	raw, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestCodec_Verify_TamperedSignature(t *testing.T) {
	c := testCodec(time.Hour)

	raw, err := c.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact JWT with 3 segments, got %d", len(parts))
	}

	// Flip one bit in the signature segment.
	sig := []byte(parts[2])
	sig[0] ^= 0x01
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := c.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestCodec_Verify_WrongAlgorithm(t *testing.T) {
	c := testCodec(time.Hour)

	other := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := other.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong algorithm, got %v", err)
	}
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	raw, err := NewCodec("other-secret", time.Hour, zerolog.Nop()).Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := testCodec(time.Hour).Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestCodec_Verify_MissingSubject(t *testing.T) {
	c := testCodec(time.Hour)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := noSubject.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing subject, got %v", err)
	}
}

func TestNewCodec_DefaultTTL(t *testing.T) {
	if got := testCodec(0).TTL(); got != DefaultTTL {
		t.Fatalf("expected default TTL %v, got %v", DefaultTTL, got)
	}
}
