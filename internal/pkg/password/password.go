// Package password wraps bcrypt hashing of user secrets behind a small,
// deterministic API. Comparison always goes through bcrypt's own verify
// primitive; raw hash bytes are never compared directly.
package password

import "golang.org/x/crypto/bcrypt"

const (
	// MinCost is the weakest work factor the service will run with.
	// Configured values below it are clamped up.
	MinCost = 10
	// DefaultCost is the recommended work factor.
	DefaultCost = 12
)

// Hasher produces and verifies bcrypt hashes with a fixed work factor.
// The zero value is not usable; construct with NewHasher.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost, clamped into
// [MinCost, bcrypt.MaxCost].
func NewHasher(cost int) Hasher {
	if cost < MinCost {
		cost = MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return Hasher{cost: cost}
}

// Hash returns a salted one-way hash of secret.
func (h Hasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether secret matches hashed.
func (h Hasher) Verify(secret, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}
