package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrSecretTooLong is returned when a secret exceeds the 72 bytes bcrypt can digest.
var ErrSecretTooLong = errors.New("password exceeds 72 bytes")

// Hasher turns plaintext secrets into bcrypt digests and verifies them.
// The digest carries its own cost and salt, so verification needs nothing
// but the digest itself.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Out of range
// values fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the work factor new digests are produced with.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash generates a fresh salt and returns the encoded digest.
func (h *Hasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrSecretTooLong
		}
		return "", fmt.Errorf("cannot hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether secret matches digest. A malformed digest never matches.
func (h *Hasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

var defaultHasher = NewHasher(bcrypt.DefaultCost)

// HashPassword hashes with the default cost.
func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// CheckPasswordHash compares password against a digest produced by HashPassword.
func CheckPasswordHash(password, hash string) bool {
	return defaultHasher.Verify(password, hash)
}
