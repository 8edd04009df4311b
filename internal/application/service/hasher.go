package service

// PasswordHasher is satisfied by *auth.Hasher.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}
