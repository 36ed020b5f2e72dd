package ports

// PasswordHasher is a one-way credential hashing scheme.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
