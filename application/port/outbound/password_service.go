package outbound

// PasswordHasher derives a peppered digest from a password. Hashing is
// deterministic: the same password always yields the same digest for a given
// service secret, so login recomputes and compares without a stored salt.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) (bool, error)
}
