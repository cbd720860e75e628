package valueobject

// Credentials identifies a login attempt. The account may be looked up by
// username or by phone; at least one of the two must be supplied.
type Credentials struct {
	Username string
	Phone    string
	Password string
}

// HasIdentifier reports whether the caller supplied something to look the
// account up by.
func (c Credentials) HasIdentifier() bool {
	return c.Username != "" || c.Phone != ""
}
