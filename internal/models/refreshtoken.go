package models

// RefreshToken is a live refresh or validate token record. Source scopes the
// token to the client application it was issued for; validate tokens are
// stored under a sentinel source. At most one live record exists per
// (username, source) pair; the rotation protocol enforces this.
type RefreshToken struct {
	Token    string
	Username string
	Source   string
}
