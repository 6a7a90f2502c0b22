package models

import "time"

// Roles carried in the access token's role claim.
const (
	RoleUser      = "user"
	RoleMod       = "mod"
	RoleSuperuser = "superuser"
	RoleAdmin     = "admin"
)

// User is an account row. The session flows mutate it only to flip Verified
// and to advance LastLogin.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Verified     bool
	Enabled      bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}
