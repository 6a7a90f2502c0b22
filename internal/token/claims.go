package token

import "github.com/golang-jwt/jwt/v5"

// AudienceValidate is the audience reserved for account-validation tokens.
// It doubles as the sentinel source under which validate tokens are stored in
// the refresh_tokens table.
const AudienceValidate = "validate_token"

// AccessClaims is the claim set shared by access and validate tokens:
// subject (username), audience (the source the token is scoped to), expiry,
// plus the numeric user id and role.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
}

// RefreshClaims is the claim set for refresh tokens: subject and expiry only.
// Refresh tokens carry no role or audience; the store record binds them to a
// source.
type RefreshClaims struct {
	jwt.RegisteredClaims
}
