// Package token issues and verifies the three JWT kinds backing a session:
// short-lived access tokens, refresh tokens, and single-use account-validation
// tokens. All are HS256-signed. Access and validate tokens share one secret,
// refresh tokens use an independent one, so leaking either secret does not
// compromise the other token class.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vkuzn/sessiond/internal/common"
)

// Issuer holds the process-wide key material and TTL policy. It is immutable
// after construction; tokens issued by one process instance verify on any
// other instance sharing the same configuration.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte

	accessTTL   time.Duration
	refreshTTL  time.Duration
	validateTTL time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL, validateTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		validateTTL:   validateTTL,
	}
}

// Access returns a signed access token scoped to the given source.
func (i *Issuer) Access(username string, userID int64, role, source string) (string, error) {
	return i.signAccess(username, userID, role, source, i.accessTTL)
}

// Validate returns a signed account-validation token. It uses the access
// secret but the reserved validate audience and a much longer TTL.
func (i *Issuer) Validate(username string, userID int64, role string) (string, error) {
	return i.signAccess(username, userID, role, AudienceValidate, i.validateTTL)
}

// Refresh returns a signed refresh token for the given username.
func (i *Issuer) Refresh(username string) (string, error) {
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
}

func (i *Issuer) signAccess(username string, userID int64, role, audience string, ttl time.Duration) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
		Role:   role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
}

// VerifyAccess checks an access token's signature, expiry, subject and
// audience, returning the claims on success. Failures map to the sentinel
// errors in package common.
func (i *Issuer) VerifyAccess(tokenString, username, source string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, i.accessKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(username),
		jwt.WithAudience(source),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	return claims, nil
}

// VerifyValidate checks an account-validation token: same key class as access
// tokens, audience pinned to the reserved validate value.
func (i *Issuer) VerifyValidate(tokenString, username string) (*AccessClaims, error) {
	return i.VerifyAccess(tokenString, username, AudienceValidate)
}

// VerifyRefresh checks a refresh token's signature, expiry and subject
// against the refresh key class.
func (i *Issuer) VerifyRefresh(tokenString, username string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, i.refreshKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(username),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	return claims, nil
}

// CheckAccess verifies only the signature and expiry of an access token,
// without pinning subject or audience. Logout authenticates with this: the
// handler has no expected subject to compare against.
func (i *Issuer) CheckAccess(tokenString string) error {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, i.accessKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return mapJWTError(err)
	}
	return nil
}

func (i *Issuer) accessKey(t *jwt.Token) (any, error)  { return i.accessSecret, nil }
func (i *Issuer) refreshKey(t *jwt.Token) (any, error) { return i.refreshSecret, nil }

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidSubject):
		return common.ErrSubjectMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return common.ErrAudienceMismatch
	default:
		// Bad signatures, malformed tokens and wrong key classes all land
		// here: the token is not one of ours.
		return common.ErrInvalidSignature
	}
}
