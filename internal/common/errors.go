// Package common defines the sentinel errors shared across the service
// layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Flow-level errors surfaced through the API boundary.
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorConflict        = errors.New("username or email already in use")
	ErrorAlreadyVerified = errors.New("user already verified")
	ErrorInternal        = errors.New("internal error")

	// Token verification errors. Distinguishable internally; all of them
	// collapse to ErrorUnauthorized at the API boundary.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrSubjectMismatch  = errors.New("token subject mismatch")
	ErrAudienceMismatch = errors.New("token audience mismatch")
)
