// Package services contains the session orchestration flows: login,
// registration, refresh, logout and account validation. Each flow is a fixed
// sequence of token and store operations; every invocation runs independently
// and all cross-request state lives in the relational store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vkuzn/sessiond/internal/common"
	"github.com/vkuzn/sessiond/internal/dbx"
	"github.com/vkuzn/sessiond/internal/logging"
	"github.com/vkuzn/sessiond/internal/mail"
	"github.com/vkuzn/sessiond/internal/models"
	"github.com/vkuzn/sessiond/internal/repositories/repomanager"
	"github.com/vkuzn/sessiond/internal/token"
)

// TokenPair bundles the short-lived access token and the refresh token
// returned by the flows that establish a session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenIssuer is the subset of the token issuer the session flows use.
type TokenIssuer interface {
	Access(username string, userID int64, role, source string) (string, error)
	Validate(username string, userID int64, role string) (string, error)
	Refresh(username string) (string, error)
	VerifyRefresh(tokenString, username string) (*token.RefreshClaims, error)
	VerifyValidate(tokenString, username string) (*token.AccessClaims, error)
	CheckAccess(tokenString string) error
}

// PasswordHasher is the one-way salted hash used for stored credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// SessionService drives the five session flows over the user directory, the
// refresh-token store, the token issuer and the mailer.
type SessionService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	issuer TokenIssuer
	hasher PasswordHasher
	mailer mail.Mailer
	logger logging.Logger

	validateURLBase string
}

func NewSessionService(
	db *sql.DB,
	rm repomanager.RepositoryManager,
	issuer TokenIssuer,
	hasher PasswordHasher,
	mailer mail.Mailer,
	logger logging.Logger,
	validateURLBase string,
) *SessionService {
	return &SessionService{
		db:              db,
		rm:              rm,
		issuer:          issuer,
		hasher:          hasher,
		mailer:          mailer,
		logger:          logger,
		validateURLBase: validateURLBase,
	}
}

// Login verifies the credentials and establishes a fresh session for the
// given source. An unknown user and a wrong password fail identically with
// ErrorUnauthorized so that the response does not reveal which accounts
// exist. Any previous refresh token for the (username, source) pair is
// revoked atomically with the insert of the new one.
func (s *SessionService) Login(ctx context.Context, usernameOrEmail, password, source string) (*TokenPair, error) {
	user, err := s.rm.Users(s.db).FindByUsernameOrEmail(ctx, usernameOrEmail, usernameOrEmail)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !user.Enabled || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	// Best effort: a failed timestamp update must not fail the login.
	if err := s.rm.Users(s.db).UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Warn(ctx, "last_login update failed", "username", user.Username, "error", err)
	}

	pair, err := s.issueTokens(user, source)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.rotateRefreshToken(ctx, pair.RefreshToken, user.Username, source); err != nil {
		s.logger.Error(ctx, "refresh token save failed", "error", err)
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Register creates an unverified account, mails the validation link and logs
// the new user straight in. A username or email already in use fails with
// ErrorConflict; unlike login this deliberately reveals existence. If the
// validation mail cannot be sent the registration fails entirely — nothing is
// persisted, so no unverifiable account can be left behind.
func (s *SessionService) Register(ctx context.Context, username, email, password, source string) (*TokenPair, error) {
	existing, err := s.rm.Users(s.db).FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if existing != nil {
		return nil, common.ErrorConflict
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hash failed", "error", err)
		return nil, common.ErrorInternal
	}

	validateToken, err := s.issuer.Validate(username, 0, models.RoleUser)
	if err != nil {
		s.logger.Error(ctx, "validate token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}

	subject, textBody, htmlBody := mail.ValidationMessage(s.validateURLBase, validateToken, username)
	if err := s.mailer.Send(ctx, email, subject, textBody, htmlBody); err != nil {
		s.logger.Error(ctx, "validation mail failed", "username", username, "error", err)
		return nil, common.ErrorInternal
	}

	// The validate-token record, the user row and the refresh-token record
	// commit together: a crash mid-flow must not leave a half-registered
	// account visible to a later request.
	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.rm.RefreshTokens(tx)

		if err := tokens.Create(ctx, validateToken, username, token.AudienceValidate); err != nil {
			return err
		}

		user := &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: digest,
			Role:         models.RoleUser,
			Verified:     false,
			Enabled:      true,
		}
		created, err := s.rm.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}

		p, err := s.issueTokens(created, source)
		if err != nil {
			return err
		}
		if err := tokens.Create(ctx, p.RefreshToken, created.Username, source); err != nil {
			return err
		}

		pair = p
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "registration failed", "username", username, "error", err)
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Refresh rotates a refresh token: the presented token must still be live in
// the store for its source, its signature must verify against the record's
// username, and the replacement supersedes it atomically. Concurrent refresh
// calls with the same token produce exactly one winner; the loser gets
// ErrorUnauthorized, never a duplicate-record error.
func (s *SessionService) Refresh(ctx context.Context, refreshToken, source string) (*TokenPair, error) {
	record, err := s.rm.RefreshTokens(s.db).Find(ctx, refreshToken, source)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "refresh token lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if _, err := s.issuer.VerifyRefresh(refreshToken, record.Username); err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.rm.Users(s.db).FindByUsernameOrEmail(ctx, record.Username, "")
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	pair, err := s.issueTokens(user, source)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.rm.RefreshTokens(tx)
		// Consuming the presented token inside the transaction decides the
		// race: whoever deletes the row rotates, everyone else lost.
		if err := tokens.Consume(ctx, refreshToken); err != nil {
			return err
		}
		if err := tokens.DeleteAll(ctx, user.Username, source); err != nil {
			return err
		}
		return tokens.Create(ctx, pair.RefreshToken, user.Username, source)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "refresh rotation failed", "error", err)
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Logout authenticates the caller by the access token's signature and expiry
// only, then revokes the refresh token. It succeeds whether or not the
// refresh token was still in the store.
func (s *SessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.issuer.CheckAccess(accessToken); err != nil {
		return common.ErrorUnauthorized
	}

	if err := s.rm.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		s.logger.Error(ctx, "refresh token delete failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// ValidateAccount consumes a single-use validation token and marks the user
// verified. The token must still be present in the store under the validate
// sentinel source before its signature is trusted, so a consumed token fails
// closed. Flipping the verified flag and deleting the token commit together.
func (s *SessionService) ValidateAccount(ctx context.Context, validateToken, username string) error {
	if _, err := s.rm.RefreshTokens(s.db).Find(ctx, validateToken, token.AudienceValidate); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "validate token lookup failed", "error", err)
		return common.ErrorInternal
	}

	if _, err := s.issuer.VerifyValidate(validateToken, username); err != nil {
		return common.ErrorUnauthorized
	}

	user, err := s.rm.Users(s.db).FindByUsernameOrEmail(ctx, username, "")
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return common.ErrorInternal
	}

	if user.Verified {
		return common.ErrorAlreadyVerified
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user.Verified = true
		if err := s.rm.Users(tx).Update(ctx, user); err != nil {
			return err
		}
		return s.rm.RefreshTokens(tx).Consume(ctx, validateToken)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Someone else consumed the token between the lookup and here.
			return common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "account validation failed", "username", username, "error", err)
		return common.ErrorInternal
	}

	return nil
}

// --- helpers below ---

func (s *SessionService) issueTokens(user *models.User, source string) (*TokenPair, error) {
	access, err := s.issuer.Access(user.Username, user.ID, user.Role, source)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.Refresh(user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// rotateRefreshToken revokes every live token for (username, source) and
// inserts the replacement as one atomic unit.
func (s *SessionService) rotateRefreshToken(ctx context.Context, refreshToken, username, source string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.rm.RefreshTokens(tx)
		if err := tokens.DeleteAll(ctx, username, source); err != nil {
			return err
		}
		return tokens.Create(ctx, refreshToken, username, source)
	})
}
