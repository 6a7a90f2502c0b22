// Package users declares the user directory contract consumed by the session
// flows.
package users

import (
	"context"
	"time"

	"github.com/vkuzn/sessiond/internal/models"
)

// Repository looks up and mutates account rows. The session flows only flip
// the verified flag and advance last_login; everything else on the row is
// owned elsewhere.
type Repository interface {
	// Create inserts a new user row and returns it with ID and CreatedAt
	// populated.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByUsernameOrEmail returns the user matching either value.
	// An empty email restricts the match to the username. Returns
	// common.ErrorNotFound when no row matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	// Update persists the mutable columns of an existing row.
	Update(ctx context.Context, user *models.User) error

	// UpdateLastLogin advances last_login for the given user id.
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}
