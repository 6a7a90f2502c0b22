// Package refreshtokens declares the store contract for live refresh and
// validate tokens. The store is the sole source of truth for whether a token
// is still honorable, so there is no caching layer: every check is a direct
// round trip.
package refreshtokens

import (
	"context"

	"github.com/vkuzn/sessiond/internal/models"
)

// Repository persists refresh/validate token records keyed by the opaque
// token string. At most one live record may exist per (username, source);
// callers enforce that by running revoke-existing and insert inside one
// transaction (dbx.WithTx).
type Repository interface {
	// Create inserts a new record.
	Create(ctx context.Context, token, username, source string) error

	// Find returns the record matching both the token and its source, or
	// common.ErrorNotFound.
	Find(ctx context.Context, token, source string) (*models.RefreshToken, error)

	// Delete removes a record by token. Deleting a token that is already
	// gone is not an error; logout relies on that.
	Delete(ctx context.Context, token string) error

	// Consume removes a record by token and returns common.ErrorNotFound
	// if it was already gone. Used where exactly-once consumption matters:
	// refresh rotation and account validation.
	Consume(ctx context.Context, token string) error

	// DeleteAll removes every record for a (username, source) pair.
	DeleteAll(ctx context.Context, username, source string) error
}
