// Package repomanager hands out repositories bound to a specific database
// handle, so that services can rebind them to a transaction when a flow needs
// atomicity.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkuzn/sessiond/internal/dbx"
	"github.com/vkuzn/sessiond/internal/repositories/refreshtokens"
	"github.com/vkuzn/sessiond/internal/repositories/users"
)

// RepositoryManager builds repositories over a DBTX (either the pool or an
// open transaction) and owns schema migrations.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
