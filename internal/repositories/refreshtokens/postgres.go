package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vkuzn/sessiond/internal/common"
	"github.com/vkuzn/sessiond/internal/dbx"
	"github.com/vkuzn/sessiond/internal/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token, username, source string) error {
	query := `
		INSERT INTO refresh_tokens (token, username, source)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, token, username, source); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token, source string) (*models.RefreshToken, error) {
	query := `
		SELECT token, username, source
		FROM refresh_tokens
		WHERE token = $1 AND source = $2
	`
	record := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token, source).Scan(
		&record.Token, &record.Username, &record.Source,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM refresh_tokens WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, token string) error {
	query := `
		DELETE FROM refresh_tokens WHERE token = $1
	`
	result, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, username, source string) error {
	query := `
		DELETE FROM refresh_tokens WHERE username = $1 AND source = $2
	`
	if _, err := r.db.ExecContext(ctx, query, username, source); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
