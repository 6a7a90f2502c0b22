// Package app wires configuration, storage, token issuance, mail and the HTTP
// server into a runnable service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vkuzn/sessiond/internal/api"
	"github.com/vkuzn/sessiond/internal/config"
	"github.com/vkuzn/sessiond/internal/logging"
	"github.com/vkuzn/sessiond/internal/mail"
	"github.com/vkuzn/sessiond/internal/password"
	"github.com/vkuzn/sessiond/internal/repositories/repomanager"
	"github.com/vkuzn/sessiond/internal/services"
	"github.com/vkuzn/sessiond/internal/token"
)

type App struct {
	cfg    *config.Config
	logger logging.Logger

	db     *sql.DB
	server *api.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	issuer := token.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ValidateTokenTTL)
	hasher := password.NewHasher(cfg.BcryptCost)

	mailer, err := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName)
	if err != nil {
		return nil, fmt.Errorf("creating mailer: %w", err)
	}

	sessions := services.NewSessionService(db, rm, issuer, hasher, mailer, logger, cfg.ValidateURLBase)
	server := api.NewServer(cfg.EndpointAddr, sessions, logger)

	return &App{cfg: cfg, logger: logger, db: db, server: server}, nil
}

// Run applies migrations and serves until the context is cancelled or an
// interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Error(ctx, "closing database", "error", err)
		}
	}()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	a.logger.Info(ctx, "migrations applied")

	err := a.server.Run(ctx)
	a.logger.Info(ctx, "server stopped")
	return err
}
