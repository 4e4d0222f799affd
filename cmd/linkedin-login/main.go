// Command linkedin-login serves the LinkedIn sign-in flow backed by a
// memory, Redis or PostgreSQL credential store.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/dropin/internal/config"
	"github.com/dmitrymomot/dropin/internal/server"
	"github.com/dmitrymomot/dropin/pkg/credential"
	"github.com/dmitrymomot/dropin/pkg/db"
	"github.com/dmitrymomot/dropin/pkg/health"
	"github.com/dmitrymomot/dropin/pkg/linkedin"
	"github.com/dmitrymomot/dropin/pkg/logger"
	"github.com/dmitrymomot/dropin/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry, logger.CredentialID, server.RequestIDExtractor())
	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store, checks, hooks, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	hooks = append(hooks, func(context.Context) error {
		sentry.Flush(2 * time.Second)
		return nil
	})

	client := linkedin.New(cfg.LinkedIn, linkedin.WithLogger(log))
	srv, err := server.New(server.Config{
		Client:       client,
		Store:        store,
		Logger:       log,
		Checks:       checks,
		BaseURL:      cfg.App.BaseURL,
		CallbackPath: cfg.App.CallbackPath,
		CookieSecret: cfg.App.CookieSecret,
		CookieSecure: cfg.App.CookieSecure,
		SessionTTL:   cfg.App.SessionTTL,
		APIOptions:   []linkedin.Option{linkedin.WithLogger(log)},
	})
	if err != nil {
		return err
	}

	opts := []server.RunOption{
		server.Address(cfg.App.Addr),
		server.Logger(log),
		server.ShutdownTimeout(cfg.App.ShutdownTimeout),
	}
	for _, hook := range hooks {
		opts = append(opts, server.ShutdownHook(hook))
	}
	return server.Run(ctx, srv.Router(), opts...)
}

// openStore connects the configured credential backend and returns its
// readiness checks and shutdown hooks.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (linkedin.Store, health.Checks, []func(context.Context) error, error) {
	switch cfg.App.StoreDriver {
	case config.DriverRedis:
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		store := credential.NewRedis(client, credential.WithRedisTTL(cfg.App.CredentialTTL))
		log.Info("using redis credential store")
		return store,
			health.Checks{"redis": redis.Healthcheck(client)},
			[]func(context.Context) error{redis.Shutdown(client)},
			nil

	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx, pool, credential.Migrations, cfg.DB.MigrationsTable, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		log.Info("using postgres credential store")
		return credential.NewPostgres(pool),
			health.Checks{"postgres": db.Healthcheck(pool)},
			[]func(context.Context) error{db.Shutdown(pool)},
			nil

	default:
		log.Warn("using in-memory credential store, credentials are lost on restart")
		return credential.NewMemory(), nil, nil, nil
	}
}
