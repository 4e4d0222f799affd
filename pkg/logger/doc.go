// Package logger builds the slog loggers used by the LinkedIn drop-in.
//
// Loggers write JSON (or text) to stdout, add request-scoped attributes through
// context extractors, and can fan out to Sentry:
//
//	log := logger.NewWithSentry(
//		logger.Config{Level: slog.LevelInfo},
//		logger.SentryConfig{DSN: os.Getenv("SENTRY_DSN")},
//		logger.CredentialID,
//	)
//	log.InfoContext(logger.WithCredentialID(ctx, cred.ID), "signed in")
//
// Library types default to NewNope, so nothing is logged unless a logger is injected.
package logger
