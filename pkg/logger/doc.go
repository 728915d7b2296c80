// Package logger builds the log/slog logger used by langsync.
//
// New returns a text or JSON handler at the configured level, wrapped in a
// LogHandlerDecorator so that context extractors can add attributes to every
// record. The run id extractor is the one langsync installs: each
// invocation gets a UUID and every log line of that run carries it.
//
//	ctx := logger.WithRunID(context.Background(), logger.NewRunID())
//	log := logger.New(logger.Config{Level: slog.LevelInfo}, os.Stderr, logger.RunIDExtractor())
//	log.InfoContext(ctx, "merged file", slog.String("path", "pt_BR/auth.php"))
//	// time=... level=INFO msg="merged file" path=pt_BR/auth.php run_id=5f0c...
//
// # Sentry
//
// NewWithSentry additionally forwards records to Sentry when a DSN is
// configured. Errors become Sentry issues; warnings (or the configured
// MinLevel) are stored as logs. Without a DSN, or if the SDK cannot be
// initialised, the console logger is returned on its own. Call Flush before
// the process exits so queued events are delivered.
//
// # Discarding
//
// NewNope returns a logger that drops everything. Library constructors use
// it as their default so that a nil logger never has to be checked.
package logger
