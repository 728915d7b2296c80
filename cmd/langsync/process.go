package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langsync"
	"github.com/dmitrymomot/langsync/pkg/archive"
	"github.com/dmitrymomot/langsync/pkg/config"
	"github.com/dmitrymomot/langsync/pkg/logger"
	"github.com/dmitrymomot/langsync/pkg/storage"
)

const flushTimeout = 2 * time.Second

func newProcessCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Merge missing keys from the base language into every other language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProcess(cmd, opts)
		},
	}
}

func newLanguagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages that would be synchronised",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLanguages(cmd, opts)
		},
	}
}

func runProcess(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry, cmd.ErrOrStderr(), logger.RunIDExtractor())
	defer logger.Flush(flushTimeout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, logger.NewRunID())

	m, err := newManager(ctx, cfg, log, reporterFor(cmd.OutOrStdout(), opts.quiet))
	if err != nil {
		log.ErrorContext(ctx, "cannot start", slog.String("error", err.Error()))
		return err
	}

	sum, err := m.Process(ctx)
	if !opts.quiet {
		printSummary(cmd.OutOrStdout(), sum, err)
	}
	return err
}

func runLanguages(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, cmd.ErrOrStderr())
	m, err := newManager(cmd.Context(), cfg, log, nil)
	if err != nil {
		return err
	}

	languages, err := m.DiscoverLanguages(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, lang := range languages {
		_, _ = fmt.Fprintln(out, lang)
	}
	return nil
}

// newManager wires a Manager for the local translation root. Backups are
// copied to S3 when a bucket is configured.
func newManager(ctx context.Context, cfg config.Config, log *slog.Logger, rep langsync.Reporter) (*langsync.Manager, error) {
	disk, err := storage.NewLocalDisk(cfg.Root)
	if err != nil {
		return nil, err
	}

	archiveOpts := []archive.Option{
		archive.WithLogger(log),
		archive.WithBaseLanguage(langsync.BaseLanguage),
	}
	if cfg.BackupS3.Enabled() {
		s3, err := storage.New(cfg.BackupS3)
		if err != nil {
			return nil, err
		}
		archiveOpts = append(archiveOpts, archive.WithUploader(s3, archive.Dir))
		log.DebugContext(ctx, "backup upload enabled", slog.String("bucket", cfg.BackupS3.Bucket))
	}

	return langsync.New(disk,
		langsync.WithConfig(cfg),
		langsync.WithLogger(log),
		langsync.WithArchiver(archive.New(disk, archiveOpts...)),
		langsync.WithReporter(rep),
	), nil
}

func reporterFor(w io.Writer, quiet bool) langsync.Reporter {
	if quiet {
		return nil
	}
	return newConsoleReporter(w)
}
