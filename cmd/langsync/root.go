package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/langsync/pkg/config"
	"github.com/dmitrymomot/langsync/pkg/logger"
)

// rootOptions holds the values of the persistent flags. A flag overrides
// the loaded configuration only when it was set explicitly.
type rootOptions struct {
	configFile string
	envFiles   []string
	root       string
	prefix     string
	suffix     string
	logLevel   string
	logFormat  string
	backup     bool
	sortBase   bool
	sortOutput bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "langsync",
		Short:         "Synchronise translation files with the English base language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file (default "+config.DefaultFile+" when present)")
	f.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	f.StringVarP(&opts.root, "root", "r", config.DefaultRoot, "translation root holding one directory per language")
	f.StringVar(&opts.prefix, "prefix", "", "text prepended to values copied from the base language")
	f.StringVar(&opts.suffix, "suffix", "", "text appended to values copied from the base language")
	f.BoolVar(&opts.backup, "backup", true, "archive all languages before modifying them")
	f.BoolVar(&opts.sortBase, "sort-base", false, "sort the keys of the base language files in place")
	f.BoolVar(&opts.sortOutput, "sort-output", false, "sort the keys of every merged file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", string(logger.FormatText), "log format: text or json")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")

	cmd.AddCommand(
		newProcessCmd(opts),
		newLanguagesCmd(opts),
	)
	return cmd
}

// loadConfig reads the configuration sources and applies explicit flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		File:     opts.configFile,
		EnvFiles: opts.envFiles,
	})
	if err != nil {
		return config.Config{}, err
	}

	if err := applyFlags(cmd, opts, &cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("root") {
		cfg.Root = opts.root
	}
	if changed("prefix") {
		cfg.Prefix = opts.prefix
	}
	if changed("suffix") {
		cfg.Suffix = opts.suffix
	}
	if changed("backup") {
		cfg.BackupOriginalFiles = opts.backup
	}
	if changed("sort-base") {
		cfg.AlphabetizeEnglish = opts.sortBase
	}
	if changed("sort-output") {
		cfg.AlphabetizeOutputFiles = opts.sortOutput
	}
	if changed("log-level") {
		var level slog.Level
		if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
			return fmt.Errorf("%w: log-level: %v", config.ErrInvalidConfig, err)
		}
		cfg.Log.Level = level
	}
	if changed("log-format") {
		var format logger.Format
		if err := format.UnmarshalText([]byte(opts.logFormat)); err != nil {
			return fmt.Errorf("%w: log-format: %v", config.ErrInvalidConfig, err)
		}
		cfg.Log.Format = format
	}
	return nil
}
