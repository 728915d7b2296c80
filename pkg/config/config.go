package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/langsync/pkg/logger"
	"github.com/dmitrymomot/langsync/pkg/storage"
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrFileNotFound  = errors.New("config: file not found")
)

const (
	// EnvPrefix is prepended to every langsync environment variable.
	EnvPrefix = "LANGSYNC_"

	// DefaultFile is read from the working directory when present.
	DefaultFile = "langsync.yaml"

	DefaultRoot = "lang"
)

// Config is built once at start-up and passed to every component.
type Config struct {
	// Root is the translation directory holding one subdirectory per language.
	Root string `env:"ROOT" yaml:"root"`

	// AlphabetizeEnglish sorts the base language files in place.
	AlphabetizeEnglish bool `env:"ALPHABETIZE_ENGLISH" yaml:"alphabetize_english"`

	// AlphabetizeOutputFiles sorts every merged file before it is written.
	AlphabetizeOutputFiles bool `env:"ALPHABETIZE_OUTPUT_FILES" yaml:"alphabetize_output_files"`

	// BackupOriginalFiles archives all languages before anything is modified.
	BackupOriginalFiles bool `env:"BACKUP_ORIGINAL_FILES" yaml:"backup_original_files"`

	// Prefix and Suffix wrap every value copied from the base language so
	// untranslated entries are easy to spot.
	Prefix string `env:"PREFIX" yaml:"prefix"`
	Suffix string `env:"SUFFIX" yaml:"suffix"`

	Log    logger.Config       `envPrefix:"LOG_" yaml:"log"`
	Sentry logger.SentryConfig `yaml:"sentry"`

	// BackupS3 receives a copy of each backup archive when a bucket is set.
	BackupS3 storage.Config `envPrefix:"BACKUP_S3_" yaml:"backup_s3"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Root:                DefaultRoot,
		BackupOriginalFiles: true,
		Log: logger.Config{
			Level:  slog.LevelInfo,
			Format: logger.FormatText,
		},
		Sentry: logger.SentryConfig{
			MinLevel: slog.LevelWarn,
		},
	}
}

// LoadOptions selects the sources read by Load.
type LoadOptions struct {
	// File is a YAML configuration file. When empty, DefaultFile is used
	// if it exists.
	File string

	// EnvFiles are dotenv files loaded into the environment before it is
	// parsed. Missing files are ignored. Defaults to ".env".
	EnvFiles []string
}

// Load builds a Config from, in increasing precedence: Default, the YAML
// file, dotenv files and the process environment. The result is validated.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if err := loadFile(&cfg, opts.File); err != nil {
		return Config{}, err
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, f, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	// SENTRY_DSN and SENTRY_ENVIRONMENT are also honoured without the prefix.
	if err := env.Parse(&cfg.Sentry); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, file string) error {
	explicit := file != ""
	if !explicit {
		file = DefaultFile
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return fmt.Errorf("%w: %s", ErrFileNotFound, file)
			}
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, file, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, file, err)
	}
	return nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: root must not be empty", ErrInvalidConfig)
	}
	if err := c.Log.Format.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.BackupS3.Enabled() && (c.BackupS3.AccessKey == "" || c.BackupS3.SecretKey == "") {
		return fmt.Errorf("%w: backup_s3 requires access_key and secret_key", ErrInvalidConfig)
	}
	return nil
}
