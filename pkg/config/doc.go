// Package config assembles the langsync configuration.
//
// Sources are applied in order, later ones winning:
//
//  1. Default: root "lang", backups on, sorting off, no affixes, info logs.
//  2. A YAML file, langsync.yaml by default or the path given in LoadOptions.
//  3. dotenv files (".env" by default), loaded into the environment.
//  4. Environment variables prefixed with LANGSYNC_, for example
//     LANGSYNC_ROOT, LANGSYNC_ALPHABETIZE_ENGLISH, LANGSYNC_LOG_LEVEL or
//     LANGSYNC_BACKUP_S3_BUCKET. SENTRY_DSN works with or without the prefix.
//
// Command-line flags are applied on top by the CLI. The resulting Config is
// passed explicitly to every component; nothing reads it from global state.
//
// Example langsync.yaml:
//
//	root: resources/lang
//	alphabetize_english: true
//	alphabetize_output_files: true
//	backup_original_files: true
//	suffix: " - NT"
//	log:
//	  level: debug
//	  format: json
package config
