// Package langsync keeps per-language translation files in step with the
// base language.
//
// A translation root holds one directory per language, each with the same
// relative file layout:
//
//	lang/
//	    en/auth.php          base language, the source of truth
//	    en/forms/login.php
//	    pt_BR/auth.php
//	    fr/
//	    backups/             reserved for archives
//
// For every base file and every other language, the Manager decodes the
// language's counterpart (an empty tree when it does not exist yet), adds
// every key the base has and the counterpart lacks, and writes the result.
// Existing translations and keys that only exist in the target are never
// touched. Newly copied values are wrapped in the configured prefix and
// suffix so untranslated text stands out.
//
// # Usage
//
//	disk, err := storage.NewLocalDisk(cfg.Root)
//	if err != nil {
//		return err
//	}
//
//	m := langsync.New(disk,
//		langsync.WithConfig(cfg),
//		langsync.WithLogger(log),
//	)
//
//	sum, err := m.Process(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%d keys added across %d files\n", sum.KeysAdded, sum.MergedFiles)
//
// # Pipeline
//
// Process discovers the target languages, archives the root when backups are
// enabled, discovers the base files, optionally sorts them in place and then
// merges language by language, file by file. Processing is sequential and
// the first failure halts the run:
//
//   - ErrNoLanguages: no language directory besides the base and backups.
//   - ErrNoBaseFiles: the base directory holds no readable file.
//   - archive.ErrArchive: the backup could not be created or is too small.
//   - codec.ErrDecode / codec.ErrEncode: a file could not be parsed or rendered.
//   - ErrWrite: a file could not be written.
//
// Each file is replaced atomically by storage.LocalDisk, so a halt never
// leaves a truncated file behind.
//
// # Progress
//
// A Reporter set with WithReporter receives an Event for every discovered
// language set, backup, sorted or merged file, skipped file and key
// conflict. The command-line tool uses it for console output.
package langsync
