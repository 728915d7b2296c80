package langsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"

	"github.com/dmitrymomot/langsync/pkg/archive"
	"github.com/dmitrymomot/langsync/pkg/tree"
)

// Summary is the outcome of a run. When Process fails it holds what was
// done before the failure.
type Summary struct {
	// Archive is nil when backups are disabled.
	Archive *archive.Result

	Languages []string
	BaseFiles []string
	// Skipped lists base files without a matching codec.
	Skipped []string

	SortedFiles  int
	MergedFiles  int
	CreatedFiles int
	KeysAdded    int
	Conflicts    int
}

// Process runs the whole pipeline once:
//
//  1. discover target languages
//  2. archive the root (when BackupOriginalFiles is set)
//  3. discover base files
//  4. sort base files in place (when AlphabetizeEnglish is set)
//  5. merge every base file into every language
//
// The first error halts the run. Files written before it are left as they
// are; the archive taken in step 2 is the way back. Cancelling ctx stops
// the run between two files.
func (m *Manager) Process(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	languages, err := m.DiscoverLanguages(ctx)
	if err != nil {
		return sum, err
	}
	sum.Languages = languages

	if m.cfg.BackupOriginalFiles {
		res, err := m.archiver.Create(ctx, languages)
		if err != nil {
			m.logger.ErrorContext(ctx, "backup failed", slog.String("error", err.Error()))
			return sum, err
		}
		sum.Archive = res
		m.reporter.Report(ctx, Event{Kind: EventBackup, Path: res.Path, Message: res.UploadKey})
	}

	files, skipped, err := m.DiscoverBaseFiles(ctx)
	sum.Skipped = skipped
	if err != nil {
		return sum, err
	}
	sum.BaseFiles = files

	if m.cfg.AlphabetizeEnglish {
		for _, p := range files {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			if err := m.SortFile(ctx, p); err != nil {
				return sum, err
			}
			sum.SortedFiles++
		}
	}

	base := make([]*tree.Tree, len(files))
	for i, p := range files {
		t, err := m.codecs.DecodeFile(m.disk, p)
		if err != nil {
			m.logger.ErrorContext(ctx, "cannot decode base file", slog.String("path", p), slog.String("error", err.Error()))
			return sum, err
		}
		base[i] = t
	}

	for _, lang := range languages {
		for i, p := range files {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			res, err := m.mergeFile(ctx, lang, p, base[i])
			if err != nil {
				return sum, err
			}
			sum.MergedFiles++
			sum.KeysAdded += len(res.report.Added)
			sum.Conflicts += len(res.report.Conflicts)
			if res.created {
				sum.CreatedFiles++
			}
		}
	}

	m.logger.InfoContext(ctx, "translations synchronised",
		slog.Int("languages", len(sum.Languages)),
		slog.Int("files", sum.MergedFiles),
		slog.Int("keys_added", sum.KeysAdded),
		slog.Int("conflicts", sum.Conflicts),
	)
	return sum, nil
}

// DiscoverLanguages lists the top-level directories of the root except the
// base language and the backups directory, in ascending order.
func (m *Manager) DiscoverLanguages(ctx context.Context) ([]string, error) {
	dirs, err := m.disk.ListDirectories("")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoLanguages, err)
	}

	var languages []string
	for _, dir := range dirs {
		name := path.Base(dir)
		if name == BaseLanguage || name == BackupDir {
			continue
		}
		if _, err := languageTag(name); err != nil {
			m.logger.WarnContext(ctx, "directory is not a valid language tag",
				slog.String("language", name),
				slog.String("error", err.Error()),
			)
			m.reporter.Report(ctx, Event{Kind: EventInvalidLanguage, Language: name, Message: err.Error()})
		}
		languages = append(languages, name)
	}
	slices.Sort(languages)

	if len(languages) == 0 {
		m.logger.ErrorContext(ctx, "no languages to synchronise", slog.String("root", m.disk.ResolvePath("")))
		return nil, ErrNoLanguages
	}

	m.logger.InfoContext(ctx, "languages discovered", slog.Any("languages", languages))
	m.reporter.Report(ctx, Event{Kind: EventLanguages, Languages: languages})
	return languages, nil
}

// DiscoverBaseFiles lists every file below the base language directory.
// Files without a registered codec are returned separately as skipped.
func (m *Manager) DiscoverBaseFiles(ctx context.Context) (files, skipped []string, err error) {
	all, err := m.disk.ListFiles(BaseLanguage)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoBaseFiles, err)
	}

	for _, p := range all {
		if !m.codecs.Supports(p) {
			m.logger.WarnContext(ctx, "unsupported file skipped", slog.String("path", p))
			m.reporter.Report(ctx, Event{Kind: EventSkipped, Path: p, Message: "no codec for this extension"})
			skipped = append(skipped, p)
			continue
		}
		files = append(files, p)
	}

	if len(files) == 0 {
		m.logger.ErrorContext(ctx, "no base files found", slog.String("dir", m.disk.ResolvePath(BaseLanguage)))
		return nil, skipped, ErrNoBaseFiles
	}
	return files, skipped, nil
}

// SortFile sorts the keys of the file at p in place.
func (m *Manager) SortFile(ctx context.Context, p string) error {
	t, err := m.codecs.DecodeFile(m.disk, p)
	if err != nil {
		m.logger.ErrorContext(ctx, "cannot decode file", slog.String("path", p), slog.String("error", err.Error()))
		return err
	}

	if err := m.write(ctx, p, tree.SortKeys(t)); err != nil {
		return err
	}

	m.logger.DebugContext(ctx, "file sorted", slog.String("path", p))
	m.reporter.Report(ctx, Event{Kind: EventSorted, Language: BaseLanguage, Path: p})
	return nil
}

type mergeResult struct {
	report  tree.MergeReport
	created bool
}

// mergeFile brings the lang counterpart of basePath up to date with base.
func (m *Manager) mergeFile(ctx context.Context, lang, basePath string, base *tree.Tree) (mergeResult, error) {
	target := counterpart(basePath, lang)

	current, found, err := m.codecs.DecodeFileOrEmpty(m.disk, target)
	if err != nil {
		m.logger.ErrorContext(ctx, "cannot decode file", slog.String("path", target), slog.String("error", err.Error()))
		return mergeResult{}, err
	}

	merged, report := tree.Merge(base, current, m.cfg.Prefix, m.cfg.Suffix)
	if m.cfg.AlphabetizeOutputFiles {
		tree.SortKeys(merged)
	}

	for _, key := range report.Conflicts {
		m.logger.WarnContext(ctx, "key shape differs from base, target kept",
			slog.String("path", target),
			slog.String("key", key),
		)
		m.reporter.Report(ctx, Event{Kind: EventConflict, Language: lang, Path: target, Key: key})
	}

	if err := m.write(ctx, target, merged); err != nil {
		return mergeResult{}, err
	}

	m.logger.DebugContext(ctx, "file merged",
		slog.String("path", target),
		slog.Int("added", len(report.Added)),
		slog.Bool("created", !found),
	)
	m.reporter.Report(ctx, Event{
		Kind:     EventMerged,
		Language: lang,
		Path:     target,
		Added:    len(report.Added),
		Created:  !found,
	})
	return mergeResult{report: report, created: !found}, nil
}

// write encodes t for p and replaces the file. Encoding failures keep
// codec.ErrEncode; storage failures are reported as ErrWrite.
func (m *Manager) write(ctx context.Context, p string, t *tree.Tree) error {
	data, err := m.codecs.Encode(p, t)
	if err != nil {
		m.logger.ErrorContext(ctx, "cannot encode file", slog.String("path", p), slog.String("error", err.Error()))
		return err
	}

	if err := m.disk.Write(p, data); err != nil {
		m.logger.ErrorContext(ctx, "cannot write file", slog.String("path", p), slog.String("error", err.Error()))
		if errors.Is(err, ErrWrite) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrWrite, p, err)
	}
	return nil
}
