package langsync_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langsync"
	"github.com/dmitrymomot/langsync/pkg/archive"
	"github.com/dmitrymomot/langsync/pkg/codec"
	"github.com/dmitrymomot/langsync/pkg/config"
	"github.com/dmitrymomot/langsync/pkg/storage"
)

func php(body string) string {
	return "<?php\n\nreturn " + body + ";\n"
}

func settings(mutate func(*config.Config)) config.Config {
	cfg := config.Default()
	cfg.BackupOriginalFiles = false
	cfg.Suffix = " - NT"
	if mutate != nil {
		mutate(&cfg)
	}
	return cfg
}

// recorder collects reported events.
type recorder struct {
	events []langsync.Event
	mu     sync.Mutex
}

func (r *recorder) Report(_ context.Context, e langsync.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []langsync.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]langsync.EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func TestProcess_KeepsExistingTranslation(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/auth.php":    "<?php return ['signin' => 'Sign-in'];",
		"pt_BR/auth.php": "<?php return ['signin' => 'Acessar o sistema'];",
	})

	sum, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"pt_BR"}, sum.Languages)
	require.Equal(t, 1, sum.MergedFiles)
	require.Equal(t, 0, sum.KeysAdded)

	got, err := disk.Read("pt_BR/auth.php")
	require.NoError(t, err)
	require.Equal(t, php("[\n    'signin' => 'Acessar o sistema',\n]"), string(got))
}

func TestProcess_CreatesMissingFile(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/messages.php": "<?php return ['new' => 'New translated here'];",
		"pt_BR/auth.php":  "<?php return [];",
	})

	sum, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sum.CreatedFiles)
	require.Equal(t, 1, sum.KeysAdded)

	got, err := disk.Read("pt_BR/messages.php")
	require.NoError(t, err)
	require.Equal(t, php("[\n    'new' => 'New translated here - NT',\n]"), string(got))

	untouched, err := disk.Read("pt_BR/auth.php")
	require.NoError(t, err)
	require.Equal(t, "<?php return [];", string(untouched), "files without a base counterpart are not rewritten")
}

func TestProcess_NestedMergeKeepsSiblings(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/app.php": "<?php return ['nested' => ['a' => 'A']];",
		"fr/app.php": "<?php return ['nested' => ['b' => 'B'], 'extra' => 'kept'];",
	})

	cfg := settings(func(c *config.Config) { c.Prefix = "[fr] " })
	_, err := langsync.New(disk, langsync.WithConfig(cfg)).Process(context.Background())
	require.NoError(t, err)

	got, err := disk.Read("fr/app.php")
	require.NoError(t, err)
	want := php(`[
    'nested' => [
        'b' => 'B',
        'a' => '[fr] A - NT',
    ],
    'extra' => 'kept',
]`)
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("fr/app.php mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_NoLanguages(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"en/auth.php":     "<?php return ['a' => 'A'];",
		"backups/old.zip": "zip",
	}
	disk := storage.NewMemoryDisk(files)
	rec := &recorder{}

	cfg := settings(func(c *config.Config) { c.BackupOriginalFiles = true })
	_, err := langsync.New(disk, langsync.WithConfig(cfg), langsync.WithReporter(rec)).Process(context.Background())
	require.ErrorIs(t, err, langsync.ErrNoLanguages)
	require.Equal(t, files, disk.Files(), "nothing may be written")
	require.Empty(t, rec.kinds())
}

// truncatingDisk stores at most limit bytes per write.
type truncatingDisk struct {
	*storage.MemoryDisk
	limit int
}

func (d truncatingDisk) Write(p string, data []byte) error {
	if len(data) > d.limit {
		data = data[:d.limit]
	}
	return d.MemoryDisk.Write(p, data)
}

func TestProcess_ArchiveTooSmallHalts(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"en/auth.php": "<?php return ['a' => 'A', 'b' => 'B'];",
		"fr/auth.php": "<?php return ['a' => 'Un'];",
	}
	disk := truncatingDisk{MemoryDisk: storage.NewMemoryDisk(files), limit: 50}

	cfg := settings(func(c *config.Config) { c.BackupOriginalFiles = true })
	sum, err := langsync.New(disk, langsync.WithConfig(cfg)).Process(context.Background())
	require.ErrorIs(t, err, archive.ErrArchive)
	require.Equal(t, 0, sum.MergedFiles)

	got, err := disk.Read("fr/auth.php")
	require.NoError(t, err)
	require.Equal(t, files["fr/auth.php"], string(got))
}

func TestProcess_Idempotent(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/auth.php":        "<?php return ['z' => 'Z', 'a' => ['y' => 'Y', 'x' => 'X'], 'n' => 3];",
		"en/nested/form.php": "<?php return ['submit' => 'Submit'];",
		"de/auth.php":        "<?php return ['a' => ['x' => 'Ix'], 'own' => 'Eigen'];",
		"fr/auth.php":        "<?php return [];",
	})

	cfg := settings(func(c *config.Config) {
		c.AlphabetizeEnglish = true
		c.AlphabetizeOutputFiles = true
	})
	m := langsync.New(disk, langsync.WithConfig(cfg))

	first, err := m.Process(context.Background())
	require.NoError(t, err)
	require.Positive(t, first.KeysAdded)
	after := disk.Files()

	second, err := m.Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, second.KeysAdded)
	require.Equal(t, 0, second.CreatedFiles)
	if diff := cmp.Diff(after, disk.Files()); diff != "" {
		t.Fatalf("second run changed files (-first +second):\n%s", diff)
	}
}

func TestProcess_Sorting(t *testing.T) {
	t.Parallel()

	newDisk := func() *storage.MemoryDisk {
		return storage.NewMemoryDisk(map[string]string{
			"en/auth.php": "<?php return ['b' => 'B', 'a' => 'A'];",
			"fr/auth.php": "<?php return ['z' => 'Zed'];",
		})
	}

	t.Run("base and output", func(t *testing.T) {
		t.Parallel()
		disk := newDisk()
		cfg := settings(func(c *config.Config) {
			c.AlphabetizeEnglish = true
			c.AlphabetizeOutputFiles = true
		})

		sum, err := langsync.New(disk, langsync.WithConfig(cfg)).Process(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, sum.SortedFiles)

		en, err := disk.Read("en/auth.php")
		require.NoError(t, err)
		require.Equal(t, php("[\n    'a' => 'A',\n    'b' => 'B',\n]"), string(en))

		fr, err := disk.Read("fr/auth.php")
		require.NoError(t, err)
		require.Equal(t, php("[\n    'a' => 'A - NT',\n    'b' => 'B - NT',\n    'z' => 'Zed',\n]"), string(fr))
	})

	t.Run("disabled keeps insertion order", func(t *testing.T) {
		t.Parallel()
		disk := newDisk()

		sum, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(context.Background())
		require.NoError(t, err)
		require.Equal(t, 0, sum.SortedFiles)

		en, err := disk.Read("en/auth.php")
		require.NoError(t, err)
		require.Equal(t, "<?php return ['b' => 'B', 'a' => 'A'];", string(en), "base is not rewritten")

		fr, err := disk.Read("fr/auth.php")
		require.NoError(t, err)
		require.Equal(t, php("[\n    'z' => 'Zed',\n    'b' => 'B - NT',\n    'a' => 'A - NT',\n]"), string(fr))
	})
}

// failingDisk rejects writes to one path.
type failingDisk struct {
	*storage.MemoryDisk
	path string
}

func (d failingDisk) Write(p string, data []byte) error {
	if p == d.path {
		return storage.ErrWriteFailed
	}
	return d.MemoryDisk.Write(p, data)
}

func TestProcess_WriteFailureHalts(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"en/auth.php":    "<?php return ['a' => 'A'];",
		"de/auth.php":    "<?php return [];",
		"fr/auth.php":    "<?php return [];",
		"pt_BR/auth.php": "<?php return [];",
	}
	disk := failingDisk{MemoryDisk: storage.NewMemoryDisk(files), path: "fr/auth.php"}

	sum, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(context.Background())
	require.ErrorIs(t, err, langsync.ErrWrite)
	require.ErrorIs(t, err, storage.ErrWriteFailed)
	require.Equal(t, 1, sum.MergedFiles)

	de, err := disk.Read("de/auth.php")
	require.NoError(t, err)
	require.Equal(t, php("[\n    'a' => 'A - NT',\n]"), string(de))

	pt, err := disk.Read("pt_BR/auth.php")
	require.NoError(t, err)
	require.Equal(t, files["pt_BR/auth.php"], string(pt), "languages after the failure are not touched")
}

func TestProcess_DecodeErrorHalts(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/auth.php": "<?php return ['a' => 'A'];",
		"fr/auth.php": "<?php\nreturn [\n    'a' => strtoupper('x'),\n];\n",
	})

	_, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(context.Background())
	require.ErrorIs(t, err, codec.ErrDecode)

	var se *codec.SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 3, se.Line)
	require.Contains(t, err.Error(), "fr/auth.php")
}

func TestProcess_NoBaseFiles(t *testing.T) {
	t.Parallel()

	t.Run("missing base directory", func(t *testing.T) {
		t.Parallel()
		disk := storage.NewMemoryDisk(map[string]string{"fr/auth.php": "<?php return [];"})
		_, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(context.Background())
		require.ErrorIs(t, err, langsync.ErrNoBaseFiles)
	})

	t.Run("only unsupported files", func(t *testing.T) {
		t.Parallel()
		disk := storage.NewMemoryDisk(map[string]string{
			"en/.gitkeep": "",
			"fr/auth.php": "<?php return [];",
		})
		sum, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(context.Background())
		require.ErrorIs(t, err, langsync.ErrNoBaseFiles)
		require.Equal(t, []string{"en/.gitkeep"}, sum.Skipped)
	})
}

func TestProcess_MixedFormats(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/app.json":     `{"title": "Title", "menu": {"home": "Home"}}`,
		"en/mail.yaml":    "subject: Hello\n",
		"en/README.md":    "docs",
		"es/app.json":     `{"menu": {"home": "Inicio"}}`,
		"es/placeholder":  "",
		"backups/old.zip": "old",
	})
	rec := &recorder{}

	sum, err := langsync.New(disk, langsync.WithConfig(settings(nil)), langsync.WithReporter(rec)).
		Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"en/app.json", "en/mail.yaml"}, sum.BaseFiles)
	require.Equal(t, []string{"en/README.md"}, sum.Skipped)

	app, err := disk.Read("es/app.json")
	require.NoError(t, err)
	require.Equal(t, "{\n    \"menu\": {\n        \"home\": \"Inicio\"\n    },\n    \"title\": \"Title - NT\"\n}\n", string(app))

	mail, err := disk.Read("es/mail.yaml")
	require.NoError(t, err)
	require.Equal(t, "subject: Hello - NT\n", string(mail))

	require.Equal(t, []langsync.EventKind{
		langsync.EventLanguages,
		langsync.EventSkipped,
		langsync.EventMerged,
		langsync.EventMerged,
	}, rec.kinds())
}

func TestProcess_ShapeConflict(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/app.php": "<?php return ['menu' => ['home' => 'Home'], 'title' => 'Title'];",
		"fr/app.php": "<?php return ['menu' => 'Menu', 'title' => ['short' => 'T']];",
	})
	rec := &recorder{}

	sum, err := langsync.New(disk, langsync.WithConfig(settings(nil)), langsync.WithReporter(rec)).
		Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, sum.Conflicts)
	require.Equal(t, 0, sum.KeysAdded)

	got, err := disk.Read("fr/app.php")
	require.NoError(t, err)
	require.Equal(t, php("[\n    'menu' => 'Menu',\n    'title' => [\n        'short' => 'T',\n    ],\n]"), string(got))

	var conflicts []string
	for _, e := range rec.events {
		if e.Kind == langsync.EventConflict {
			conflicts = append(conflicts, e.Key)
		}
	}
	require.Equal(t, []string{"menu", "title"}, conflicts)
}

func TestProcess_InvalidLanguageIsWarnedNotSkipped(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/auth.php": "<?php return ['a' => 'A'];",
		"1x/auth.php": "<?php return [];",
	})
	rec := &recorder{}

	sum, err := langsync.New(disk, langsync.WithConfig(settings(nil)), langsync.WithReporter(rec)).
		Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1x"}, sum.Languages)
	require.Contains(t, rec.kinds(), langsync.EventInvalidLanguage)
}

func TestProcess_Cancelled(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"en/auth.php": "<?php return ['a' => 'A'];",
		"fr/auth.php": "<?php return [];",
	}
	disk := storage.NewMemoryDisk(files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := langsync.New(disk, langsync.WithConfig(settings(nil))).Process(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, files, disk.Files())
}

type fakeArchiver struct {
	err       error
	languages []string
}

func (a *fakeArchiver) Create(_ context.Context, languages []string) (*archive.Result, error) {
	a.languages = languages
	if a.err != nil {
		return nil, a.err
	}
	return &archive.Result{Path: "backups/1-lang-backup.zip", Size: 200}, nil
}

func TestProcess_UsesArchiver(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/auth.php": "<?php return ['a' => 'A'];",
		"fr/auth.php": "<?php return [];",
		"de/auth.php": "<?php return [];",
	})
	arch := &fakeArchiver{}
	rec := &recorder{}

	cfg := settings(func(c *config.Config) { c.BackupOriginalFiles = true })
	sum, err := langsync.New(disk,
		langsync.WithConfig(cfg),
		langsync.WithArchiver(arch),
		langsync.WithReporter(rec),
	).Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"de", "fr"}, arch.languages)
	require.Equal(t, "backups/1-lang-backup.zip", sum.Archive.Path)
	require.Equal(t, langsync.EventBackup, rec.kinds()[1])
}

func TestProcess_LocalDisk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("en/auth.php", php("[\n    'failed' => 'These credentials do not match our records.',\n    'throttle' => 'Too many login attempts.',\n]"))
	write("en/forms/login.php", php("[\n    'email' => 'Email',\n]"))
	write("pt_BR/auth.php", php("[\n    'failed' => 'Credenciais inválidas.',\n]"))

	disk, err := storage.NewLocalDisk(root)
	require.NoError(t, err)

	cfg := settings(func(c *config.Config) { c.BackupOriginalFiles = true })
	sum, err := langsync.New(disk, langsync.WithConfig(cfg)).Process(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sum.Archive)
	require.True(t, strings.HasPrefix(sum.Archive.Path, "backups/"))
	require.Greater(t, sum.Archive.Size, int64(archive.MinArchiveSize))

	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(sum.Archive.Path)))
	require.NoError(t, err)
	require.Equal(t, sum.Archive.Size, info.Size())

	login, err := os.ReadFile(filepath.Join(root, "pt_BR", "forms", "login.php"))
	require.NoError(t, err)
	require.Equal(t, php("[\n    'email' => 'Email - NT',\n]"), string(login))

	// A second run leaves backups/ out of the language list.
	second, err := langsync.New(disk, langsync.WithConfig(cfg), langsync.WithArchiver(&fakeArchiver{})).
		Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"pt_BR"}, second.Languages)
}

