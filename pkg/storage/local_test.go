package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langsync/pkg/storage"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func newLocalDisk(t *testing.T, files map[string]string) (*storage.LocalDisk, string) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		writeTestFile(t, root, rel, content)
	}
	disk, err := storage.NewLocalDisk(root)
	require.NoError(t, err)
	return disk, root
}

func TestNewLocalDisk(t *testing.T) {
	t.Parallel()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := storage.NewLocalDisk(filepath.Join(t.TempDir(), "nope"))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTestFile(t, root, "file.txt", "x")
		_, err := storage.NewLocalDisk(filepath.Join(root, "file.txt"))
		require.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

func TestLocalDisk_List(t *testing.T) {
	t.Parallel()

	disk, _ := newLocalDisk(t, map[string]string{
		"en/auth.php":        "a",
		"en/nested/deep.php": "b",
		"fr/auth.php":        "c",
		"backups/old.zip":    "d",
	})

	t.Run("files recursive", func(t *testing.T) {
		t.Parallel()
		files, err := disk.ListFiles("en")
		require.NoError(t, err)
		require.Equal(t, []string{"en/auth.php", "en/nested/deep.php"}, files)
	})

	t.Run("directories immediate only", func(t *testing.T) {
		t.Parallel()
		dirs, err := disk.ListDirectories("")
		require.NoError(t, err)
		require.Equal(t, []string{"backups", "en", "fr"}, dirs)
	})

	t.Run("nested directories", func(t *testing.T) {
		t.Parallel()
		dirs, err := disk.ListDirectories("en")
		require.NoError(t, err)
		require.Equal(t, []string{"en/nested"}, dirs)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := disk.ListFiles("de")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestLocalDisk_ReadWrite(t *testing.T) {
	t.Parallel()

	disk, root := newLocalDisk(t, map[string]string{"en/auth.php": "old"})

	require.True(t, disk.Exists("en/auth.php"))
	require.True(t, disk.Exists("en"))
	require.False(t, disk.Exists("fr/auth.php"))

	data, err := disk.Read("en/auth.php")
	require.NoError(t, err)
	require.Equal(t, "old", string(data))

	require.NoError(t, disk.Write("en/auth.php", []byte("new")))
	data, err = disk.Read("en/auth.php")
	require.NoError(t, err)
	require.Equal(t, "new", string(data))

	require.NoError(t, disk.Write("fr/nested/x.php", []byte("created")))
	require.FileExists(t, filepath.Join(root, "fr", "nested", "x.php"))

	_, err = disk.Read("de/auth.php")
	require.ErrorIs(t, err, storage.ErrNotFound)

	entries, err := os.ReadDir(filepath.Join(root, "en"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestLocalDisk_WritePreservesMode(t *testing.T) {
	t.Parallel()

	disk, root := newLocalDisk(t, map[string]string{"en/auth.php": "old"})
	p := filepath.Join(root, "en", "auth.php")
	require.NoError(t, os.Chmod(p, 0o600))

	require.NoError(t, disk.Write("en/auth.php", []byte("new")))

	info, err := os.Stat(p)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLocalDisk_ResolvePath(t *testing.T) {
	t.Parallel()

	disk, root := newLocalDisk(t, nil)
	root, err := filepath.Abs(root)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(root, "en", "auth.php"), disk.ResolvePath("en/auth.php"))
	require.Equal(t, filepath.Join(root, "etc", "passwd"), disk.ResolvePath("../../etc/passwd"))
	require.Equal(t, root, disk.ResolvePath(""))
}

func TestLocalDisk_MakeDirectory(t *testing.T) {
	t.Parallel()

	disk, root := newLocalDisk(t, nil)
	require.NoError(t, disk.MakeDirectory("backups"))
	require.DirExists(t, filepath.Join(root, "backups"))
}
