package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langsync/pkg/storage"
)

func TestMemoryDisk(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(map[string]string{
		"en/auth.php":        "a",
		"en/nested/deep.php": "b",
		"fr/auth.php":        "c",
	})

	t.Run("list files", func(t *testing.T) {
		t.Parallel()
		files, err := disk.ListFiles("en")
		require.NoError(t, err)
		require.Equal(t, []string{"en/auth.php", "en/nested/deep.php"}, files)
	})

	t.Run("list directories", func(t *testing.T) {
		t.Parallel()
		dirs, err := disk.ListDirectories("")
		require.NoError(t, err)
		require.Equal(t, []string{"en", "fr"}, dirs)

		dirs, err = disk.ListDirectories("en")
		require.NoError(t, err)
		require.Equal(t, []string{"en/nested"}, dirs)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := disk.ListFiles("de")
		require.ErrorIs(t, err, storage.ErrNotFound)
		_, err = disk.ListDirectories("de")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		t.Parallel()
		require.True(t, disk.Exists("en"))
		require.True(t, disk.Exists("en/nested"))
		require.True(t, disk.Exists("/fr/auth.php"))
		require.False(t, disk.Exists("de"))
	})
}

func TestMemoryDisk_ReadWrite(t *testing.T) {
	t.Parallel()

	disk := storage.NewMemoryDisk(nil)

	_, err := disk.Read("en/auth.php")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, disk.Write("en/auth.php", []byte("hello")))
	data, err := disk.Read("en/auth.php")
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	data[0] = 'J'
	again, err := disk.Read("en/auth.php")
	require.NoError(t, err)
	require.Equal(t, "hello", string(again), "read must return a copy")

	require.ErrorIs(t, disk.Write("en", []byte("x")), storage.ErrWriteFailed)
	require.ErrorIs(t, disk.Write("", []byte("x")), storage.ErrWriteFailed)

	require.NoError(t, disk.MakeDirectory("backups"))
	require.True(t, disk.Exists("backups"))
	require.ErrorIs(t, disk.MakeDirectory("en/auth.php"), storage.ErrWriteFailed)

	require.Equal(t, []string{"en/auth.php"}, disk.Paths())
	require.Equal(t, map[string]string{"en/auth.php": "hello"}, disk.Files())
	require.Equal(t, "/en/auth.php", disk.ResolvePath("en/auth.php"))
}
