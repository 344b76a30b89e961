package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("reports/out.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "reports/out.csv", name)

	file, err := store.Open(name)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	require.NoError(t, store.Delete(name))
	_, err = store.Open(name)
	assert.Error(t, err)

	// Deleting a missing file is not an error.
	assert.NoError(t, store.Delete("missing.csv"))
}

func TestLocalStorageRequiresDir(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}

func TestCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.csv", []byte("x"))
	require.NoError(t, err)
	_, err = store.Save("new.csv", []byte("y"))
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), stale, stale))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, err = store.Open("new.csv")
	assert.NoError(t, err)
}

func TestDirOperations(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save(filepath.Join("snap_1", "data.json"), []byte("12345"))
	require.NoError(t, err)
	_, err = store.Save(filepath.Join("snap_1", "more.json"), []byte("123"))
	require.NoError(t, err)

	size, err := store.DirSize("snap_1")
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)

	dirs, err := store.ListDirs()
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, "snap_1", dirs[0].Name)
	assert.Equal(t, int64(8), dirs[0].SizeBytes)

	require.NoError(t, store.RemoveDir("snap_1"))
	dirs, err = store.ListDirs()
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.0 KB", FormatSize(1024))
	assert.Equal(t, "1.5 MB", FormatSize(1572864))
}
