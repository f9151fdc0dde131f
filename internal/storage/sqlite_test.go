package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestStorage returns a migrated database in a temp directory.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "honcho.db")
		store, err := NewSQLiteStorage(dbPath)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, err = os.Stat(filepath.Dir(dbPath))
		assert.NoError(t, err)
		assert.Equal(t, dbPath, store.Path())
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestSQLiteStorage_Backup(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	require.NoError(t, store.SaveImages(ctx, testImages(2)))

	dest := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, store.Backup(ctx, dest))

	copyStore, err := NewSQLiteStorage(dest)
	require.NoError(t, err)
	defer func() { _ = copyStore.Close() }()

	images, err := copyStore.ListImages(ctx)
	require.NoError(t, err)
	assert.Len(t, images, 2)

	assert.ErrorIs(t, store.Backup(ctx, dest), ErrInvalidPath, "existing file")
	assert.ErrorIs(t, store.Backup(ctx, "relative.db"), ErrInvalidPath)
	assert.ErrorIs(t, store.Backup(ctx, "/tmp/x';DROP.db"), ErrInvalidPath)
}
