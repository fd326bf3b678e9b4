package drafts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoadClear(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyFor("1"), "hello"))
	require.NoError(t, store.Save(KeyFor("2"), "world"))
	require.NoError(t, store.Clear(KeyFor("2")))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", loaded[KeyFor("1")])

	cleared, ok := loaded[KeyFor("2")]
	assert.True(t, ok, "cleared drafts keep their key")
	assert.Equal(t, "", cleared)
	assert.False(t, loaded.For("2").Present())
}

func TestStoreEraseRemovesKey(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(KeyFor("7"), "x"))
	require.NoError(t, store.Erase(KeyFor("7")))
	require.NoError(t, store.Erase(KeyFor("7")))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []DraftKey{"", "draft_", "draft_../etc", "notes_1"} {
		err := store.Save(key, "x")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestStoreIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0600))
	require.NoError(t, store.Save(KeyFor("3"), "draft"))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStoreFilesArePrivate(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(KeyFor("3"), "secret"))

	info, err := os.Stat(filepath.Join(dir, "draft_3"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Equal(t, dir, store.Path())
}
