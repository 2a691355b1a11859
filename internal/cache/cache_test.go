package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestChangedFilesRoundTrip(t *testing.T) {
	store := openTestStore(t)

	_, ok := store.ChangedFiles("abc")
	assert.False(t, ok)

	files := []string{"build.gradle", "src/App.kt"}
	require.NoError(t, store.PutChangedFiles("abc", files))

	got, ok := store.ChangedFiles("abc")
	require.True(t, ok)
	assert.Equal(t, files, got)
}

func TestEmptyFileListIsCached(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.PutChangedFiles("empty", []string{}))

	got, ok := store.ChangedFiles("empty")
	assert.True(t, ok, "an empty list is a valid cached answer, not a miss")
	assert.Empty(t, got)
}

func TestDiffRoundTrip(t *testing.T) {
	store := openTestStore(t)

	_, ok := store.Diff("abc")
	assert.False(t, ok)

	require.NoError(t, store.PutDiff("abc", "diff --git a/x b/x"))

	got, ok := store.Diff("abc")
	require.True(t, ok)
	assert.Equal(t, "diff --git a/x b/x", got)
}

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store

	_, ok := store.ChangedFiles("abc")
	assert.False(t, ok)
	assert.NoError(t, store.PutChangedFiles("abc", []string{"f"}))
	_, ok = store.Diff("abc")
	assert.False(t, ok)
	assert.NoError(t, store.PutDiff("abc", "d"))
	assert.NoError(t, store.Close())
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.PutDiff("abc", "d"))
}
