package mining

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewCheckpointStore(path)

	pairs := []Pair{{PRID: 7, BadCommit: "aaa", GoodCommit: "bbb"}}
	require.NoError(t, store.Save(State{Cursor: "abc123", Processed: 40, Pairs: pairs}))

	st, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "abc123", st.Cursor)
	assert.Equal(t, 40, st.Processed)
	assert.Equal(t, pairs, st.Pairs)
}

func TestCheckpointLoadMissingFile(t *testing.T) {
	store := NewCheckpointStore(filepath.Join(t.TempDir(), "missing.json"))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, st, "missing checkpoint means a fresh run, not an error")
}

func TestCheckpointDisabled(t *testing.T) {
	var store *CheckpointStore

	st, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, st)
	assert.NoError(t, store.Save(State{Cursor: "x"}))
	assert.NoError(t, store.Clear())
}

func TestCheckpointClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewCheckpointStore(path)

	require.NoError(t, store.Save(State{Cursor: "abc", Processed: 1}))
	require.NoError(t, store.Clear())

	st, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, st)

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}
