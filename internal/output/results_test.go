package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fixminer/fixminer-go/internal/mining"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "mining_results.json")

	pairs := []mining.Pair{
		{
			PRID:       12,
			PRURL:      "https://github.com/o/r/pull/12",
			BadCommit:  "aaa",
			BadMsg:     "break the build",
			GoodCommit: "bbb",
			GoodMsg:    "fix the build",
		},
	}

	require.NoError(t, WritePairs(path, pairs))

	got, err := ReadPairs(path)
	require.NoError(t, err)
	assert.Equal(t, pairs, got)
}

func TestWritePairsOmitsUnsetEnrichment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WritePairs(path, []mining.Pair{{PRID: 1, BadCommit: "a", GoodCommit: "b"}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Stages that have not run yet must leave no trace in the output.
	assert.False(t, strings.Contains(string(raw), "category"))
	assert.False(t, strings.Contains(string(raw), "files_changed"))
	assert.False(t, strings.Contains(string(raw), "ai_is_dependency_update"))
}

func TestWritePairsEmptySliceWritesList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WritePairs(path, nil))

	got, err := ReadPairs(path)
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestReadPairsMissingFile(t *testing.T) {
	_, err := ReadPairs(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
