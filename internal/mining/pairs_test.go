package mining

import (
	"testing"

	"github.com/fixminer/fixminer-go/internal/githubql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPR = githubql.PullRequest{Number: 42, URL: "https://github.com/owner/repo/pull/42"}

// commit builds a node with the given aggregate state; "" means no
// build signal at all.
func commit(oid, state string) githubql.CommitNode {
	c := githubql.Commit{OID: oid, Message: oid + ": subject\n\nbody text"}
	if state != "" {
		c.StatusCheckRollup = &githubql.BuildStatus{State: state}
	}
	return githubql.CommitNode{Commit: c}
}

func TestExtractPairsFailureThenSuccess(t *testing.T) {
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("aaa", "FAILURE"),
		commit("bbb", "SUCCESS"),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, "aaa", pairs[0].BadCommit)
	assert.Equal(t, "bbb", pairs[0].GoodCommit)
	assert.Equal(t, 42, pairs[0].PRID)
	assert.Equal(t, testPR.URL, pairs[0].PRURL)
}

func TestExtractPairsKeepsFirstLineOnly(t *testing.T) {
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("aaa", "FAILURE"),
		commit("bbb", "SUCCESS"),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, "aaa: subject", pairs[0].BadMsg)
	assert.Equal(t, "bbb: subject", pairs[0].GoodMsg)
}

func TestExtractPairsNearestFailureWins(t *testing.T) {
	// Two failures before one success: the newer failure supersedes
	// the older one, which is never paired.
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("old-bad", "FAILURE"),
		commit("new-bad", "FAILURE"),
		commit("good", "SUCCESS"),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, "new-bad", pairs[0].BadCommit)
	assert.Equal(t, "good", pairs[0].GoodCommit)
}

func TestExtractPairsTrailingFailureDropped(t *testing.T) {
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("good-start", "SUCCESS"),
		commit("bad-end", "FAILURE"),
	})

	assert.Empty(t, pairs)
}

func TestExtractPairsSuccessWithoutPendingFailure(t *testing.T) {
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("s1", "SUCCESS"),
		commit("s2", "SUCCESS"),
	})

	assert.Empty(t, pairs)
}

func TestExtractPairsUnknownIsInert(t *testing.T) {
	// An unknown commit between a failure and its fixing success does
	// not break the pairing.
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("bad", "FAILURE"),
		commit("mystery", ""),
		commit("good", "SUCCESS"),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, "bad", pairs[0].BadCommit)
	assert.Equal(t, "good", pairs[0].GoodCommit)
}

func TestExtractPairsAllUnknownYieldsNothing(t *testing.T) {
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("a", ""),
		commit("b", ""),
	})

	assert.Empty(t, pairs)
}

func TestExtractPairsResolvedFailureNotReused(t *testing.T) {
	// Once a success resolves a failure, a later success must not pair
	// with it again.
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("bad", "FAILURE"),
		commit("fix", "SUCCESS"),
		commit("another-good", "SUCCESS"),
	})

	require.Len(t, pairs, 1)
	assert.Equal(t, "fix", pairs[0].GoodCommit)
}

func TestExtractPairsFullScenario(t *testing.T) {
	// [A(Failure), B(Success), C(Unknown), D(Failure), E(Success)]
	// must yield [(A,B), (D,E)] in that order.
	pairs := ExtractPairs(testPR, []githubql.CommitNode{
		commit("A", "FAILURE"),
		commit("B", "SUCCESS"),
		commit("C", ""),
		commit("D", "FAILURE"),
		commit("E", "SUCCESS"),
	})

	require.Len(t, pairs, 2)
	assert.Equal(t, "A", pairs[0].BadCommit)
	assert.Equal(t, "B", pairs[0].GoodCommit)
	assert.Equal(t, "D", pairs[1].BadCommit)
	assert.Equal(t, "E", pairs[1].GoodCommit)
}

func TestExtractPairsEmptyTimeline(t *testing.T) {
	assert.Empty(t, ExtractPairs(testPR, nil))
}
