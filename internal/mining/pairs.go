package mining

import (
	"strings"

	"github.com/fixminer/fixminer-go/internal/githubql"
)

// Pair is one bad→good association mined from a pull request: a
// failing commit resolved by a later passing one. The enrichment
// fields are filled in by the analyze and classify stages.
type Pair struct {
	PRID       int    `json:"pr_id"`
	PRURL      string `json:"pr_url"`
	BadCommit  string `json:"bad_commit"`
	BadMsg     string `json:"bad_msg"`
	GoodCommit string `json:"good_commit"`
	GoodMsg    string `json:"good_msg"`

	FilesChanged []string `json:"files_changed,omitempty"`
	Category     string   `json:"category,omitempty"`
	AIVerdict    string   `json:"ai_is_dependency_update,omitempty"`
}

// ExtractPairs walks a pull request's commits oldest to newest and
// emits a pair whenever a success resolves the most recent pending
// failure. A newer failure supersedes an unresolved older one, a
// resolved failure is never paired again, and a failure still pending
// at the end of the timeline is dropped. Unknown outcomes change
// nothing.
func ExtractPairs(pr githubql.PullRequest, commits []githubql.CommitNode) []Pair {
	var pairs []Pair
	var pending *githubql.Commit

	for i := range commits {
		c := &commits[i].Commit
		switch ResolveOutcome(*c) {
		case OutcomeFailure:
			pending = c
		case OutcomeSuccess:
			if pending != nil {
				pairs = append(pairs, Pair{
					PRID:       pr.Number,
					PRURL:      pr.URL,
					BadCommit:  pending.OID,
					BadMsg:     firstLine(pending.Message),
					GoodCommit: c.OID,
					GoodMsg:    firstLine(c.Message),
				})
				pending = nil
			}
		}
	}
	return pairs
}

// firstLine trims a commit message to its subject line.
func firstLine(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
