package mining

import "github.com/fixminer/fixminer-go/internal/githubql"

// Outcome classifies a single commit's build result.
type Outcome int

const (
	// OutcomeUnknown means no usable build signal. Unknown commits are
	// inert for pairing: they neither start nor close a failure streak.
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ResolveOutcome maps a commit's build signals to an Outcome. The
// aggregate statusCheckRollup is authoritative when present; the
// legacy commit status is consulted only when the rollup is absent.
// A rollup in any non-terminal state (PENDING, EXPECTED, ...) makes
// the commit Unknown even if a legacy signal exists.
func ResolveOutcome(c githubql.Commit) Outcome {
	if c.StatusCheckRollup != nil {
		return outcomeFromState(c.StatusCheckRollup.State)
	}
	if c.Status != nil {
		return outcomeFromState(c.Status.State)
	}
	return OutcomeUnknown
}

func outcomeFromState(state string) Outcome {
	switch state {
	case "SUCCESS":
		return OutcomeSuccess
	case "FAILURE", "ERROR":
		return OutcomeFailure
	default:
		return OutcomeUnknown
	}
}
