package githubql

import "time"

// PageInfo mirrors the GraphQL pagination block attached to every
// paginated connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// BuildStatus is the state carried by either of the two build-signal
// shapes GitHub attaches to a commit: the aggregate statusCheckRollup
// or the legacy commit status.
type BuildStatus struct {
	State string `json:"state"`
}

// Commit is one commit node from a pull request's commit connection.
type Commit struct {
	OID               string       `json:"oid"`
	Message           string       `json:"message"`
	CommittedDate     time.Time    `json:"committedDate"`
	StatusCheckRollup *BuildStatus `json:"statusCheckRollup"`
	Status            *BuildStatus `json:"status"`
}

// CommitNode wraps a commit the way the API nests it under the
// pull request commit connection.
type CommitNode struct {
	Commit Commit `json:"commit"`
}

// CommitConnection is one page of a pull request's commits.
type CommitConnection struct {
	PageInfo PageInfo     `json:"pageInfo"`
	Nodes    []CommitNode `json:"nodes"`
}

// PullRequest carries a merged pull request's identity plus the first
// page of its commits.
type PullRequest struct {
	Number  int              `json:"number"`
	URL     string           `json:"url"`
	Commits CommitConnection `json:"commits"`
}

// PullRequestConnection is one page of a repository's merged pull
// requests.
type PullRequestConnection struct {
	PageInfo PageInfo      `json:"pageInfo"`
	Nodes    []PullRequest `json:"nodes"`
}
