package githubql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRepositoryNotFound is returned when a successfully transported
// response carries no repository data, typically because the
// repository does not exist or the token cannot see it.
var ErrRepositoryNotFound = errors.New("githubql: repository data missing")

// pullRequestsQuery pages a repository's merged pull requests, most
// recently updated first. Each node embeds the first page of its
// commits so small pull requests need no follow-up query.
const pullRequestsQuery = `
query ($owner: String!, $name: String!, $cursor: String, $limit: Int!) {
  repository(owner: $owner, name: $name) {
    pullRequests(first: $limit, states: MERGED, after: $cursor, orderBy: {field: UPDATED_AT, direction: DESC}) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        number
        url
        commits(first: 100) {
          pageInfo {
            hasNextPage
            endCursor
          }
          nodes {
            commit {
              oid
              message
              committedDate
              statusCheckRollup {
                state
              }
              status {
                state
              }
            }
          }
        }
      }
    }
  }
}
`

// pullRequestCommitsQuery continues a single pull request's commit
// listing past the first embedded page.
const pullRequestCommitsQuery = `
query ($owner: String!, $name: String!, $number: Int!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      commits(first: 100, after: $cursor) {
        pageInfo {
          hasNextPage
          endCursor
        }
        nodes {
          commit {
            oid
            message
            committedDate
            statusCheckRollup {
              state
            }
            status {
              state
            }
          }
        }
      }
    }
  }
}
`

// MergedPullRequests fetches one page of merged pull requests. An
// empty cursor starts from the beginning.
func (c *Client) MergedPullRequests(ctx context.Context, owner, name, cursor string, pageSize int) (*PullRequestConnection, error) {
	vars := map[string]any{
		"owner":  owner,
		"name":   name,
		"cursor": cursorVar(cursor),
		"limit":  pageSize,
	}

	resp, err := c.Execute(ctx, pullRequestsQuery, vars)
	if err != nil {
		return nil, err
	}
	c.logQueryErrors(resp)

	var payload struct {
		Repository *struct {
			PullRequests PullRequestConnection `json:"pullRequests"`
		} `json:"repository"`
	}
	if len(resp.Data) == 0 {
		return nil, ErrRepositoryNotFound
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode pull request page: %w", err)
	}
	if payload.Repository == nil {
		return nil, ErrRepositoryNotFound
	}
	return &payload.Repository.PullRequests, nil
}

// PullRequestCommits fetches the next page of one pull request's
// commits from the given cursor.
func (c *Client) PullRequestCommits(ctx context.Context, owner, name string, number int, cursor string) (*CommitConnection, error) {
	vars := map[string]any{
		"owner":  owner,
		"name":   name,
		"number": number,
		"cursor": cursorVar(cursor),
	}

	resp, err := c.Execute(ctx, pullRequestCommitsQuery, vars)
	if err != nil {
		return nil, err
	}
	c.logQueryErrors(resp)

	var payload struct {
		Repository *struct {
			PullRequest *struct {
				Commits CommitConnection `json:"commits"`
			} `json:"pullRequest"`
		} `json:"repository"`
	}
	if len(resp.Data) == 0 {
		return nil, ErrRepositoryNotFound
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("decode commit page: %w", err)
	}
	if payload.Repository == nil {
		return nil, ErrRepositoryNotFound
	}
	if payload.Repository.PullRequest == nil {
		return nil, fmt.Errorf("pull request #%d missing from response", number)
	}
	return &payload.Repository.PullRequest.Commits, nil
}

// logQueryErrors surfaces application-level errors without failing
// the call; the typed decoders above decide whether the payload is
// still usable.
func (c *Client) logQueryErrors(resp *Response) {
	for _, qe := range resp.Errors {
		c.logger.WithField("type", qe.Type).Warn("GraphQL error: " + qe.Message)
	}
}

// cursorVar maps the empty cursor to GraphQL null so the first page
// request omits "after".
func cursorVar(cursor string) any {
	if cursor == "" {
		return nil
	}
	return cursor
}
