package mining

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixminer/fixminer-go/internal/githubql"
	"github.com/sirupsen/logrus"
)

// defaultPageSize caps one page of the merged pull request listing.
const defaultPageSize = 50

// Miner walks a repository's merged pull requests, most recently
// updated first, and accumulates bad→good pairs. The walk is strictly
// sequential: the outer cursor of one page must be known before the
// next page can be requested, and each pull request's timeline is
// fully resolved before moving on.
type Miner struct {
	client     *githubql.Client
	owner      string
	name       string
	pageSize   int
	checkpoint *CheckpointStore
	logger     *logrus.Logger
}

// NewMiner creates a miner for the given repository.
func NewMiner(client *githubql.Client, owner, name string, logger *logrus.Logger) *Miner {
	return &Miner{
		client:   client,
		owner:    owner,
		name:     name,
		pageSize: defaultPageSize,
		logger:   logger,
	}
}

// WithCheckpoint attaches an optional checkpoint store, consulted
// before mining starts and updated after every page of pull requests.
func (m *Miner) WithCheckpoint(store *CheckpointStore) *Miner {
	m.checkpoint = store
	return m
}

// Mine scans up to limit merged pull requests and returns every pair
// found. With a checkpoint configured the returned set also carries
// the pairs recorded by earlier runs, so a resume or a rerun never
// shrinks the result. A repository that returns no data stops the run
// early with whatever has been accumulated; a failed commit
// continuation fetch aborts the run instead of accepting a truncated
// timeline.
func (m *Miner) Mine(ctx context.Context, limit int) ([]Pair, error) {
	var results []Pair
	cursor := ""
	processed := 0

	st, err := m.checkpoint.Load()
	if err != nil {
		return nil, err
	}
	if st != nil {
		cursor, processed = st.Cursor, st.Processed
		results = st.Pairs
		m.logger.WithFields(logrus.Fields{
			"cursor":    cursor,
			"processed": processed,
			"pairs":     len(results),
		}).Info("Resuming mining from checkpoint")
	}

	for processed < limit {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		batch := min(m.pageSize, limit-processed)
		m.logger.WithFields(logrus.Fields{
			"cursor": cursor,
			"batch":  batch,
		}).Debug("Fetching pull request page")

		page, err := m.client.MergedPullRequests(ctx, m.owner, m.name, cursor, batch)
		if errors.Is(err, githubql.ErrRepositoryNotFound) {
			m.logger.WithField("repo", m.owner+"/"+m.name).Warn("No repository data returned, stopping early")
			return results, nil
		}
		if err != nil {
			return results, err
		}

		for i := range page.Nodes {
			pr := &page.Nodes[i]
			commits, err := m.fetchAllCommits(ctx, pr)
			if err != nil {
				return results, fmt.Errorf("pull request #%d: %w", pr.Number, err)
			}

			pairs := ExtractPairs(*pr, commits)
			for _, p := range pairs {
				m.logger.WithFields(logrus.Fields{
					"pr":   pr.Number,
					"bad":  shortOID(p.BadCommit),
					"good": shortOID(p.GoodCommit),
				}).Info("Found bad→good pair")
			}
			results = append(results, pairs...)
		}

		processed += len(page.Nodes)
		cursor = page.PageInfo.EndCursor

		if err := m.checkpoint.Save(State{Cursor: cursor, Processed: processed, Pairs: results}); err != nil {
			m.logger.WithError(err).Warn("Failed to save mining checkpoint")
		}

		if !page.PageInfo.HasNextPage || len(page.Nodes) == 0 {
			break
		}
	}

	return results, nil
}

// fetchAllCommits flattens a pull request's commit pages into one
// oldest-first list, starting from the page embedded in the node.
// Order is preserved across pages; any fetch failure propagates.
func (m *Miner) fetchAllCommits(ctx context.Context, pr *githubql.PullRequest) ([]githubql.CommitNode, error) {
	commits := pr.Commits.Nodes
	info := pr.Commits.PageInfo

	for info.HasNextPage {
		m.logger.WithField("pr", pr.Number).Debug("Fetching continuation commit page")
		page, err := m.client.PullRequestCommits(ctx, m.owner, m.name, pr.Number, info.EndCursor)
		if err != nil {
			return nil, fmt.Errorf("fetch commits: %w", err)
		}
		commits = append(commits, page.Nodes...)
		info = page.PageInfo
	}

	return commits, nil
}

func shortOID(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}
