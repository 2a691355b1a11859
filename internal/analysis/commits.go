package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/fixminer/fixminer-go/internal/cache"
	"github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"
)

// maxDiffBytes truncates commit diffs before they are cached or handed
// to the LLM classifier.
const maxDiffBytes = 10000

// CommitClient fetches per-commit details over the GitHub REST API,
// with an optional local cache in front of it.
type CommitClient struct {
	client      *github.Client
	owner       string
	name        string
	rateLimiter *rate.Limiter
	cache       *cache.Store
}

// NewCommitClient creates a REST client for one repository. store may
// be nil to disable caching.
func NewCommitClient(token, owner, name string, store *cache.Store) *CommitClient {
	client := github.NewClient(nil).WithAuthToken(token)

	return &CommitClient{
		client:      client,
		owner:       owner,
		name:        name,
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		cache:       store,
	}
}

// ChangedFiles lists the file paths touched by a commit.
func (c *CommitClient) ChangedFiles(ctx context.Context, sha string) ([]string, error) {
	if files, ok := c.cache.ChangedFiles(sha); ok {
		return files, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	commit, _, err := c.client.Repositories.GetCommit(ctx, c.owner, c.name, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", sha, err)
	}

	files := make([]string, 0, len(commit.Files))
	for _, f := range commit.Files {
		files = append(files, f.GetFilename())
	}

	// Best effort; a cache write failure never fails the lookup.
	_ = c.cache.PutChangedFiles(sha, files)
	return files, nil
}

// Diff returns a commit's unified diff, truncated to maxDiffBytes.
func (c *CommitClient) Diff(ctx context.Context, sha string) (string, error) {
	if diff, ok := c.cache.Diff(sha); ok {
		return diff, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	raw, _, err := c.client.Repositories.GetCommitRaw(ctx, c.owner, c.name, sha, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("get diff %s: %w", sha, err)
	}

	if len(raw) > maxDiffBytes {
		raw = raw[:maxDiffBytes]
	}

	_ = c.cache.PutDiff(sha, raw)
	return raw, nil
}
