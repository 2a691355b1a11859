// Package pipeline drives the full mine → analyze → classify flow for
// one or more repositories, laying results out on disk per repo.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fixminer/fixminer-go/internal/analysis"
	"github.com/fixminer/fixminer-go/internal/cache"
	"github.com/fixminer/fixminer-go/internal/config"
	"github.com/fixminer/fixminer-go/internal/githubql"
	"github.com/fixminer/fixminer-go/internal/llm"
	"github.com/fixminer/fixminer-go/internal/mining"
	"github.com/fixminer/fixminer-go/internal/output"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Artifacts names the files one repository's run produces under
// <results_dir>/<owner>_<name>/.
type Artifacts struct {
	Dir        string
	Mining     string
	State      string
	Analyzed   string
	Classified string
	CacheDB    string
}

// RepoArtifacts resolves the artifact layout for a repository.
func RepoArtifacts(resultsDir, owner, name string) Artifacts {
	dir := filepath.Join(resultsDir, fmt.Sprintf("%s_%s", owner, name))
	return Artifacts{
		Dir:        dir,
		Mining:     filepath.Join(dir, "mining_results.json"),
		State:      filepath.Join(dir, "mining_state.json"),
		Analyzed:   filepath.Join(dir, "analyzed_results.json"),
		Classified: filepath.Join(dir, "ai_classified_results.json"),
		CacheDB:    filepath.Join(dir, "commit_cache.db"),
	}
}

// Runner executes the pipeline stages in order for each repository.
type Runner struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg *config.Config, logger *logrus.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run processes every repository in turn. A repository failure is
// logged and the runner moves on; only context cancellation stops the
// whole run.
func (r *Runner) Run(ctx context.Context, repos []string, limit int, clean bool) error {
	runLog := r.logger.WithField("run_id", uuid.NewString())
	runLog.WithField("repos", len(repos)).Info("Starting pipeline run")

	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.processRepo(ctx, repo, limit, clean); err != nil {
			runLog.WithError(err).WithField("repo", repo).Error("Repository failed, continuing with next")
		}
	}

	runLog.Info("Pipeline complete")
	return nil
}

func (r *Runner) processRepo(ctx context.Context, repo string, limit int, clean bool) error {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return err
	}

	art := RepoArtifacts(r.cfg.Mining.ResultsDir, owner, name)
	if err := os.MkdirAll(art.Dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if clean {
		r.cleanArtifacts(art)
	}

	log := r.logger.WithField("repo", repo)

	// Stage 1: mine bad→good pairs.
	gql := githubql.NewClient(r.cfg.GitHub.Token, r.cfg.GitHub.RateLimit, githubql.WithLogger(r.logger))
	miner := mining.NewMiner(gql, owner, name, r.logger).
		WithCheckpoint(mining.NewCheckpointStore(art.State))

	pairs, err := miner.Mine(ctx, limit)
	if err != nil {
		return fmt.Errorf("mine: %w", err)
	}
	if err := output.WritePairs(art.Mining, pairs); err != nil {
		return err
	}
	log.WithField("pairs", len(pairs)).Info("Mining stage complete")

	var store *cache.Store
	if r.cfg.Cache.Enabled {
		store, err = cache.Open(art.CacheDB)
		if err != nil {
			log.WithError(err).Warn("Commit cache unavailable, continuing without it")
			store = nil
		} else {
			defer store.Close()
		}
	}
	commits := analysis.NewCommitClient(r.cfg.GitHub.Token, owner, name, store)

	// Stage 2: heuristic analysis of changed files.
	analyzed, err := analysis.NewAnalyzer(commits, r.logger).Analyze(ctx, pairs)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := output.WritePairs(art.Analyzed, analyzed); err != nil {
		return err
	}
	log.Info("Analysis stage complete")

	// Stage 3: AI classification, skipped when no key is configured.
	if r.cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, skipping AI classification")
		return nil
	}
	gemini, err := llm.NewGeminiClient(ctx, r.cfg.Gemini.APIKey, r.cfg.Gemini.Model)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	classified, err := llm.NewClassifier(gemini, commits).ClassifyAll(ctx, analyzed)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	if err := output.WritePairs(art.Classified, classified); err != nil {
		return err
	}
	log.Info("Classification stage complete")

	return nil
}

func (r *Runner) cleanArtifacts(art Artifacts) {
	for _, path := range []string{art.Mining, art.State, art.Analyzed, art.Classified, art.CacheDB} {
		if err := os.Remove(path); err == nil {
			r.logger.WithField("path", path).Debug("Removed previous artifact")
		}
	}
}

// SplitRepo parses an "owner/name" repository identifier.
func SplitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("repository must be in owner/name format, got %q", repo)
	}
	return owner, name, nil
}

// LoadRepoList reads owner/name entries from a file, one per line,
// skipping blank lines and '#' comments.
func LoadRepoList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open repo list: %w", err)
	}
	defer f.Close()

	var repos []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		repos = append(repos, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read repo list: %w", err)
	}
	return repos, nil
}
