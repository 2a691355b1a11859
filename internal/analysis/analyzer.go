package analysis

import (
	"context"
	"strings"

	"github.com/fixminer/fixminer-go/internal/mining"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Heuristic categories attached to mined pairs.
const (
	CategoryDependencyUpdate = "Dependency Update"
	CategoryOther            = "Other"
)

const defaultWorkers = 5

// FileLister is the slice of CommitClient the analyzer needs.
type FileLister interface {
	ChangedFiles(ctx context.Context, sha string) ([]string, error)
}

// Analyzer attaches a heuristic category to each mined pair based on
// which files its good commit touched. Pairs are independent, so the
// lookups fan out across a bounded worker pool.
type Analyzer struct {
	commits FileLister
	workers int
	logger  *logrus.Logger
}

// NewAnalyzer creates an analyzer with the default worker count.
func NewAnalyzer(commits FileLister, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		commits: commits,
		workers: defaultWorkers,
		logger:  logger,
	}
}

// Analyze classifies every pair and returns them in input order. A
// failed file lookup downgrades that pair to CategoryOther rather
// than failing the batch; a cancelled context fails the batch so the
// caller never persists half-analyzed results.
func (a *Analyzer) Analyze(ctx context.Context, pairs []mining.Pair) ([]mining.Pair, error) {
	out := make([]mining.Pair, len(pairs))
	copy(out, pairs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i := range out {
		p := &out[i]
		g.Go(func() error {
			files, err := a.commits.ChangedFiles(gctx, p.GoodCommit)
			if err != nil {
				a.logger.WithError(err).WithField("commit", shortSHA(p.GoodCommit)).Warn("Changed-file lookup failed")
				p.Category = CategoryOther
				return nil
			}

			p.FilesChanged = files
			p.Category = Categorize(files)
			a.logger.WithFields(logrus.Fields{
				"commit":   shortSHA(p.GoodCommit),
				"category": p.Category,
			}).Info("Analyzed pair")
			return nil
		})
	}

	// Workers never return errors, so the wait itself cannot fail,
	// but cancellation mid-batch leaves downgraded pairs behind that
	// must not be mistaken for completed analysis.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Categorize applies the build-file heuristic: a good commit that
// touches a Gradle build file or the version catalog is a dependency
// update.
func Categorize(files []string) string {
	for _, f := range files {
		if strings.Contains(f, "libs.versions.toml") ||
			strings.HasSuffix(f, "build.gradle") ||
			strings.HasSuffix(f, "build.gradle.kts") {
			return CategoryDependencyUpdate
		}
	}
	return CategoryOther
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
