package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fixminer/fixminer-go/internal/mining"
)

// Verdicts recorded on a pair after AI classification.
const (
	VerdictYes       = "YES"
	VerdictNo        = "NO"
	VerdictUncertain = "UNCERTAIN"
	VerdictError     = "ERROR"
	VerdictNoDiff    = "Unknown (No Diff)"
)

// defaultPause spaces out LLM calls to stay friendly with free-tier
// rate limits.
const defaultPause = time.Second

// Completer is the LLM surface the classifier needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DiffFetcher supplies a commit's diff for the prompt.
type DiffFetcher interface {
	Diff(ctx context.Context, sha string) (string, error)
}

// Classifier asks an LLM whether each mined fix is purely a
// dependency update, based on the good commit's message and diff.
type Classifier struct {
	llm    Completer
	diffs  DiffFetcher
	pause  time.Duration
	sleep  func(ctx context.Context, d time.Duration)
	logger *slog.Logger
}

// NewClassifier creates a classifier over the given LLM and diff
// source.
func NewClassifier(llm Completer, diffs DiffFetcher) *Classifier {
	return &Classifier{
		llm:    llm,
		diffs:  diffs,
		pause:  defaultPause,
		sleep:  sleepCtx,
		logger: slog.Default().With("component", "classifier"),
	}
}

// ClassifyAll annotates every pair with an AI verdict, in order. A
// per-pair failure records VerdictError and moves on; only context
// cancellation stops the run.
func (c *Classifier) ClassifyAll(ctx context.Context, pairs []mining.Pair) ([]mining.Pair, error) {
	out := make([]mining.Pair, len(pairs))
	copy(out, pairs)

	for i := range out {
		if err := ctx.Err(); err != nil {
			return out[:i], err
		}

		p := &out[i]
		p.AIVerdict = c.classify(ctx, p)
		c.logger.Info("classified pair",
			"progress", fmt.Sprintf("%d/%d", i+1, len(out)),
			"commit", p.GoodCommit,
			"verdict", p.AIVerdict,
		)

		if i < len(out)-1 {
			c.sleep(ctx, c.pause)
		}
	}

	return out, nil
}

func (c *Classifier) classify(ctx context.Context, p *mining.Pair) string {
	// A failed fetch is treated like a missing diff: there is nothing
	// to show the model, so the pair is marked unclassifiable rather
	// than errored.
	diff, err := c.diffs.Diff(ctx, p.GoodCommit)
	if err != nil {
		c.logger.Warn("diff fetch failed", "commit", p.GoodCommit, "error", err)
		diff = ""
	}
	if diff == "" {
		return VerdictNoDiff
	}

	answer, err := c.llm.Complete(ctx, "", buildPrompt(p.GoodMsg, diff))
	if err != nil {
		c.logger.Warn("llm completion failed", "commit", p.GoodCommit, "error", err)
		return VerdictError
	}

	return parseVerdict(answer)
}

func buildPrompt(message, diff string) string {
	return fmt.Sprintf(`Analyze the following commit to determine if it is purely a "Dependency Update" (updating libraries, versions, etc.).

Commit Message:
%s

Diff Snippet:
%s

Is this a dependency update?
Answer ONLY with "YES" or "NO".`, message, diff)
}

// parseVerdict normalizes a free-text answer. YES wins over NO when
// both appear, matching a model that answers "yes, but...".
func parseVerdict(answer string) string {
	upper := strings.ToUpper(strings.TrimSpace(answer))
	switch {
	case strings.Contains(upper, "YES"):
		return VerdictYes
	case strings.Contains(upper, "NO"):
		return VerdictNo
	default:
		return VerdictUncertain
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
