package main

import (
	"fmt"

	"github.com/fixminer/fixminer-go/internal/analysis"
	"github.com/fixminer/fixminer-go/internal/cache"
	"github.com/fixminer/fixminer-go/internal/output"
	"github.com/fixminer/fixminer-go/internal/pipeline"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner/name>",
	Short: "Attach a heuristic category to mined pairs",
	Long: `Fetch the changed-file list of each pair's good commit and classify
the fix: a change touching Gradle build files or the version catalog
is a dependency update, everything else is "Other".`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("input", "mining_results.json", "Mined pairs to analyze")
	analyzeCmd.Flags().String("output", "analyzed_results.json", "Output JSON file")
	analyzeCmd.Flags().String("cache", "", "Commit cache database (optional)")
	analyzeCmd.Flags().String("token", "", "GitHub PAT (optional if GITHUB_TOKEN is set)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	owner, name, err := pipeline.SplitRepo(args[0])
	if err != nil {
		return err
	}
	token, err := githubToken(cmd)
	if err != nil {
		return err
	}

	inPath, _ := cmd.Flags().GetString("input")
	outPath, _ := cmd.Flags().GetString("output")
	cachePath, _ := cmd.Flags().GetString("cache")

	pairs, err := output.ReadPairs(inPath)
	if err != nil {
		return err
	}
	logger.WithField("pairs", len(pairs)).Info("Analyzing mined pairs")

	var store *cache.Store
	if cachePath != "" {
		store, err = cache.Open(cachePath)
		if err != nil {
			logger.WithError(err).Warn("Commit cache unavailable, continuing without it")
		} else {
			defer store.Close()
		}
	}

	commits := analysis.NewCommitClient(token, owner, name, store)
	analyzed, err := analysis.NewAnalyzer(commits, logger).Analyze(cmd.Context(), pairs)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := output.WritePairs(outPath, analyzed); err != nil {
		return err
	}

	fmt.Printf("Saved analyzed results to %s\n", outPath)
	return nil
}
