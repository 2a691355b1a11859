package main

import (
	"fmt"

	"github.com/fixminer/fixminer-go/internal/analysis"
	"github.com/fixminer/fixminer-go/internal/cache"
	"github.com/fixminer/fixminer-go/internal/llm"
	"github.com/fixminer/fixminer-go/internal/output"
	"github.com/fixminer/fixminer-go/internal/pipeline"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <owner/name>",
	Short: "Ask Gemini whether each mined fix is a dependency update",
	Long: `Fetch the diff of each pair's good commit and ask Gemini whether the
fix is purely a dependency update. Requires GEMINI_API_KEY.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("input", "analyzed_results.json", "Analyzed pairs to classify")
	classifyCmd.Flags().String("output", "ai_classified_results.json", "Output JSON file")
	classifyCmd.Flags().String("cache", "", "Commit cache database (optional)")
	classifyCmd.Flags().String("token", "", "GitHub PAT (optional if GITHUB_TOKEN is set)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	owner, name, err := pipeline.SplitRepo(args[0])
	if err != nil {
		return err
	}
	token, err := githubToken(cmd)
	if err != nil {
		return err
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set for AI classification")
	}

	inPath, _ := cmd.Flags().GetString("input")
	outPath, _ := cmd.Flags().GetString("output")
	cachePath, _ := cmd.Flags().GetString("cache")

	pairs, err := output.ReadPairs(inPath)
	if err != nil {
		return err
	}
	logger.WithField("pairs", len(pairs)).Info("Classifying pairs with Gemini")

	var store *cache.Store
	if cachePath != "" {
		store, err = cache.Open(cachePath)
		if err != nil {
			logger.WithError(err).Warn("Commit cache unavailable, continuing without it")
		} else {
			defer store.Close()
		}
	}

	gemini, err := llm.NewGeminiClient(cmd.Context(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}

	commits := analysis.NewCommitClient(token, owner, name, store)
	classified, err := llm.NewClassifier(gemini, commits).ClassifyAll(cmd.Context(), pairs)
	if err != nil {
		return err
	}

	if err := output.WritePairs(outPath, classified); err != nil {
		return err
	}

	fmt.Printf("Saved AI classification results to %s\n", outPath)
	return nil
}
