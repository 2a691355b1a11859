package main

import (
	"fmt"

	"github.com/fixminer/fixminer-go/internal/githubql"
	"github.com/fixminer/fixminer-go/internal/mining"
	"github.com/fixminer/fixminer-go/internal/output"
	"github.com/fixminer/fixminer-go/internal/pipeline"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine <owner/name>",
	Short: "Mine bad→good build-fix pairs from merged pull requests",
	Long: `Walk a repository's merged pull requests, most recently updated
first, and emit every pair of commits where a failing build was
followed by a passing one within the same pull request.

Examples:
  fixminer mine square/okhttp --limit 200
  fixminer mine square/okhttp --output pairs.json --state state.json`,
	Args: cobra.ExactArgs(1),
	RunE: runMine,
}

func init() {
	mineCmd.Flags().Int("limit", 100, "Number of pull requests to scan")
	mineCmd.Flags().String("output", "mining_results.json", "Output JSON file")
	mineCmd.Flags().String("state", "", "Checkpoint file for resumable mining (optional)")
	mineCmd.Flags().String("token", "", "GitHub PAT (optional if GITHUB_TOKEN is set)")
}

func runMine(cmd *cobra.Command, args []string) error {
	owner, name, err := pipeline.SplitRepo(args[0])
	if err != nil {
		return err
	}
	token, err := githubToken(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	outPath, _ := cmd.Flags().GetString("output")
	statePath, _ := cmd.Flags().GetString("state")

	client := githubql.NewClient(token, cfg.GitHub.RateLimit, githubql.WithLogger(logger))
	miner := mining.NewMiner(client, owner, name, logger)
	if statePath != "" {
		miner = miner.WithCheckpoint(mining.NewCheckpointStore(statePath))
	}

	logger.WithField("repo", args[0]).Infof("Mining up to %d pull requests", limit)

	pairs, err := miner.Mine(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	if err := output.WritePairs(outPath, pairs); err != nil {
		return err
	}

	fmt.Printf("Mining complete. Found %d pairs.\n", len(pairs))
	fmt.Printf("Results saved to %s\n", outPath)
	return nil
}
