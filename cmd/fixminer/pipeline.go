package main

import (
	"fmt"
	"os"

	"github.com/fixminer/fixminer-go/internal/pipeline"
	"github.com/spf13/cobra"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <owner/name | repos-file>",
	Short: "Run mine → analyze → classify for one or more repositories",
	Long: `Run the full pipeline for a repository, or for every repository
listed in a text file (one owner/name per line, '#' comments allowed).
Results land in <results_dir>/<owner>_<name>/.

Examples:
  fixminer pipeline square/okhttp --limit 200
  fixminer pipeline repos.txt --clean`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().Int("limit", 100, "Pull requests to scan per repository")
	pipelineCmd.Flags().Bool("clean", false, "Remove previous results and state before running")
	pipelineCmd.Flags().String("token", "", "GitHub PAT (optional if GITHUB_TOKEN is set)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	token, err := githubToken(cmd)
	if err != nil {
		return err
	}
	cfg.GitHub.Token = token

	limit, _ := cmd.Flags().GetInt("limit")
	clean, _ := cmd.Flags().GetBool("clean")

	repos := []string{args[0]}
	if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
		repos, err = pipeline.LoadRepoList(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d repositories from %s\n", len(repos), args[0])
	}

	return pipeline.NewRunner(cfg, logger).Run(cmd.Context(), repos, limit, clean)
}
