package main

import (
	"fmt"
	"os"

	"github.com/masaki2607/oneview-matching/internal/config"
	"github.com/masaki2607/oneview-matching/internal/observability"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the posting catalog for one job seeker",
	Long:  "Scores a job seeker against every job posting in the database and prints the top postings sorted by match score.",
	RunE:  runRank,
}

var (
	rankSeekerID int64
	rankTopK     int
	rankJSON     bool
)

func init() {
	rankCmd.Flags().Int64VarP(&rankSeekerID, "seeker", "s", 0, "Job seeker ID (required)")
	rankCmd.Flags().IntVarP(&rankTopK, "top-k", "k", 0, "Number of postings to return (default from config)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Print the raw JSON result instead of the formatted box")

	if err := rankCmd.MarkFlagRequired("seeker"); err != nil {
		panic(fmt.Sprintf("failed to mark seeker flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	service, database, err := newMatchingService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	topK := rankTopK
	if topK <= 0 {
		topK = config.FromEnv().MergeWithDefaults(config.Config{}).TopK
	}

	result, err := service.RankJobsForSeeker(ctx, rankSeekerID, topK)
	if err != nil {
		return fmt.Errorf("failed to rank postings: %w", err)
	}

	if rankJSON {
		return printJSON(result)
	}

	observability.NewPrinter(os.Stdout).PrintRanking(result)
	return nil
}
