package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/masaki2607/oneview-matching/internal/config"
	"github.com/masaki2607/oneview-matching/internal/db"
	"github.com/masaki2607/oneview-matching/internal/explain"
	"github.com/masaki2607/oneview-matching/internal/llm"
	"github.com/masaki2607/oneview-matching/internal/matching"
	"github.com/masaki2607/oneview-matching/internal/observability"
	"github.com/masaki2607/oneview-matching/internal/similarity"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score one job seeker against one job posting",
	Long:  "Resolves a job seeker and a job posting from the database, computes the weighted match score with its factor breakdown, and prints the result.",
	RunE:  runMatch,
}

var (
	matchSeekerID   int64
	matchPostingID  int64
	matchWithReason bool
	matchJSON       bool
)

func init() {
	matchCmd.Flags().Int64VarP(&matchSeekerID, "seeker", "s", 0, "Job seeker ID (required)")
	matchCmd.Flags().Int64VarP(&matchPostingID, "posting", "p", 0, "Job posting ID (required)")
	matchCmd.Flags().BoolVar(&matchWithReason, "with-reason", false, "Generate a natural-language match reason")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Print the raw JSON result instead of the formatted box")

	if err := matchCmd.MarkFlagRequired("seeker"); err != nil {
		panic(fmt.Sprintf("failed to mark seeker flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("posting"); err != nil {
		panic(fmt.Sprintf("failed to mark posting flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	service, database, err := newMatchingService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var result *matching.MatchResult
	if matchWithReason {
		result, err = service.MatchByIDWithReason(ctx, matchSeekerID, matchPostingID)
	} else {
		result, err = service.MatchByID(ctx, matchSeekerID, matchPostingID)
	}
	if err != nil {
		return fmt.Errorf("failed to compute match: %w", err)
	}

	if matchJSON {
		return printJSON(result)
	}

	candidate, err := database.CandidateFeatures(ctx, matchSeekerID)
	if err != nil {
		return fmt.Errorf("failed to resolve candidate: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if candidate != nil {
		printer.PrintPriorityOrder(candidate.PriorityOrder)
		printer.PrintMatchResult(result, candidate.PriorityOrder)
	} else {
		printer.PrintMatchResult(result, nil)
	}
	return nil
}

// newMatchingService wires a database-backed matching service from the
// environment. Embeddings and reason generation switch on only when the
// configuration enables them.
func newMatchingService(ctx context.Context) (*matching.Service, *db.DB, error) {
	cfg := config.FromEnv().MergeWithDefaults(config.Config{})
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var scorer similarity.Scorer = similarity.Lexical{}
	if cfg.EnableEmbeddings {
		embedding, err := similarity.NewEmbedding(ctx, cfg.APIKey, "")
		if err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to create embedding scorer: %w", err)
		}
		scorer = embedding
	}

	var generator *explain.Generator
	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, nil, cfg.APIKey)
		if err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		generator = explain.New(client, scorer, nil)
	} else {
		generator = explain.New(nil, scorer, nil)
	}

	service := matching.NewService(database, matching.NewEngine(scorer), generator)
	return service, database, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
