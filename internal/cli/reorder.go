package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/lacuna/internal/analyze"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/pipeline"
	"github.com/ppiankov/lacuna/internal/reorder"
	"github.com/spf13/cobra"
)

var (
	reorderStrategy string
	reorderAnalysis string
	reorderOut      string
)

// reorderCmd represents the reorder command
var reorderCmd = &cobra.Command{
	Use:   "reorder <documents.json>",
	Short: "Reorder retrieved documents to counter a measured positional pattern",
	Long: `Reorder rearranges scored retrieval results so the most relevant
documents land where a model actually attends. The input is a JSON array
of {"text": ..., "score": ...} objects, highest score most relevant.

Strategies:
  best-first   standard descending relevance (no positional effect)
  best-last    highest-scoring documents at the end (recency-favoring model)
  sides-first  highest-scoring documents at both ends (mid-context dip)
  auto         pick from a run's analysis (--analysis results.json)

Example:
  lacuna reorder retrieved.json --strategy best-last --out reordered.json
  lacuna reorder retrieved.json --strategy auto --analysis results/results_gemma2_20260826.json`,
	Args: cobra.ExactArgs(1),
	RunE: runReorder,
}

func init() {
	rootCmd.AddCommand(reorderCmd)

	reorderCmd.Flags().StringVar(&reorderStrategy, "strategy", "auto", "reorder strategy (best-first, best-last, sides-first, auto)")
	reorderCmd.Flags().StringVar(&reorderAnalysis, "analysis", "", "results file to derive the strategy from (required with --strategy auto)")
	reorderCmd.Flags().StringVar(&reorderOut, "out", "", "output JSON path (default: stdout)")
}

func runReorder(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}
	var docs []reorder.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("parse documents %s: %w", args[0], err)
	}
	if len(docs) == 0 {
		return model.NewConfigError("documents", "%s contains no documents", args[0])
	}

	strategy, err := resolveStrategy()
	if err != nil {
		return err
	}
	if verbose || reorderStrategy == "auto" {
		fmt.Fprintf(os.Stderr, "Strategy: %s\n", strategy)
	}

	out, err := reorder.Apply(strategy, docs)
	if err != nil {
		return err
	}

	rendered, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	if reorderOut == "" {
		fmt.Println(string(rendered))
		return nil
	}
	if err := os.WriteFile(reorderOut, rendered, 0644); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%d documents written to %s\n", len(out), reorderOut)
	return nil
}

// resolveStrategy maps the --strategy flag to a concrete strategy, deriving
// it from a saved run's analysis in auto mode.
func resolveStrategy() (reorder.Strategy, error) {
	if reorderStrategy != "auto" {
		return reorder.ParseStrategy(reorderStrategy)
	}

	if reorderAnalysis == "" {
		return "", model.NewConfigError("analysis", "--strategy auto requires --analysis <results.json>")
	}
	results, err := pipeline.LoadResults(reorderAnalysis)
	if err != nil {
		return "", err
	}
	if results.Analysis == nil {
		if len(results.Trials) > 0 {
			results.Buckets = model.BucketTrials(results.Trials)
		}
		report, err := analyze.NewAnalyzer().Analyze(results.Buckets)
		if err != nil {
			return "", err
		}
		results.Analysis = &report
	}
	return reorder.Recommend(results.Analysis), nil
}
