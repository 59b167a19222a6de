package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/lacuna/internal/analyze"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	analyzeOutJSON string
	analyzeOutMD   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <results.json>",
	Short: "Recompute the statistical analysis for a saved run",
	Long: `Analyze recomputes confidence intervals, the accuracy-vs-position trend
test, the early-vs-late independence test and the U-curve score from a
previously written results file. The analysis is a pure function of the
recorded trials, so it can be rerun at any time without touching a model.

Example:
  lacuna analyze results/results_gpt-4o-mini_20260826_120000.json
  lacuna analyze results.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeOutJSON, "json", "", "rewrite the results file with the fresh analysis (optional path)")
	analyzeCmd.Flags().StringVar(&analyzeOutMD, "md", "", "output Markdown path (optional)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	results, err := pipeline.LoadResults(args[0])
	if err != nil {
		return err
	}

	// Buckets are derivable from the raw trials; trust the trials.
	if len(results.Trials) > 0 {
		results.Buckets = model.BucketTrials(results.Trials)
	}
	if len(results.Buckets) == 0 {
		return model.NewConfigError("results", "%s contains no trials or position buckets", args[0])
	}

	report, err := analyze.NewAnalyzer().Analyze(results.Buckets)
	if err != nil {
		return err
	}
	results.Analysis = &report

	pipeline.WriteSummary(os.Stdout, results)
	if !results.RunConfig.Valid() {
		fmt.Fprintln(os.Stderr, "warning: executed trial count diverges from the requested count; this run is invalid")
	}

	if analyzeOutJSON != "" {
		if err := pipeline.WriteJSON(analyzeOutJSON, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", analyzeOutJSON)
	}
	if analyzeOutMD != "" {
		md := pipeline.RenderMarkdown(results, true)
		if err := os.WriteFile(analyzeOutMD, []byte(md), 0644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", analyzeOutMD)
	}
	return nil
}
