package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/lacuna/internal/cache"
	"github.com/ppiankov/lacuna/internal/dataset"
	"github.com/ppiankov/lacuna/internal/llm"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/ppiankov/lacuna/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	qaPath          string
	distractorsPath string
	positions       []int
	totalDocs       int
	trials          int
	seedKey         string

	llmProvider string
	llmModel    string
	llmTimeout  time.Duration
	maxTokens   int
	temperature float64

	concurrency int
	rps         float64

	outJSON  string
	outMD    string
	noCache  bool
	cacheDir string
	noFooter bool
	dryRun   bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a positional accuracy experiment against one model",
	Long: `Run executes the full experiment for one model:
- Load QA items and the generic distractor pool
- For each tested position, assemble one context per question with the
  answer-bearing document at that position
- Query the model, score each response, bucket accuracy by position
- Compute confidence intervals, trend and early-vs-late tests

Example:
  lacuna run --qa data/qa_pairs.json --distractors data/distractors.json --provider openai --model gpt-4o-mini
  lacuna run --qa data/qa_pairs.json --distractors data/distractors.json --provider ollama --model gemma:2b --trials 10
  lacuna run --qa data/qa_pairs.json --distractors data/distractors.json --dry-run`,
	RunE: runExperiment,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Dataset flags
	runCmd.Flags().StringVar(&qaPath, "qa", "data/qa_pairs.json", "QA items JSON path")
	runCmd.Flags().StringVar(&distractorsPath, "distractors", "data/distractors.json", "generic distractor pool JSON path")

	// Experiment flags
	runCmd.Flags().IntSliceVar(&positions, "positions", []int{1, 10, 25, 50, 75, 90, 100}, "gold positions to test (1-indexed)")
	runCmd.Flags().IntVar(&totalDocs, "total-docs", 100, "documents per assembled context")
	runCmd.Flags().IntVar(&trials, "trials", 30, "trials per position (must not exceed the QA item count)")
	runCmd.Flags().StringVar(&seedKey, "seed-key", "default", "seed key for deterministic context assembly")

	// Model flags
	runCmd.Flags().StringVar(&llmProvider, "provider", "openai", "inference provider (openai, anthropic, ollama)")
	runCmd.Flags().StringVar(&llmModel, "model", "gpt-4o-mini", "model name")
	runCmd.Flags().DurationVar(&llmTimeout, "timeout", time.Minute, "per-request inference timeout")
	runCmd.Flags().IntVar(&maxTokens, "max-tokens", 50, "max completion tokens")
	runCmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "run without inference (deterministic offline backend)")

	// Concurrency flags
	runCmd.Flags().IntVar(&concurrency, "concurrency", 1, "concurrent trials (keep at 1 for local models)")
	runCmd.Flags().Float64Var(&rps, "rps", 2, "requests per second per host")

	// Output flags
	runCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: results/results_<model>_<timestamp>.json)")
	runCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "response cache directory (default: $HOME/.lacuna/cache)")
	runCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runExperiment(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Experiment.Positions = positions
	cfg.Experiment.TotalDocs = totalDocs
	cfg.Experiment.TrialsPerPosition = trials
	cfg.Experiment.SeedKey = seedKey
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.Timeout = int(llmTimeout.Seconds())
	cfg.LLM.MaxTokens = maxTokens
	cfg.LLM.Temperature = temperature
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Concurrency.TrialWorkers = concurrency
	cfg.Concurrency.RequestsPerSecond = rps
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if dryRun {
		cfg.LLM.Provider = "dryrun"
		cfg.LLM.Model = "dryrun"
	}

	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	// Load data
	items, err := dataset.LoadQAItems(qaPath)
	if err != nil {
		return err
	}
	pool, err := dataset.LoadDistractors(distractorsPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d QA items, %d generic distractors\n", len(items), len(pool))
		fmt.Fprintf(os.Stderr, "Provider: %s, model: %s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Positions: %v, total docs: %d, trials: %d\n\n",
			cfg.Experiment.Positions, cfg.Experiment.TotalDocs, cfg.Experiment.TrialsPerPosition)
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}
	if !dryRun && !provider.IsAvailable(ctx) {
		return fmt.Errorf("provider %s is not available; check credentials and endpoint", provider.Name())
	}

	responseCache, err := buildCache(cfg.Cache)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, provider, responseCache, os.Stderr)
	results, err := p.Run(ctx, items, pool)
	if err != nil {
		// A count-invalid run still produced results worth writing.
		if results != nil {
			writeResults(results, cfg.Output.IncludeFooter)
		}
		return fmt.Errorf("run failed: %w", err)
	}

	pipeline.WriteSummary(os.Stdout, results)
	return writeResults(results, cfg.Output.IncludeFooter)
}

// resolveAPIKey pulls provider credentials from the environment.
func resolveAPIKey(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// buildCache constructs the layered response cache, or returns nil when
// caching is disabled.
func buildCache(cfg model.CacheConfig) (cache.Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}
		dir = filepath.Join(home, ".lacuna", "cache")
	}
	return cache.NewLayeredCache(time.Hour, dir, cfg.TTL), nil
}

func writeResults(results *model.RunResults, includeFooter bool) error {
	jsonPath := outJSON
	if jsonPath == "" {
		jsonPath = filepath.Join("results",
			fmt.Sprintf("results_%s_%s.json", results.ModelName, time.Now().Format("20060102_150405")))
	}
	if err := pipeline.WriteJSON(jsonPath, results); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Results written to %s\n", jsonPath)

	if outMD != "" {
		md := pipeline.RenderMarkdown(results, includeFooter)
		if err := os.WriteFile(outMD, []byte(md), 0644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outMD)
	}
	return nil
}
