package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/lacuna/internal/dataset"
	"github.com/ppiankov/lacuna/internal/model"
	"github.com/spf13/cobra"
)

var (
	ingestOut     string
	ingestMerge   string
	ingestTimeout time.Duration
	userAgent     string
	maxBytes      int64
	insecureTLS   bool
)

// datasetCmd represents the dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Prepare experiment datasets",
}

// ingestCmd represents the dataset ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <url-or-file>...",
	Short: "Harvest generic distractor documents from HTML pages",
	Long: `Ingest extracts paragraph text from HTML pages to build the generic
distractor pool. Encyclopedia-style pages work well: long factual prose
unrelated to any QA item. Remote pages are fetched politely, honoring
robots.txt.

Example:
  lacuna dataset ingest https://en.wikipedia.org/wiki/Cod --out data/distractors.json
  lacuna dataset ingest page1.html page2.html --merge data/distractors.json --out data/distractors.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestOut, "out", "distractors.json", "output JSON path")
	ingestCmd.Flags().StringVar(&ingestMerge, "merge", "", "existing distractor pool to merge into (optional)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 30*time.Second, "per-page fetch timeout")
	ingestCmd.Flags().StringVar(&userAgent, "ua", "Lacuna/0.1 (+https://github.com/ppiankov/lacuna)", "HTTP User-Agent")
	ingestCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	ingestCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	fetcher := dataset.NewFetcher(model.HTTPConfig{
		Timeout:      ingestTimeout,
		UserAgent:    userAgent,
		MaxBodyBytes: maxBytes,
		InsecureTLS:  insecureTLS,
	})
	ingester := dataset.NewIngester(fetcher)

	var pool []string
	if ingestMerge != "" {
		existing, err := dataset.LoadDistractors(ingestMerge)
		if err != nil {
			return err
		}
		pool = existing
		if verbose {
			fmt.Fprintf(os.Stderr, "Merging into %d existing distractors\n", len(pool))
		}
	}

	for _, src := range args {
		var (
			paras []string
			err   error
		)
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
			paras, err = ingester.IngestURL(ctx, src)
			cancel()
		} else {
			paras, err = ingester.IngestFile(src)
		}
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "%s: %d paragraphs\n", src, len(paras))
		}
		pool = dataset.AppendDistractors(pool, paras)
	}

	data, err := json.MarshalIndent(pool, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal distractors: %w", err)
	}
	if err := os.WriteFile(ingestOut, data, 0644); err != nil {
		return fmt.Errorf("write distractors: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%d distractors written to %s\n", len(pool), ingestOut)
	return nil
}
