package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/lacuna/internal/model"
)

// RenderJSON serializes the full result document, raw trials included.
func RenderJSON(results *model.RunResults) ([]byte, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	return data, nil
}

// WriteJSON writes the result document to a file, creating parent
// directories as needed.
func WriteJSON(path string, results *model.RunResults) error {
	data, err := RenderJSON(results)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// LoadResults reads a previously written result document.
func LoadResults(path string) (*model.RunResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	var results model.RunResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return &results, nil
}

// RenderMarkdown renders the result document as a Markdown report. The
// wording is deliberately conservative: a test that did not reach
// significance is reported as such, never rounded up to a finding.
func RenderMarkdown(results *model.RunResults, includeFooter bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Positional Accuracy Report: %s\n\n", results.ModelName)
	fmt.Fprintf(&sb, "- Provider: %s\n", results.Provider)
	fmt.Fprintf(&sb, "- Documents per context: %d\n", results.RunConfig.TotalDocs)
	fmt.Fprintf(&sb, "- Trials per position: %d requested, %d executed\n",
		results.RunConfig.TrialsPerPositionRequested, results.RunConfig.TrialsPerPositionExecuted)
	fmt.Fprintf(&sb, "- Seed key: %s\n", results.RunConfig.SeedKey)
	if !results.RunConfig.Valid() {
		sb.WriteString("\n**WARNING: executed trial count diverges from the requested count; this run is invalid.**\n")
	}

	sb.WriteString("\n## Accuracy by position\n\n")
	sb.WriteString("| Position | Correct | Total | Accuracy | 95% CI |\n")
	sb.WriteString("|---------:|--------:|------:|---------:|:-------|\n")
	if results.Analysis != nil {
		for _, ps := range results.Analysis.Positions {
			fmt.Fprintf(&sb, "| %d | %d | %d | %.1f%% | [%.1f%%, %.1f%%] |\n",
				ps.Position, ps.Correct, ps.Total, 100*ps.Accuracy, 100*ps.CILow, 100*ps.CIHigh)
		}
	} else {
		for _, b := range results.Buckets {
			fmt.Fprintf(&sb, "| %d | %d | %d | %.1f%% | — |\n",
				b.Position, b.Correct, b.Total, 100*b.Accuracy())
		}
	}

	if results.Analysis != nil {
		renderAnalysisMarkdown(&sb, results.Analysis)
	}

	if includeFooter {
		fmt.Fprintf(&sb, "\n---\nGenerated by lacuna; run started %s.\n",
			results.StartedAt.Format("2006-01-02 15:04 MST"))
	}
	return sb.String()
}

func renderAnalysisMarkdown(sb *strings.Builder, a *model.AnalysisReport) {
	sb.WriteString("\n## Statistical analysis\n\n")

	sb.WriteString("### Trend\n\n")
	fmt.Fprintf(sb, "Least-squares fit of accuracy against normalized position: slope %.4f, R² %.3f, p = %.4f.\n",
		a.Trend.Slope, a.Trend.RSquared, a.Trend.PValue)
	switch {
	case a.Trend.Significant && a.Trend.Slope < 0:
		sb.WriteString("Accuracy declines significantly as the gold document moves later in the context.\n")
	case a.Trend.Significant && a.Trend.Slope > 0:
		sb.WriteString("Accuracy rises significantly as the gold document moves later in the context.\n")
	default:
		sb.WriteString("No statistically significant trend with position.\n")
	}

	sb.WriteString("\n### Early vs late\n\n")
	fmt.Fprintf(sb, "Early positions %v: %d/%d correct. Late positions %v: %d/%d correct.\n",
		a.EarlyLate.EarlyPositions, a.EarlyLate.EarlyCorrect, a.EarlyLate.EarlyTotal,
		a.EarlyLate.LatePositions, a.EarlyLate.LateCorrect, a.EarlyLate.LateTotal)
	fmt.Fprintf(sb, "Independence test (%s): statistic %.3f, p = %.4f.\n",
		a.EarlyLate.Method, a.EarlyLate.Statistic, a.EarlyLate.PValue)
	if a.EarlyLate.Significant {
		sb.WriteString("The early/late accuracy difference is statistically significant.\n")
	} else {
		sb.WriteString("No statistically significant difference between early and late positions.\n")
	}

	sb.WriteString("\n### U-curve\n\n")
	fmt.Fprintf(sb, "Endpoint mean %.3f, interior mean %.3f, score %+.3f.\n",
		a.UCurve.EndpointMean, a.UCurve.InteriorMean, a.UCurve.Score)
	switch {
	case a.UCurve.Score > 0.05:
		sb.WriteString("The shape is consistent with a mid-context dip, subject to the interval widths above.\n")
	case a.UCurve.Score < -0.05:
		sb.WriteString("Interior positions outperform the endpoints; no mid-context dip.\n")
	default:
		sb.WriteString("No notable difference between endpoint and interior positions.\n")
	}
}

// WriteSummary prints a short plain-text summary of the run.
func WriteSummary(w io.Writer, results *model.RunResults) {
	fmt.Fprintf(w, "%s (%s): %d positions, %d trials each\n",
		results.ModelName, results.Provider,
		len(results.RunConfig.PositionsTested), results.RunConfig.TrialsPerPositionExecuted)
	for _, b := range results.Buckets {
		fmt.Fprintf(w, "  position %3d: %2d/%2d = %5.1f%%\n",
			b.Position, b.Correct, b.Total, 100*b.Accuracy())
	}
	if a := results.Analysis; a != nil {
		fmt.Fprintf(w, "trend p=%.4f  early/late p=%.4f (%s)  u-curve %+.3f\n",
			a.Trend.PValue, a.EarlyLate.PValue, a.EarlyLate.Method, a.UCurve.Score)
	}
}
