package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/giantswarm/rag-testkit/internal/llm"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// maxFailureDetails bounds how many failures are listed in full; the result
// list is ordered, so these are the first failures of the run.
const maxFailureDetails = 10

// Reporter renders the final quality report. The narrative analysis section
// is written by an LLM; everything else is deterministic so a report is
// produced even when the analysis call fails.
type Reporter struct {
	client llm.Client
	model  string
}

// NewReporter creates a Reporter. A nil client skips the narrative analysis.
func NewReporter(client llm.Client, model string) *Reporter {
	return &Reporter{client: client, model: model}
}

// Generate renders the markdown quality report for a completed run.
func (r *Reporter) Generate(ctx context.Context, targetName string, stats Stats, results []suite.TestResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Quality Report: %s\n\n", targetName)
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Tests executed: %d\n", stats.Total)
	fmt.Fprintf(&b, "- Passed: %d\n", stats.Passed)
	fmt.Fprintf(&b, "- Pass rate: %.1f%%\n", stats.PassRate*100)
	fmt.Fprintf(&b, "- Quality failures (answered but wrong): %d\n", stats.QualityFailures)
	fmt.Fprintf(&b, "- Infrastructure failures (invocation/evaluation errors): %d\n\n", stats.InfraFailures)

	writeCategoryTable(&b, stats)
	writeFailureSections(&b, results)

	if analysis := r.analyze(ctx, stats, results); analysis != "" {
		fmt.Fprintf(&b, "## Analysis\n\n%s\n", analysis)
	}

	return b.String()
}

func writeCategoryTable(b *strings.Builder, stats Stats) {
	if len(stats.Categories) == 0 {
		return
	}

	// Stable ordering for the table.
	categories := make([]suite.Category, 0, len(stats.Categories))
	for c := range stats.Categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	fmt.Fprintf(b, "## Results by Category\n\n")
	fmt.Fprintf(b, "| Category | Passed | Total | Rate |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	for _, c := range categories {
		cc := stats.Categories[c]
		rate := 0.0
		if cc.Total > 0 {
			rate = float64(cc.Passed) / float64(cc.Total) * 100
		}
		fmt.Fprintf(b, "| %s | %d | %d | %.1f%% |\n", c, cc.Passed, cc.Total, rate)
	}
	fmt.Fprintf(b, "\n")
}

// writeFailureSections lists infrastructure failures separately from quality
// failures so consumers can tell a broken pipeline from a wrong answer.
func writeFailureSections(b *strings.Builder, results []suite.TestResult) {
	var infra, quality []suite.TestResult
	for _, r := range results {
		if r.Passed {
			continue
		}
		if r.InfrastructureFailure() {
			infra = append(infra, r)
		} else {
			quality = append(quality, r)
		}
	}

	if len(infra) > 0 {
		fmt.Fprintf(b, "## Infrastructure Failures\n\n")
		for i, r := range infra {
			if i == maxFailureDetails {
				fmt.Fprintf(b, "- ... and %d more\n", len(infra)-maxFailureDetails)
				break
			}
			fmt.Fprintf(b, "- **%s**: %s\n", r.Case.ID, r.Error)
		}
		fmt.Fprintf(b, "\n")
	}

	if len(quality) > 0 {
		fmt.Fprintf(b, "## Quality Failures\n\n")
		for i, r := range quality {
			if i == maxFailureDetails {
				fmt.Fprintf(b, "... and %d more\n\n", len(quality)-maxFailureDetails)
				break
			}
			fmt.Fprintf(b, "### %s (%s/%s, score %.2f)\n\n", r.Case.ID, r.Case.Category, r.Case.Difficulty, r.SimilarityScore)
			fmt.Fprintf(b, "- Question: %s\n", r.Case.Question)
			fmt.Fprintf(b, "- Expected: %s\n", r.Case.ExpectedAnswer)
			fmt.Fprintf(b, "- Actual: %s\n", r.ActualAnswer)
			if r.Rationale != "" {
				fmt.Fprintf(b, "- Judge rationale: %s\n", r.Rationale)
			}
			fmt.Fprintf(b, "\n")
		}
	}
}

// analyze asks the LLM for a narrative analysis of the run. Failures only
// cost the narrative section, never the report.
func (r *Reporter) analyze(ctx context.Context, stats Stats, results []suite.TestResult) string {
	if r.client == nil {
		return ""
	}

	digest, err := json.Marshal(map[string]any{
		"stats":    stats,
		"failures": failureDigest(results),
	})
	if err != nil {
		return ""
	}

	resp, err := r.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:         r.model,
		SystemMessage: AnalysisPrompt,
		UserMessage:   string(digest),
		Temperature:   llm.Float64Ptr(0.2),
	})
	if err != nil {
		slog.Warn("report analysis failed, omitting analysis section", "error", err)
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

func failureDigest(results []suite.TestResult) []map[string]any {
	var out []map[string]any
	for _, r := range results {
		if r.Passed {
			continue
		}
		if len(out) == maxFailureDetails {
			break
		}
		out = append(out, map[string]any{
			"id":        r.Case.ID,
			"category":  r.Case.Category,
			"question":  r.Case.Question,
			"score":     r.SimilarityScore,
			"rationale": r.Rationale,
			"error":     r.Error,
		})
	}
	return out
}
