// Package report reduces test results into summary statistics and renders
// the final quality report.
package report

import (
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// CategoryCount counts passed and total results for one category.
type CategoryCount struct {
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

// Stats is the aggregate view over a result list. Infrastructure failures
// (invocation or evaluation errors) are counted separately from quality
// failures (answered but judged wrong).
type Stats struct {
	Total           int                              `json:"total"`
	Passed          int                              `json:"passed"`
	PassRate        float64                          `json:"pass_rate"`
	Categories      map[suite.Category]CategoryCount `json:"category_breakdown"`
	InfraFailures   int                              `json:"infrastructure_failures"`
	QualityFailures int                              `json:"quality_failures"`
}

// Aggregate reduces results into summary statistics. An empty input yields a
// zero pass rate, never a division by zero. Categories with no observed
// tests are omitted from the breakdown.
func Aggregate(results []suite.TestResult) Stats {
	stats := Stats{
		Total:      len(results),
		Categories: make(map[suite.Category]CategoryCount),
	}

	for _, r := range results {
		cc := stats.Categories[r.Case.Category]
		cc.Total++
		if r.Passed {
			cc.Passed++
			stats.Passed++
		} else if r.InfrastructureFailure() {
			stats.InfraFailures++
		} else {
			stats.QualityFailures++
		}
		stats.Categories[r.Case.Category] = cc
	}

	if stats.Total > 0 {
		stats.PassRate = float64(stats.Passed) / float64(stats.Total)
	}

	return stats
}
