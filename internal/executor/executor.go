// Package executor runs generated test cases against the system under test
// and records one result per case.
package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/giantswarm/rag-testkit/internal/judge"
	"github.com/giantswarm/rag-testkit/internal/suite"
	"github.com/giantswarm/rag-testkit/internal/target"
)

// ProgressFunc is called to report progress during test execution.
type ProgressFunc func(caseID string, index, total int)

// Config holds execution loop parameters.
type Config struct {
	// PassThreshold is the minimum similarity score, required in addition to
	// the judge's own verdict, for a test to count as passed.
	PassThreshold float64
	// MaxRetries bounds retries per test case; total attempts are MaxRetries+1.
	MaxRetries int
}

// Executor drives the per-test invocation and evaluation loop.
// Test cases run sequentially; results preserve the input order.
type Executor struct {
	target   target.Client
	judge    judge.Judge
	config   Config
	progress ProgressFunc
}

// New creates an Executor.
func New(targetClient target.Client, j judge.Judge, config Config) *Executor {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &Executor{
		target: targetClient,
		judge:  j,
		config: config,
	}
}

// SetProgressFunc sets the progress callback.
func (e *Executor) SetProgressFunc(fn ProgressFunc) {
	e.progress = fn
}

// Execute runs all test cases in order and returns one result per case.
// A cancelled context stops the loop between cases; the results recorded so
// far are returned.
func (e *Executor) Execute(ctx context.Context, cases []suite.TestCase) []suite.TestResult {
	results := make([]suite.TestResult, 0, len(cases))

	// One session identifier for the whole run so multi-turn targets can
	// correlate the conversation.
	sessionID := uuid.NewString()

	for i, tc := range cases {
		if err := ctx.Err(); err != nil {
			slog.Warn("execution cancelled", "completed", i, "total", len(cases))
			break
		}

		if e.progress != nil {
			e.progress(tc.ID, i+1, len(cases))
		}

		result := e.executeCase(ctx, tc, sessionID)
		results = append(results, result)

		slog.Info("test case executed",
			"case", tc.ID,
			"passed", result.Passed,
			"score", result.SimilarityScore,
			"retries", result.RetryCount,
		)
	}

	return results
}

// executeCase runs one test case with the bounded retry policy. Invocation
// and judge failures are systemic, not answer-quality issues, so they are
// recorded and never retried. Only an answered-but-not-passed outcome
// triggers a retry; the last attempt's values win.
func (e *Executor) executeCase(ctx context.Context, tc suite.TestCase, sessionID string) suite.TestResult {
	var result suite.TestResult

	for attempt := 0; attempt <= e.config.MaxRetries; attempt++ {
		result = suite.TestResult{Case: tc, RetryCount: attempt}

		start := time.Now()
		answer, err := e.target.Invoke(ctx, target.Request{
			Question:  tc.Question,
			SessionID: sessionID,
		})
		result.ExecutionTimeMs = time.Since(start).Milliseconds()

		if err != nil {
			result.Error = err.Error()
			slog.Error("invocation failed", "case", tc.ID, "kind", target.KindOf(err), "error", err)
			return result
		}
		result.ActualAnswer = answer

		verdict, err := e.judge.Score(ctx, tc.Question, tc.ExpectedAnswer, answer)
		if err != nil {
			result.Error = "evaluation failed: " + err.Error()
			slog.Error("evaluation failed", "case", tc.ID, "error", err)
			return result
		}

		result.SimilarityScore = verdict.Score
		result.Rationale = verdict.Rationale
		// The threshold is a numeric floor on top of the judge's own verdict;
		// both must hold.
		result.Passed = verdict.Passed && verdict.Score >= e.config.PassThreshold

		if result.Passed {
			return result
		}

		if attempt < e.config.MaxRetries {
			slog.Debug("retrying test case", "case", tc.ID, "attempt", attempt+1)
		}
	}

	return result
}
