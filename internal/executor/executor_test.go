package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/rag-testkit/internal/judge"
	"github.com/giantswarm/rag-testkit/internal/suite"
	"github.com/giantswarm/rag-testkit/internal/target"
)

// scriptedTarget returns canned answers or errors per question.
type scriptedTarget struct {
	answers map[string]string
	err     error
	calls   int
}

func (s *scriptedTarget) Invoke(_ context.Context, req target.Request) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if a, ok := s.answers[req.Question]; ok {
		return a, nil
	}
	return "answer to " + req.Question, nil
}

// scriptedJudge returns verdicts in sequence, repeating the last one.
type scriptedJudge struct {
	verdicts []judge.Verdict
	err      error
	calls    int
}

func (s *scriptedJudge) Score(_ context.Context, _, _, _ string) (judge.Verdict, error) {
	s.calls++
	if s.err != nil {
		return judge.Verdict{}, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.verdicts) {
		idx = len(s.verdicts) - 1
	}
	return s.verdicts[idx], nil
}

func cases(ids ...string) []suite.TestCase {
	out := make([]suite.TestCase, 0, len(ids))
	for _, id := range ids {
		out = append(out, suite.TestCase{
			ID:       id,
			Question: "question " + id,
			Category: suite.CategoryFactual,
		})
	}
	return out
}

func TestExecutePreservesOrder(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{
		{Passed: true, Score: 0.9},
		{Passed: false, Score: 0.1},
		{Passed: true, Score: 0.8},
	}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 0})
	results := e.Execute(context.Background(), cases("A", "B", "C"))

	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Case.ID)
	assert.Equal(t, "B", results[1].Case.ID)
	assert.Equal(t, "C", results[2].Case.ID)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.True(t, results[2].Passed)
}

func TestExecuteRetriesUntilPass(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{
		{Passed: false, Score: 0.2},
		{Passed: false, Score: 0.5},
		{Passed: true, Score: 0.9},
	}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 2})
	results := e.Execute(context.Background(), cases("A"))

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Equal(t, 2, results[0].RetryCount)
	assert.InDelta(t, 0.9, results[0].SimilarityScore, 0.001)
	assert.Equal(t, 3, tgt.calls)
}

func TestExecuteRetryBudgetExhausted(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{{Passed: false, Score: 0.3, Rationale: "wrong"}}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 2})
	results := e.Execute(context.Background(), cases("A"))

	require.Len(t, results, 1)
	r := results[0]
	assert.False(t, r.Passed)
	// Last attempt's data, not an empty record.
	assert.Equal(t, 2, r.RetryCount)
	assert.Equal(t, "answer to question A", r.ActualAnswer)
	assert.Equal(t, "wrong", r.Rationale)
	// maxRetries+1 attempts in total.
	assert.Equal(t, 3, tgt.calls)
	assert.Equal(t, 3, j.calls)
}

func TestExecuteZeroRetries(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{{Passed: false, Score: 0.0}}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 0})
	results := e.Execute(context.Background(), cases("A"))

	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].RetryCount)
	assert.Equal(t, 1, tgt.calls)
}

func TestExecuteInvocationFailureNotRetried(t *testing.T) {
	tgt := &scriptedTarget{err: &target.Error{Kind: target.KindConnectivity, Msg: "connection refused"}}
	j := &scriptedJudge{verdicts: []judge.Verdict{{Passed: true, Score: 1.0}}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 2})
	results := e.Execute(context.Background(), cases("A", "B"))

	require.Len(t, results, 2, "an invocation failure must not halt subsequent cases")
	for _, r := range results {
		assert.False(t, r.Passed)
		assert.Equal(t, 0, r.RetryCount)
		assert.Zero(t, r.SimilarityScore)
		assert.Contains(t, r.Error, "connectivity")
		assert.True(t, r.InfrastructureFailure())
	}
	// One attempt per case, no retries.
	assert.Equal(t, 2, tgt.calls)
	assert.Zero(t, j.calls)
}

func TestExecuteJudgeFailureNotRetried(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{err: &judge.ParseError{Output: "gibberish"}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 2})
	results := e.Execute(context.Background(), cases("A"))

	require.Len(t, results, 1)
	r := results[0]
	assert.False(t, r.Passed)
	assert.Equal(t, 0, r.RetryCount)
	assert.Contains(t, r.Error, "evaluation failed")
	assert.Equal(t, 1, j.calls)
}

func TestExecuteThresholdOverridesJudge(t *testing.T) {
	// Judge says pass but the score is below the threshold: both must agree.
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{{Passed: true, Score: 0.65}}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 0})
	results := e.Execute(context.Background(), cases("A"))

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.InDelta(t, 0.65, results[0].SimilarityScore, 0.001)
	assert.Empty(t, results[0].Error, "a below-threshold answer is a quality failure, not an infrastructure one")
}

func TestExecuteJudgeFailFlagOverridesScore(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{{Passed: false, Score: 0.95}}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 0})
	results := e.Execute(context.Background(), cases("A"))

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
}

func TestExecuteProgressCallback(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{{Passed: true, Score: 1.0}}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 0})

	var seen []int
	e.SetProgressFunc(func(caseID string, idx, total int) {
		seen = append(seen, idx)
		assert.Equal(t, 2, total)
	})

	e.Execute(context.Background(), cases("A", "B"))
	assert.Equal(t, []int{1, 2}, seen)
}

func TestExecuteCancelledContext(t *testing.T) {
	tgt := &scriptedTarget{}
	j := &scriptedJudge{verdicts: []judge.Verdict{{Passed: true, Score: 1.0}}}

	e := New(tgt, j, Config{PassThreshold: 0.7, MaxRetries: 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := e.Execute(ctx, cases("A", "B"))
	assert.Empty(t, results)
}
