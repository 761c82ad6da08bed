// Package judge scores an actual answer against an expected answer using an
// LLM as judge.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/giantswarm/rag-testkit/internal/llm"
)

// DefaultModel is the default judge model.
const DefaultModel = "gpt-4o-mini"

// judgeMaxTokens leaves headroom for models that spend tokens on internal
// reasoning before emitting the verdict JSON.
const judgeMaxTokens = 2000

// Verdict is the structured output of one evaluation.
type Verdict struct {
	Passed    bool    `json:"passed"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// ParseError means the judge responded but its output could not be parsed
// into a verdict. A malformed judge response is never treated as a pass or a
// fabricated score.
type ParseError struct {
	Output string
}

func (e *ParseError) Error() string {
	out := e.Output
	if len(out) > 200 {
		out = out[:200] + "..."
	}
	return "could not parse judge output: " + out
}

// Judge scores answers.
type Judge interface {
	Score(ctx context.Context, question, expected, actual string) (Verdict, error)
}

// Config holds judge configuration.
type Config struct {
	Model       string
	Temperature float64
}

// LLMJudge implements Judge on an OpenAI-compatible client.
type LLMJudge struct {
	client llm.Client
	config Config
}

// NewLLMJudge creates a judge backed by the given LLM client.
func NewLLMJudge(client llm.Client, config Config) *LLMJudge {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	return &LLMJudge{client: client, config: config}
}

// Score asks the judge model to compare the answers and parses its verdict.
func (j *LLMJudge) Score(ctx context.Context, question, expected, actual string) (Verdict, error) {
	content, err := j.complete(ctx, llm.ChatRequest{
		Model:         j.config.Model,
		SystemMessage: EvaluationPrompt,
		UserMessage:   buildEvaluationInput(question, expected, actual),
		Temperature:   llm.Float64Ptr(j.config.Temperature),
		MaxTokens:     judgeMaxTokens,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("judge completion failed: %w", err)
	}

	return parseVerdict(content)
}

// complete runs the evaluation request, streaming when the endpoint supports
// it and falling back to a plain completion otherwise.
func (j *LLMJudge) complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	// Try streaming first.
	stream, err := j.client.ChatCompletionStream(ctx, req)
	if err == nil {
		content, streamErr := llm.CollectStream(stream)
		if streamErr == nil {
			return content, nil
		}
		slog.Warn("streaming evaluation failed, falling back to non-streaming", "error", streamErr)
	} else {
		slog.Debug("streaming not available, using non-streaming", "error", err)
	}

	// Fallback to non-streaming.
	resp, err := j.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func buildEvaluationInput(question, expected, actual string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUESTION:\n%s\n\n", question)
	fmt.Fprintf(&b, "EXPECTED ANSWER:\n%s\n\n", expected)
	fmt.Fprintf(&b, "ACTUAL ANSWER:\n%s\n", actual)
	return b.String()
}

// parseVerdict extracts the verdict JSON object from the completion text.
func parseVerdict(text string) (Verdict, error) {
	jsonStr := llm.ExtractJSONObject(text)
	if jsonStr == "" {
		return Verdict{}, &ParseError{Output: text}
	}

	var v Verdict
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return Verdict{}, &ParseError{Output: text}
	}

	// Clamp the score into [0,1]; out-of-range values come from judge drift.
	if v.Score < 0 {
		v.Score = 0
	}
	if v.Score > 1 {
		v.Score = 1
	}
	return v, nil
}
