package judge

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/rag-testkit/internal/llm"
)

type mockJudgeClient struct {
	response     string
	err          error
	streamChunks []string
	completions  int
	last         llm.ChatRequest
}

func (m *mockJudgeClient) ChatCompletion(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.completions++
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.ChatResponse{Content: m.response}, nil
}

func (m *mockJudgeClient) ChatCompletionStream(_ context.Context, req llm.ChatRequest) (*llm.StreamReader, error) {
	if len(m.streamChunks) == 0 {
		return nil, assert.AnError
	}
	m.last = req
	i := 0
	return llm.NewStreamReader(func() (string, error) {
		if i >= len(m.streamChunks) {
			return "", io.EOF
		}
		chunk := m.streamChunks[i]
		i++
		return chunk, nil
	}, nil), nil
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Verdict
		wantErr bool
	}{
		{
			name:  "plain JSON",
			input: `{"passed": true, "score": 0.85, "rationale": "good match"}`,
			want:  Verdict{Passed: true, Score: 0.85, Rationale: "good match"},
		},
		{
			name:  "json fenced",
			input: "Here is my evaluation:\n```json\n{\"passed\": false, \"score\": 0.4, \"rationale\": \"gaps\"}\n```",
			want:  Verdict{Passed: false, Score: 0.4, Rationale: "gaps"},
		},
		{
			name:  "generic fence",
			input: "```\n{\"passed\": true, \"score\": 1.0, \"rationale\": \"exact\"}\n```",
			want:  Verdict{Passed: true, Score: 1.0, Rationale: "exact"},
		},
		{
			name:  "surrounding prose",
			input: "After review {\"passed\": true, \"score\": 0.9, \"rationale\": \"solid\"} is my verdict.",
			want:  Verdict{Passed: true, Score: 0.9, Rationale: "solid"},
		},
		{
			name:  "score clamped high",
			input: `{"passed": true, "score": 1.4, "rationale": "enthusiastic"}`,
			want:  Verdict{Passed: true, Score: 1.0, Rationale: "enthusiastic"},
		},
		{
			name:  "score clamped low",
			input: `{"passed": false, "score": -0.2, "rationale": "off"}`,
			want:  Verdict{Passed: false, Score: 0.0, Rationale: "off"},
		},
		{
			name:    "no JSON at all",
			input:   "The answer looks fine to me.",
			wantErr: true,
		},
		{
			name:    "broken JSON",
			input:   `{"passed": true, "score":`,
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseVerdict(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var pe *ParseError
				assert.ErrorAs(t, err, &pe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestLLMJudgeScore(t *testing.T) {
	client := &mockJudgeClient{
		response: `{"passed": true, "score": 0.75, "rationale": "covers the essentials"}`,
	}
	j := NewLLMJudge(client, Config{Model: "judge-model", Temperature: 0.1})

	v, err := j.Score(context.Background(), "What is X?", "X is Y.", "X is basically Y.")
	require.NoError(t, err)
	assert.True(t, v.Passed)
	assert.InDelta(t, 0.75, v.Score, 0.001)

	assert.Equal(t, "judge-model", client.last.Model)
	assert.Equal(t, EvaluationPrompt, client.last.SystemMessage)
	assert.Contains(t, client.last.UserMessage, "What is X?")
	assert.Contains(t, client.last.UserMessage, "EXPECTED ANSWER:")
	assert.Equal(t, judgeMaxTokens, client.last.MaxTokens)
	assert.Equal(t, 1, client.completions, "falls back to non-streaming when the stream is unavailable")
}

func TestLLMJudgeScoreStreaming(t *testing.T) {
	client := &mockJudgeClient{
		streamChunks: []string{`{"passed": true, `, `"score": 0.9, `, `"rationale": "matches"}`},
	}
	j := NewLLMJudge(client, Config{Model: "judge-model"})

	v, err := j.Score(context.Background(), "What is X?", "X is Y.", "X is Y indeed.")
	require.NoError(t, err)
	assert.True(t, v.Passed)
	assert.InDelta(t, 0.9, v.Score, 0.001)
	assert.Equal(t, "matches", v.Rationale)

	assert.Zero(t, client.completions, "streamed verdict must not trigger the non-streaming call")
	assert.Equal(t, "judge-model", client.last.Model)
	assert.Equal(t, EvaluationPrompt, client.last.SystemMessage)
}

func TestLLMJudgeDefaultModel(t *testing.T) {
	j := NewLLMJudge(&mockJudgeClient{}, Config{})
	assert.Equal(t, DefaultModel, j.config.Model)
}

func TestLLMJudgeCompletionError(t *testing.T) {
	j := NewLLMJudge(&mockJudgeClient{err: errors.New("upstream down")}, Config{})
	_, err := j.Score(context.Background(), "q", "e", "a")
	require.Error(t, err)
	var pe *ParseError
	assert.False(t, errors.As(err, &pe), "transport failure is not a parse error")
}

func TestLLMJudgeUnparseableOutput(t *testing.T) {
	j := NewLLMJudge(&mockJudgeClient{response: "I think it is correct."}, Config{})
	_, err := j.Score(context.Background(), "q", "e", "a")
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
