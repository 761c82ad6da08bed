package testgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/rag-testkit/internal/suite"
	"github.com/giantswarm/rag-testkit/internal/testutil"
)

const casesJSON = `[
	{"id": "TEST-001", "question": "How do I request a refund?", "expected_answer": "Through the billing portal.", "category": "factual", "difficulty": "easy", "rationale": "direct lookup"},
	{"id": "TEST-002", "question": "What is the weather today?", "expected_answer": "Decline: not covered.", "category": "out_of_scope", "difficulty": "medium"}
]`

func TestGenerateParsesCases(t *testing.T) {
	client := &testutil.MockLLMClient{Responses: []string{"```json\n" + casesJSON + "\n```"}}

	g := New(client, Config{Model: "test-model", NumTests: 10})
	cases, err := g.Generate(context.Background(), suite.RagSummary{Coverage: "billing"}, "billing assistant")
	require.NoError(t, err)

	require.Len(t, cases, 2)
	assert.Equal(t, "TEST-001", cases[0].ID)
	assert.Equal(t, suite.CategoryFactual, cases[0].Category)
	assert.Equal(t, suite.DifficultyEasy, cases[0].Difficulty)
	assert.Equal(t, suite.CategoryOutOfScope, cases[1].Category)

	require.Len(t, client.Requests, 1)
	assert.Contains(t, client.Requests[0].UserMessage, "NUMBER OF TESTS: 10")
	assert.Contains(t, client.Requests[0].UserMessage, "out_of_scope")
	assert.Contains(t, client.Requests[0].UserMessage, "billing")
}

func TestGenerateCompletionError(t *testing.T) {
	g := New(&testutil.MockLLMClient{Err: errors.New("rate limited")}, Config{})
	_, err := g.Generate(context.Background(), suite.RagSummary{}, "")
	assert.ErrorContains(t, err, "test generation failed")
}

func TestGenerateZeroCasesIsError(t *testing.T) {
	g := New(&testutil.MockLLMClient{Responses: []string{`[]`}}, Config{})
	_, err := g.Generate(context.Background(), suite.RagSummary{}, "")
	assert.ErrorContains(t, err, "zero cases")
}

func TestParseCasesNormalizesAndDefaults(t *testing.T) {
	cases, err := ParseCases(`[
		{"question": "Q1", "expected_answer": "A1", "category": "weird", "difficulty": "brutal"},
		{"question": "", "expected_answer": "dropped"},
		{"question": "Q2", "expected_answer": "A2", "category": "reasoning", "difficulty": "hard"}
	]`)
	require.NoError(t, err)

	require.Len(t, cases, 2, "cases without a question are dropped")
	assert.Equal(t, "GEN-001", cases[0].ID)
	assert.Equal(t, suite.CategoryFactual, cases[0].Category, "unknown category falls back to factual")
	assert.Equal(t, suite.DifficultyMedium, cases[0].Difficulty, "unknown difficulty falls back to medium")
	assert.Equal(t, suite.CategoryReasoning, cases[1].Category)
	assert.Equal(t, suite.DifficultyHard, cases[1].Difficulty)
}

func TestParseCasesNoArray(t *testing.T) {
	_, err := ParseCases("the model rambled instead of emitting JSON")
	assert.Error(t, err)
}

func TestParseCasesBrokenJSON(t *testing.T) {
	_, err := ParseCases(`[{"question": "Q1",]`)
	assert.Error(t, err)
}
