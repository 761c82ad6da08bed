package promptgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/rag-testkit/internal/suite"
	"github.com/giantswarm/rag-testkit/internal/testutil"
)

func testSummary() suite.RagSummary {
	return suite.RagSummary{
		Domains:  []suite.Domain{{Name: "Billing", Subtopics: []string{"refunds"}}},
		Coverage: "Customer billing knowledge base",
	}
}

func TestGenerateParsesSuggestions(t *testing.T) {
	client := &testutil.MockLLMClient{Responses: []string{"```json\n" + `{
		"primary_agent": {"role": "Billing Assistant", "goal": "Answer billing questions"},
		"system_prompt": "You answer billing questions from the knowledge base.",
		"example_queries": ["How do I request a refund?"],
		"out_of_scope_examples": ["What is the weather today?"],
		"limitations": ["no legal advice"]
	}` + "\n```"}}

	g := New(client, Config{Model: "test-model"})
	s, err := g.Generate(context.Background(), testSummary(), "billing assistant")
	require.NoError(t, err)

	assert.Equal(t, "Billing Assistant", s.AgentRole)
	assert.Equal(t, "Answer billing questions", s.AgentGoal)
	assert.Contains(t, s.SystemPrompt, "billing questions")
	assert.Equal(t, []string{"How do I request a refund?"}, s.ExampleQueries)
	assert.Equal(t, []string{"What is the weather today?"}, s.OutOfScopeExamples)
	assert.Equal(t, []string{"no legal advice"}, s.Limitations)

	require.Len(t, client.Requests, 1)
	assert.Equal(t, "test-model", client.Requests[0].Model)
	assert.Contains(t, client.Requests[0].UserMessage, "Billing")
	assert.Contains(t, client.Requests[0].UserMessage, "billing assistant")
}

func TestGenerateAppliesDefaults(t *testing.T) {
	client := &testutil.MockLLMClient{Responses: []string{`{"system_prompt": "Be helpful."}`}}

	g := New(client, Config{})
	s, err := g.Generate(context.Background(), testSummary(), "")
	require.NoError(t, err)

	assert.Equal(t, "Knowledge Assistant", s.AgentRole)
	assert.Equal(t, "Help users find information", s.AgentGoal)
	assert.Equal(t, "Be helpful.", s.SystemPrompt)
}

func TestGenerateCompletionError(t *testing.T) {
	g := New(&testutil.MockLLMClient{Err: errors.New("rate limited")}, Config{})
	_, err := g.Generate(context.Background(), testSummary(), "")
	assert.ErrorContains(t, err, "prompt generation failed")
}

func TestGenerateUnparseableOutput(t *testing.T) {
	g := New(&testutil.MockLLMClient{Responses: []string{"no JSON here"}}, Config{})
	_, err := g.Generate(context.Background(), testSummary(), "")
	assert.Error(t, err)
}

func TestFallbackIsDeterministic(t *testing.T) {
	s := Fallback()
	assert.NotEmpty(t, s.SystemPrompt)
	assert.Equal(t, s, Fallback())
}
