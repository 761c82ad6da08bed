// Package promptgen generates agent configuration and prompt suggestions
// from a discovered knowledge-base summary.
package promptgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/giantswarm/rag-testkit/internal/llm"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// Config holds prompt generation configuration.
type Config struct {
	// Model used to generate the suggestions.
	Model string
}

// Generator produces prompt suggestions for the assistant under test.
type Generator struct {
	client llm.Client
	config Config
}

// New creates a Generator.
func New(client llm.Client, config Config) *Generator {
	return &Generator{client: client, config: config}
}

// suggestionsWire is the JSON shape the model is asked to produce.
type suggestionsWire struct {
	PrimaryAgent struct {
		Role string `json:"role"`
		Goal string `json:"goal"`
	} `json:"primary_agent"`
	SystemPrompt       string   `json:"system_prompt"`
	ExampleQueries     []string `json:"example_queries"`
	OutOfScopeExamples []string `json:"out_of_scope_examples"`
	Limitations        []string `json:"limitations"`
}

// Generate asks the model for prompt suggestions grounded on the discovered
// summary. Callers treat a failure as recoverable and substitute Fallback.
func (g *Generator) Generate(ctx context.Context, summary suite.RagSummary, description string) (suite.PromptSuggestions, error) {
	resp, err := g.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:         g.config.Model,
		SystemMessage: SuggestionPrompt,
		UserMessage:   buildInput(summary, description),
		Temperature:   llm.Float64Ptr(0.5),
	})
	if err != nil {
		return suite.PromptSuggestions{}, fmt.Errorf("prompt generation failed: %w", err)
	}

	return parseSuggestions(resp.Content)
}

func buildInput(summary suite.RagSummary, description string) string {
	var b strings.Builder
	if description == "" {
		description = "General knowledge assistant"
	}
	fmt.Fprintf(&b, "ASSISTANT UNDER TEST:\n%s\n\n", description)

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err == nil {
		fmt.Fprintf(&b, "KNOWLEDGE BASE SUMMARY:\n%s\n", encoded)
	}
	return b.String()
}

func parseSuggestions(text string) (suite.PromptSuggestions, error) {
	jsonStr := llm.ExtractJSONObject(text)
	if jsonStr == "" {
		return suite.PromptSuggestions{}, fmt.Errorf("no JSON object in prompt generation output")
	}

	var wire suggestionsWire
	if err := json.Unmarshal([]byte(jsonStr), &wire); err != nil {
		return suite.PromptSuggestions{}, fmt.Errorf("failed to parse prompt generation output: %w", err)
	}

	s := suite.PromptSuggestions{
		AgentRole:          wire.PrimaryAgent.Role,
		AgentGoal:          wire.PrimaryAgent.Goal,
		SystemPrompt:       wire.SystemPrompt,
		ExampleQueries:     wire.ExampleQueries,
		OutOfScopeExamples: wire.OutOfScopeExamples,
		Limitations:        wire.Limitations,
	}
	if s.AgentRole == "" {
		s.AgentRole = "Knowledge Assistant"
	}
	if s.AgentGoal == "" {
		s.AgentGoal = "Help users find information"
	}
	return s, nil
}

// Fallback is the deterministic substitute used when prompt generation
// fails. The run proceeds with generic agent configuration advice.
func Fallback() suite.PromptSuggestions {
	return suite.PromptSuggestions{
		AgentRole:    "Knowledge Assistant",
		AgentGoal:    "Help users find information",
		SystemPrompt: "You are a helpful assistant. Answer questions using only the knowledge base. Say so when the answer is not covered.",
		Limitations:  []string{"prompt suggestions could not be generated from the discovered summary"},
	}
}
