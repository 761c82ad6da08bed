// Package testgen generates test cases from a discovered knowledge-base
// summary.
package testgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/giantswarm/rag-testkit/internal/llm"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// DefaultNumTests is how many cases are generated when not configured.
const DefaultNumTests = 20

// Config holds test generation configuration.
type Config struct {
	// Model used to generate the cases.
	Model string
	// NumTests is how many cases to ask for.
	NumTests int
	// Categories restricts generation; empty means all categories.
	Categories []suite.Category
}

// Generator produces test cases for the assistant under test.
type Generator struct {
	client llm.Client
	config Config
}

// New creates a Generator.
func New(client llm.Client, config Config) *Generator {
	if config.NumTests <= 0 {
		config.NumTests = DefaultNumTests
	}
	if len(config.Categories) == 0 {
		config.Categories = suite.AllCategories()
	}
	return &Generator{client: client, config: config}
}

// Generate asks the model for test cases grounded on the discovered summary.
// A run that produces zero cases is an error: unlike discovery, execution
// cannot proceed without tests.
func (g *Generator) Generate(ctx context.Context, summary suite.RagSummary, description string) ([]suite.TestCase, error) {
	resp, err := g.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:         g.config.Model,
		SystemMessage: GenerationPrompt,
		UserMessage:   g.buildInput(summary, description),
		Temperature:   llm.Float64Ptr(0.5),
	})
	if err != nil {
		return nil, fmt.Errorf("test generation failed: %w", err)
	}

	cases, err := ParseCases(resp.Content)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("test generation produced zero cases")
	}
	return cases, nil
}

func (g *Generator) buildInput(summary suite.RagSummary, description string) string {
	var b strings.Builder
	if description == "" {
		description = "General knowledge assistant"
	}
	fmt.Fprintf(&b, "ASSISTANT UNDER TEST:\n%s\n\n", description)
	fmt.Fprintf(&b, "NUMBER OF TESTS: %d\n", g.config.NumTests)

	names := make([]string, 0, len(g.config.Categories))
	for _, c := range g.config.Categories {
		names = append(names, string(c))
	}
	fmt.Fprintf(&b, "CATEGORIES: %s\n\n", strings.Join(names, ", "))

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err == nil {
		fmt.Fprintf(&b, "KNOWLEDGE BASE SUMMARY:\n%s\n", encoded)
	}
	return b.String()
}

// caseWire is one generated case as the model emits it. Category and
// difficulty arrive as free-form strings and are normalized during parsing.
type caseWire struct {
	ID             string `json:"id"`
	Question       string `json:"question"`
	ExpectedAnswer string `json:"expected_answer"`
	Category       string `json:"category"`
	Difficulty     string `json:"difficulty"`
	Rationale      string `json:"rationale"`
}

// ParseCases extracts the generated case array from the completion text.
// Cases without a question are dropped; unknown categories and difficulties
// fall back to their defaults rather than failing the batch.
func ParseCases(text string) ([]suite.TestCase, error) {
	jsonStr := llm.ExtractJSONArray(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array in test generation output")
	}

	var wire []caseWire
	if err := json.Unmarshal([]byte(jsonStr), &wire); err != nil {
		return nil, fmt.Errorf("failed to parse test generation output: %w", err)
	}

	cases := make([]suite.TestCase, 0, len(wire))
	for i, w := range wire {
		if strings.TrimSpace(w.Question) == "" {
			continue
		}
		id := w.ID
		if id == "" {
			id = fmt.Sprintf("GEN-%03d", i+1)
		}
		cases = append(cases, suite.TestCase{
			ID:             id,
			Question:       w.Question,
			ExpectedAnswer: w.ExpectedAnswer,
			Category:       suite.ParseCategory(w.Category),
			Difficulty:     suite.ParseDifficulty(w.Difficulty),
			Rationale:      w.Rationale,
		})
	}
	return cases, nil
}
