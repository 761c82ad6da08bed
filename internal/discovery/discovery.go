package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/giantswarm/rag-testkit/internal/llm"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// seedProbes sample the knowledge base before asking the model to summarize
// its coverage.
var seedProbes = []string{
	"What are the main topics covered?",
	"What products or services are described?",
	"What processes or procedures are documented?",
	"What technical concepts are explained?",
}

// Config holds discovery configuration.
type Config struct {
	// Model used to summarize the probe results.
	Model string
	// ProbeResults is how many snippets each seed probe retrieves.
	ProbeResults int
}

// Discoverer maps the coverage of a knowledge base. It probes the base with
// seed queries and asks an LLM to condense the retrieved snippets into a
// domain summary.
type Discoverer struct {
	knowledge KnowledgeClient
	client    llm.Client
	config    Config
}

// New creates a Discoverer.
func New(knowledge KnowledgeClient, client llm.Client, config Config) *Discoverer {
	if config.ProbeResults <= 0 {
		config.ProbeResults = 3
	}
	return &Discoverer{knowledge: knowledge, client: client, config: config}
}

// Discover probes the knowledge base and summarizes its coverage. The
// description tells the summarizer what the assistant under test is supposed
// to do. Callers treat a failure as recoverable and substitute
// FallbackSummary.
func (d *Discoverer) Discover(ctx context.Context, description string) (suite.RagSummary, error) {
	probes, failed := d.runProbes(ctx)
	if failed == len(seedProbes) {
		return suite.RagSummary{}, fmt.Errorf("all %d probe queries failed", failed)
	}

	resp, err := d.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:         d.config.Model,
		SystemMessage: DiscoveryPrompt,
		UserMessage:   buildDiscoveryInput(description, probes),
		Temperature:   llm.Float64Ptr(0.3),
	})
	if err != nil {
		return suite.RagSummary{}, fmt.Errorf("discovery summarization failed: %w", err)
	}

	return parseSummary(resp.Content)
}

func (d *Discoverer) runProbes(ctx context.Context) (string, int) {
	var b strings.Builder
	failed := 0
	for _, q := range seedProbes {
		snippets, err := d.knowledge.Query(ctx, q, d.config.ProbeResults)
		if err != nil {
			failed++
			slog.Warn("probe query failed", "query", q, "error", err)
			continue
		}
		fmt.Fprintf(&b, "## Probe: %s\n\n%s\n\n", q, snippets)
	}
	return b.String(), failed
}

func buildDiscoveryInput(description, probes string) string {
	var b strings.Builder
	if description == "" {
		description = "General knowledge assistant"
	}
	fmt.Fprintf(&b, "ASSISTANT UNDER TEST:\n%s\n\n", description)
	fmt.Fprintf(&b, "PROBE RESULTS:\n\n%s", probes)
	return b.String()
}

func parseSummary(text string) (suite.RagSummary, error) {
	jsonStr := llm.ExtractJSONObject(text)
	if jsonStr == "" {
		return suite.RagSummary{}, fmt.Errorf("no JSON object in discovery output")
	}

	var s suite.RagSummary
	if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
		return suite.RagSummary{}, fmt.Errorf("failed to parse discovery output: %w", err)
	}
	if len(s.Domains) == 0 && s.Coverage == "" {
		return suite.RagSummary{}, fmt.Errorf("discovery output has neither domains nor a coverage estimate")
	}
	return s, nil
}

// FallbackSummary is the deterministic substitute used when discovery fails.
// Tests generated from it are generic but the run still proceeds.
func FallbackSummary() suite.RagSummary {
	return suite.RagSummary{
		Domains: []suite.Domain{
			{
				Name:           "General Knowledge",
				Subtopics:      []string{"various topics"},
				Depth:          "unknown",
				ExampleQueries: []string{"What topics does the knowledge base cover?"},
			},
		},
		Boundaries: []string{"topics outside the documented domain"},
		Coverage:   "Coverage could not be determined; discovery fell back to a generic summary.",
	}
}
