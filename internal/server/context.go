// Package server holds the shared dependency wiring for the MCP server and
// the CLI: the server context and the OAuth-enabled HTTP transport.
package server

import (
	"fmt"
	"time"

	"github.com/giantswarm/rag-testkit/internal/config"
	"github.com/giantswarm/rag-testkit/internal/discovery"
	"github.com/giantswarm/rag-testkit/internal/executor"
	"github.com/giantswarm/rag-testkit/internal/flow"
	"github.com/giantswarm/rag-testkit/internal/judge"
	"github.com/giantswarm/rag-testkit/internal/llm"
	"github.com/giantswarm/rag-testkit/internal/promptgen"
	"github.com/giantswarm/rag-testkit/internal/report"
	"github.com/giantswarm/rag-testkit/internal/suite"
	"github.com/giantswarm/rag-testkit/internal/target"
	"github.com/giantswarm/rag-testkit/internal/testgen"
)

// ServerContext holds shared dependencies for MCP tool handlers.
type ServerContext struct {
	Settings  *config.Settings
	LLMClient llm.Client
	// Runner is an optional in-process target; remote targets are built from
	// Settings.Target instead.
	Runner target.Runner
}

// NewKnowledgeClient builds the knowledge backend selected by the settings.
func NewKnowledgeClient(settings *config.Settings) (discovery.KnowledgeClient, error) {
	switch settings.RAG.Backend {
	case "rest":
		return discovery.NewRESTClient(discovery.RESTConfig{
			URL:   settings.RAG.REST.URL,
			Token: settings.RAG.REST.Token(),
		}), nil
	case "ragengine":
		return discovery.NewRagEngineClient(discovery.RagEngineConfig{
			URL:    settings.RAG.Ragengine.URL,
			Token:  settings.RAG.Ragengine.Token(),
			Corpus: settings.RAG.Ragengine.Corpus,
		}), nil
	default:
		return nil, fmt.Errorf("unknown rag backend %q (supported: ragengine, rest)", settings.RAG.Backend)
	}
}

// NewTargetClient builds the invocation client for the assistant under test.
// A configured kickoff URL selects the remote variant; otherwise the
// in-process runner is used.
func NewTargetClient(settings *config.Settings, runner target.Runner) (target.Client, error) {
	if settings.Target.KickoffURL != "" {
		return target.NewAPIClient(target.APIConfig{
			KickoffURL:     settings.Target.KickoffURL,
			Token:          settings.Target.Token(),
			RequestTimeout: time.Duration(settings.Target.RequestTimeoutSeconds) * time.Second,
			PollInterval:   time.Duration(settings.Target.PollIntervalSeconds) * time.Second,
			PollTimeout:    time.Duration(settings.Target.PollTimeoutSeconds) * time.Second,
		}), nil
	}
	if runner == nil {
		return nil, fmt.Errorf("no kickoff URL configured and no in-process runner registered")
	}
	return target.NewLocalClient(runner), nil
}

// BuildController wires a flow controller from the settings. The target
// client is only required for modes that reach the execution phase.
func BuildController(settings *config.Settings, client llm.Client, runner target.Runner) (*flow.Controller, error) {
	knowledge, err := NewKnowledgeClient(settings)
	if err != nil {
		return nil, err
	}

	var targetClient target.Client
	if settings.RunMode().RequiresExecution() {
		targetClient, err = NewTargetClient(settings, runner)
		if err != nil {
			return nil, err
		}
	}

	categories := make([]suite.Category, 0, len(settings.Generation.Categories))
	for _, c := range settings.Generation.Categories {
		categories = append(categories, suite.ParseCategory(c))
	}

	maxRetries := config.DefaultMaxRetries
	if settings.Execution.MaxRetries != nil {
		maxRetries = *settings.Execution.MaxRetries
	}

	return flow.NewController(
		discovery.New(knowledge, client, discovery.Config{Model: settings.LLM.Model}),
		promptgen.New(client, promptgen.Config{Model: settings.LLM.Model}),
		testgen.New(client, testgen.Config{
			Model:      settings.LLM.Model,
			NumTests:   settings.Generation.NumTests,
			Categories: categories,
		}),
		executor.New(targetClient, judge.NewLLMJudge(client, judge.Config{Model: settings.LLM.JudgeModel}), executor.Config{
			PassThreshold: settings.Execution.PassThreshold,
			MaxRetries:    maxRetries,
		}),
		report.NewReporter(client, settings.LLM.Model),
	), nil
}

// RunConfig maps the settings onto a per-run flow configuration.
func RunConfig(settings *config.Settings) flow.Config {
	return flow.Config{
		Mode:        settings.RunMode(),
		Description: settings.Description,
		TargetName:  settings.Target.Name,
		CasesPath:   settings.Execution.CasesCSV,
		OutputDir:   settings.OutputDir,
	}
}
