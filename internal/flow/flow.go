package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giantswarm/rag-testkit/internal/discovery"
	"github.com/giantswarm/rag-testkit/internal/promptgen"
	"github.com/giantswarm/rag-testkit/internal/report"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// Collaborator interfaces. The controller owns sequencing and recovery
// policy; the collaborators own the actual work.
type (
	// Discoverer maps knowledge-base coverage into a summary.
	Discoverer interface {
		Discover(ctx context.Context, description string) (suite.RagSummary, error)
	}

	// PromptGenerator derives agent configuration advice from a summary.
	PromptGenerator interface {
		Generate(ctx context.Context, summary suite.RagSummary, description string) (suite.PromptSuggestions, error)
	}

	// TestGenerator derives test cases from a summary.
	TestGenerator interface {
		Generate(ctx context.Context, summary suite.RagSummary, description string) ([]suite.TestCase, error)
	}

	// Executor runs test cases against the target and judges the answers.
	Executor interface {
		Execute(ctx context.Context, cases []suite.TestCase) []suite.TestResult
	}

	// Reporter renders the final quality report.
	Reporter interface {
		Generate(ctx context.Context, targetName string, stats report.Stats, results []suite.TestResult) string
	}
)

// Config is the per-run configuration consumed by the controller.
type Config struct {
	// Mode selects which phases the run visits.
	Mode suite.RunMode
	// Description of the assistant under test, passed to the generation
	// collaborators.
	Description string
	// TargetName labels the report.
	TargetName string
	// CasesPath is the CSV with externally supplied test cases; required for
	// execute_only, ignored otherwise.
	CasesPath string
	// OutputDir is the root artifact directory. Empty disables artifact
	// writing.
	OutputDir string
}

// Controller drives a run through the phase state machine.
type Controller struct {
	discoverer Discoverer
	promptGen  PromptGenerator
	testGen    TestGenerator
	executor   Executor
	reporter   Reporter
}

// NewController creates a Controller from its collaborators.
func NewController(d Discoverer, p PromptGenerator, t TestGenerator, e Executor, r Reporter) *Controller {
	return &Controller{
		discoverer: d,
		promptGen:  p,
		testGen:    t,
		executor:   e,
		reporter:   r,
	}
}

// Run executes one run to completion. Fatal errors abort the run and are
// returned alongside the state reached so far; recoverable collaborator
// failures are absorbed with deterministic fallbacks and only logged.
func (c *Controller) Run(ctx context.Context, cfg Config) (*RunState, error) {
	state := &RunState{
		Phase:     PhaseInit,
		Mode:      cfg.Mode,
		StartedAt: time.Now(),
	}

	for state.Phase != PhaseDone {
		if err := c.runPhase(ctx, state, cfg); err != nil {
			state.Error = err.Error()
			state.Duration = time.Since(state.StartedAt)
			return state, err
		}
		next := nextPhase(state.Phase, cfg.Mode)
		slog.Debug("phase complete", "phase", state.Phase, "next", next)
		state.Phase = next
	}
	state.Duration = time.Since(state.StartedAt)

	if cfg.OutputDir != "" {
		if err := writeArtifacts(state, cfg.OutputDir); err != nil {
			// Artifacts are a convenience; the run itself succeeded.
			slog.Warn("failed to write run artifacts", "error", err)
		}
	}
	return state, nil
}

func (c *Controller) runPhase(ctx context.Context, state *RunState, cfg Config) error {
	switch state.Phase {
	case PhaseInit:
		if cfg.Mode != suite.ModeExecuteOnly {
			return nil
		}
		cases, err := suite.LoadCases(cfg.CasesPath)
		if err != nil {
			return fmt.Errorf("failed to load test cases: %w", err)
		}
		state.Cases = cases
		return nil

	case PhaseDiscovery:
		summary, err := c.discoverer.Discover(ctx, cfg.Description)
		if err != nil {
			// Recoverable: generic tests beat no tests.
			slog.Warn("discovery failed, using fallback summary", "error", err)
			summary = discovery.FallbackSummary()
		}
		state.Summary = summary
		return nil

	case PhasePromptGen:
		suggestions, err := c.promptGen.Generate(ctx, state.Summary, cfg.Description)
		if err != nil {
			// Recoverable for the same reason as discovery.
			slog.Warn("prompt generation failed, using fallback suggestions", "error", err)
			suggestions = promptgen.Fallback()
		}
		state.Suggestions = suggestions
		return nil

	case PhaseTestGen:
		cases, err := c.testGen.Generate(ctx, state.Summary, cfg.Description)
		if err != nil {
			if cfg.Mode.RequiresExecution() {
				return fmt.Errorf("test generation failed with no cases to execute: %w", err)
			}
			// generate_only still completes; the run just has nothing to show.
			slog.Warn("test generation failed", "error", err)
		}
		state.Cases = cases
		return nil

	case PhaseExecution:
		if len(state.Cases) == 0 {
			return fmt.Errorf("no test cases to execute")
		}
		slog.Info("executing test cases", "count", len(state.Cases), "mode", cfg.Mode)
		state.Results = c.executor.Execute(ctx, state.Cases)
		return nil

	case PhaseEvaluation:
		state.Stats = report.Aggregate(state.Results)
		slog.Info("run evaluated",
			"total", state.Stats.Total,
			"passed", state.Stats.Passed,
			"pass_rate", fmt.Sprintf("%.1f%%", state.Stats.PassRate*100),
		)
		return nil

	case PhaseReporting:
		state.Report = c.reporter.Generate(ctx, cfg.TargetName, state.Stats, state.Results)
		return nil

	default:
		return fmt.Errorf("unexpected phase %q", state.Phase)
	}
}
