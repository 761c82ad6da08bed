// Package flow drives a test run through its phases: discovery, prompt and
// test generation, execution, evaluation and reporting, with mode-dependent
// skips.
package flow

import "github.com/giantswarm/rag-testkit/internal/suite"

// Phase is one step of the run state machine.
type Phase string

const (
	PhaseInit       Phase = "init"
	PhaseDiscovery  Phase = "discovery"
	PhasePromptGen  Phase = "prompt_gen"
	PhaseTestGen    Phase = "test_gen"
	PhaseExecution  Phase = "execution"
	PhaseEvaluation Phase = "evaluation"
	PhaseReporting  Phase = "reporting"
	PhaseDone       Phase = "done"
)

// nextPhase is the pure transition function of the run state machine. All
// mode-dependent routing lives here; phase handlers never skip ahead
// themselves.
func nextPhase(p Phase, mode suite.RunMode) Phase {
	switch p {
	case PhaseInit:
		if mode == suite.ModeExecuteOnly {
			return PhaseExecution
		}
		return PhaseDiscovery
	case PhaseDiscovery:
		return PhasePromptGen
	case PhasePromptGen:
		if mode == suite.ModePromptOnly {
			return PhaseDone
		}
		return PhaseTestGen
	case PhaseTestGen:
		if mode == suite.ModeGenerateOnly {
			return PhaseDone
		}
		return PhaseExecution
	case PhaseExecution:
		return PhaseEvaluation
	case PhaseEvaluation:
		return PhaseReporting
	case PhaseReporting:
		return PhaseDone
	default:
		return PhaseDone
	}
}
