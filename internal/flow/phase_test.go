package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giantswarm/rag-testkit/internal/suite"
)

func TestNextPhase(t *testing.T) {
	tests := []struct {
		from     Phase
		mode     suite.RunMode
		expected Phase
	}{
		{PhaseInit, suite.ModeFull, PhaseDiscovery},
		{PhaseInit, suite.ModePromptOnly, PhaseDiscovery},
		{PhaseInit, suite.ModeGenerateOnly, PhaseDiscovery},
		{PhaseInit, suite.ModeExecuteOnly, PhaseExecution},
		{PhaseDiscovery, suite.ModeFull, PhasePromptGen},
		{PhaseDiscovery, suite.ModePromptOnly, PhasePromptGen},
		{PhasePromptGen, suite.ModePromptOnly, PhaseDone},
		{PhasePromptGen, suite.ModeFull, PhaseTestGen},
		{PhasePromptGen, suite.ModeGenerateOnly, PhaseTestGen},
		{PhaseTestGen, suite.ModeGenerateOnly, PhaseDone},
		{PhaseTestGen, suite.ModeFull, PhaseExecution},
		{PhaseExecution, suite.ModeFull, PhaseEvaluation},
		{PhaseExecution, suite.ModeExecuteOnly, PhaseEvaluation},
		{PhaseEvaluation, suite.ModeFull, PhaseReporting},
		{PhaseReporting, suite.ModeFull, PhaseDone},
		{PhaseDone, suite.ModeFull, PhaseDone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, nextPhase(tt.from, tt.mode),
			"from %s in mode %s", tt.from, tt.mode)
	}
}

// Every mode must reach the terminal phase within the machine's size.
func TestNextPhaseTerminates(t *testing.T) {
	for _, mode := range []suite.RunMode{suite.ModeFull, suite.ModePromptOnly, suite.ModeGenerateOnly, suite.ModeExecuteOnly} {
		phase := PhaseInit
		for i := 0; phase != PhaseDone; i++ {
			if !assert.Less(t, i, 10, "mode %s does not terminate", mode) {
				break
			}
			phase = nextPhase(phase, mode)
		}
	}
}
