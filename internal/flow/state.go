package flow

import (
	"time"

	"github.com/giantswarm/rag-testkit/internal/report"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// RunState is the full state of one run. It is exclusively owned by the
// Controller for the run's duration; nothing mutates it concurrently.
type RunState struct {
	Phase Phase         `json:"phase"`
	Mode  suite.RunMode `json:"mode"`

	Summary     suite.RagSummary        `json:"rag_summary"`
	Suggestions suite.PromptSuggestions `json:"prompt_suggestions"`
	Cases       []suite.TestCase        `json:"test_cases"`
	Results     []suite.TestResult      `json:"results"`
	Stats       report.Stats            `json:"stats"`
	Report      string                  `json:"-"`

	// OutputDir is the per-run artifact directory, set when artifacts are
	// written.
	OutputDir string `json:"output_dir,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	// Error is set when the run aborted on a fatal error.
	Error string `json:"error,omitempty"`
}
