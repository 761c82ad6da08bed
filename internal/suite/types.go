package suite

// RunMode selects which phases of a test run execute.
type RunMode string

const (
	// ModeFull runs discovery, prompt suggestions, test generation,
	// execution, evaluation and reporting.
	ModeFull RunMode = "full"
	// ModePromptOnly stops after prompt suggestions.
	ModePromptOnly RunMode = "prompt_only"
	// ModeGenerateOnly stops after test generation (no execution).
	ModeGenerateOnly RunMode = "generate_only"
	// ModeExecuteOnly executes pre-supplied test cases from a CSV file.
	ModeExecuteOnly RunMode = "execute_only"
	// ModeGenerateAndExecute is an alias of full, kept for API compatibility.
	ModeGenerateAndExecute RunMode = "generate_and_execute"
)

// ParseRunMode validates a mode string, defaulting unknown values to full.
// The alias generate_and_execute is normalized to full.
func ParseRunMode(s string) RunMode {
	switch RunMode(s) {
	case ModeFull, ModePromptOnly, ModeGenerateOnly, ModeExecuteOnly:
		return RunMode(s)
	case ModeGenerateAndExecute:
		return ModeFull
	default:
		return ModeFull
	}
}

// RequiresExecution reports whether the mode reaches the execution phase.
func (m RunMode) RequiresExecution() bool {
	return m == ModeFull || m == ModeExecuteOnly
}

// Category classifies what capability a test case probes.
type Category string

const (
	CategoryFactual    Category = "factual"
	CategoryReasoning  Category = "reasoning"
	CategoryEdgeCase   Category = "edge_case"
	CategoryOutOfScope Category = "out_of_scope"
	CategoryAmbiguous  Category = "ambiguous"
)

// AllCategories returns every known category in declaration order.
func AllCategories() []Category {
	return []Category{CategoryFactual, CategoryReasoning, CategoryEdgeCase, CategoryOutOfScope, CategoryAmbiguous}
}

// ParseCategory normalizes a category string, falling back to factual.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryFactual, CategoryReasoning, CategoryEdgeCase, CategoryOutOfScope, CategoryAmbiguous:
		return Category(s)
	default:
		return CategoryFactual
	}
}

// Difficulty grades how hard a test case is expected to be.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes a difficulty string, falling back to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// TestCase is a single generated or loaded test question.
// It is never mutated after creation.
type TestCase struct {
	ID             string     `json:"id"`
	Question       string     `json:"question"`
	ExpectedAnswer string     `json:"expected_answer"`
	Category       Category   `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Rationale      string     `json:"rationale"`
}

// TestResult records the outcome of executing a single test case.
// When the test was retried, the fields hold the last attempt's values.
type TestResult struct {
	Case            TestCase `json:"test_case"`
	ActualAnswer    string   `json:"actual_answer"`
	Passed          bool     `json:"passed"`
	SimilarityScore float64  `json:"similarity_score"`
	Rationale       string   `json:"evaluation_rationale"`
	RetryCount      int      `json:"retry_count"`
	ExecutionTimeMs int64    `json:"execution_time_ms"`
	Error           string   `json:"error,omitempty"`
}

// InfrastructureFailure reports whether the result failed because of an
// invocation or evaluation error rather than answer quality.
func (r *TestResult) InfrastructureFailure() bool {
	return r.Error != ""
}

// Domain is one knowledge area discovered in the target's knowledge base.
type Domain struct {
	Name           string   `json:"name"`
	Subtopics      []string `json:"subtopics,omitempty"`
	Depth          string   `json:"depth,omitempty"`
	ExampleQueries []string `json:"example_queries,omitempty"`
}

// RagSummary describes the discovered coverage of a knowledge base.
type RagSummary struct {
	Domains    []Domain `json:"domains"`
	Boundaries []string `json:"boundaries,omitempty"`
	Coverage   string   `json:"total_coverage_estimate,omitempty"`
}

// PromptSuggestions holds generated agent and prompt configuration advice.
type PromptSuggestions struct {
	AgentRole          string   `json:"agent_role"`
	AgentGoal          string   `json:"agent_goal"`
	SystemPrompt       string   `json:"system_prompt"`
	ExampleQueries     []string `json:"example_queries,omitempty"`
	OutOfScopeExamples []string `json:"out_of_scope_examples,omitempty"`
	Limitations        []string `json:"limitations,omitempty"`
}
