// Package config loads the testkit settings file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/giantswarm/rag-testkit/internal/suite"
)

// Defaults applied when the settings file leaves fields unset.
const (
	DefaultPassThreshold = 0.7
	DefaultMaxRetries    = 2
	DefaultNumTests      = 20
)

// Settings is the full configuration surface of the testkit. Secrets are
// never stored in the file; fields ending in EnvVar name the environment
// variable holding the actual credential.
type Settings struct {
	// Mode selects which phases a run visits.
	Mode string `yaml:"mode"`
	// Description of the assistant under test, used by the generation
	// phases.
	Description string `yaml:"description"`
	// OutputDir is the root directory for per-run artifacts. Empty disables
	// artifact writing.
	OutputDir string `yaml:"output_dir"`

	Target     TargetSettings     `yaml:"target"`
	RAG        RAGSettings        `yaml:"rag"`
	LLM        LLMSettings        `yaml:"llm"`
	Execution  ExecutionSettings  `yaml:"execution"`
	Generation GenerationSettings `yaml:"generation"`
}

// TargetSettings configures how the assistant under test is invoked.
type TargetSettings struct {
	// Name labels the report.
	Name string `yaml:"name"`
	// KickoffURL is the remote kickoff endpoint. Empty means the target is
	// invoked in-process through a locally registered runner.
	KickoffURL string `yaml:"kickoff_url"`
	// TokenEnvVar names the env var with the kickoff bearer token.
	TokenEnvVar string `yaml:"token_env_var"`

	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	PollIntervalSeconds   int `yaml:"poll_interval_seconds"`
	PollTimeoutSeconds    int `yaml:"poll_timeout_seconds"`
}

// RAGSettings configures the knowledge-base backend used by discovery.
type RAGSettings struct {
	// Backend is "ragengine" (MCP) or "rest".
	Backend   string            `yaml:"backend"`
	Ragengine RagengineSettings `yaml:"ragengine"`
	REST      RESTSettings      `yaml:"rest"`
}

// RagengineSettings configures the MCP knowledge backend.
type RagengineSettings struct {
	URL         string `yaml:"url"`
	TokenEnvVar string `yaml:"token_env_var"`
	Corpus      string `yaml:"corpus"`
}

// RESTSettings configures the plain-HTTP knowledge backend.
type RESTSettings struct {
	URL         string `yaml:"url"`
	TokenEnvVar string `yaml:"token_env_var"`
}

// LLMSettings configures the OpenAI-compatible endpoint used for
// generation, judging and report analysis.
type LLMSettings struct {
	BaseURL      string `yaml:"base_url"`
	APIKeyEnvVar string `yaml:"api_key_env_var"`
	// Model is used for discovery, generation and report analysis.
	Model string `yaml:"model"`
	// JudgeModel is used for scoring; defaults to Model.
	JudgeModel string `yaml:"judge_model"`
}

// ExecutionSettings configures the test execution loop.
type ExecutionSettings struct {
	PassThreshold float64 `yaml:"pass_threshold"`
	MaxRetries    *int    `yaml:"max_retries"`
	// CasesCSV supplies test cases for execute_only runs.
	CasesCSV string `yaml:"cases_csv"`
}

// GenerationSettings configures test generation.
type GenerationSettings struct {
	NumTests   int      `yaml:"num_tests"`
	Categories []string `yaml:"categories"`
}

// Load reads and parses the settings file, applying defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	s.ApplyDefaults()
	return &s, nil
}

// Default returns settings with all defaults applied and nothing configured.
func Default() *Settings {
	var s Settings
	s.ApplyDefaults()
	return &s
}

// ApplyDefaults fills unset fields with their defaults.
func (s *Settings) ApplyDefaults() {
	if s.Mode == "" {
		s.Mode = string(suite.ModeFull)
	}
	if s.Target.TokenEnvVar == "" {
		s.Target.TokenEnvVar = "TARGET_API_TOKEN"
	}
	if s.RAG.Backend == "" {
		s.RAG.Backend = "ragengine"
	}
	if s.RAG.Ragengine.TokenEnvVar == "" {
		s.RAG.Ragengine.TokenEnvVar = "RAG_MCP_TOKEN"
	}
	if s.LLM.APIKeyEnvVar == "" {
		s.LLM.APIKeyEnvVar = "OPENAI_API_KEY"
	}
	if s.LLM.JudgeModel == "" {
		s.LLM.JudgeModel = s.LLM.Model
	}
	if s.Execution.PassThreshold == 0 {
		s.Execution.PassThreshold = DefaultPassThreshold
	}
	if s.Execution.MaxRetries == nil {
		retries := DefaultMaxRetries
		s.Execution.MaxRetries = &retries
	}
	if s.Generation.NumTests == 0 {
		s.Generation.NumTests = DefaultNumTests
	}
}

// RunMode returns the normalized run mode.
func (s *Settings) RunMode() suite.RunMode {
	return suite.ParseRunMode(s.Mode)
}

// Token resolves the kickoff bearer token from the environment.
func (t TargetSettings) Token() string {
	return os.Getenv(t.TokenEnvVar)
}

// Token resolves the MCP bearer token from the environment.
func (r RagengineSettings) Token() string {
	return os.Getenv(r.TokenEnvVar)
}

// Token resolves the retrieval bearer token from the environment.
func (r RESTSettings) Token() string {
	if r.TokenEnvVar == "" {
		return ""
	}
	return os.Getenv(r.TokenEnvVar)
}

// APIKey resolves the LLM API key from the environment.
func (l LLMSettings) APIKey() string {
	return os.Getenv(l.APIKeyEnvVar)
}
