package cmd

import (
	"github.com/giantswarm/rag-testkit/internal/config"
	"github.com/giantswarm/rag-testkit/internal/llm"
)

// newLLMClient creates an LLM client from the settings, with optional flag
// overrides for the endpoint and API key. The API key is resolved through
// the settings' env-var indirection when no explicit key is given.
func newLLMClient(settings *config.Settings, endpoint, apiKey string) llm.Client {
	var opts []llm.Option

	baseURL := settings.LLM.BaseURL
	if endpoint != "" {
		baseURL = endpoint
	}
	if baseURL != "" {
		opts = append(opts, llm.WithBaseURL(baseURL))
	}

	key := settings.LLM.APIKey()
	if apiKey != "" {
		key = apiKey
	}
	if key != "" {
		opts = append(opts, llm.WithAPIKey(key))
	}

	if settings.LLM.Model != "" {
		opts = append(opts, llm.WithModel(settings.LLM.Model))
	}
	return llm.NewOpenAIClient(opts...)
}

// loadSettings loads the settings file named by the --config flag, or
// defaults when no file is given.
func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
