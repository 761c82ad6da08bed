package llm

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClientDefaults(t *testing.T) {
	client := NewOpenAIClient()
	assert.Empty(t, client.model)
	assert.Nil(t, client.temperature)
}

func TestNewOpenAIClientWithAllOptions(t *testing.T) {
	client := NewOpenAIClient(
		WithBaseURL("https://api.example.com/v1"),
		WithAPIKey("sk-test"),
		WithModel("gpt-4"),
		WithTemperature(0.5),
	)
	assert.Equal(t, "gpt-4", client.model)
	require.NotNil(t, client.temperature)
	assert.Equal(t, 0.5, *client.temperature)
}

func TestApplyDefaultsUsesClientModel(t *testing.T) {
	client := NewOpenAIClient(WithModel("gpt-4"))

	req := client.applyDefaults(ChatRequest{
		SystemMessage: "test",
		UserMessage:   "hello",
	})
	assert.Equal(t, "gpt-4", req.Model)
}

func TestApplyDefaultsRequestModelTakesPrecedence(t *testing.T) {
	client := NewOpenAIClient(WithModel("gpt-4"))

	req := client.applyDefaults(ChatRequest{
		Model:         "gpt-3.5",
		SystemMessage: "test",
		UserMessage:   "hello",
	})
	assert.Equal(t, "gpt-3.5", req.Model)
}

func TestApplyDefaultsUsesClientTemperature(t *testing.T) {
	client := NewOpenAIClient(WithTemperature(0.8))

	req := client.applyDefaults(ChatRequest{
		Model:       "test",
		UserMessage: "hello",
	})
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.8, *req.Temperature)
}

func TestApplyDefaultsRequestTemperatureTakesPrecedence(t *testing.T) {
	client := NewOpenAIClient(WithTemperature(0.8))

	req := client.applyDefaults(ChatRequest{
		Model:       "test",
		UserMessage: "hello",
		Temperature: Float64Ptr(0.5),
	})
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.5, *req.Temperature)
}

func TestBuildRequestCarriesMaxTokens(t *testing.T) {
	client := NewOpenAIClient(WithModel("judge-model"))

	out := client.buildRequest(ChatRequest{
		SystemMessage: "sys",
		UserMessage:   "user",
		MaxTokens:     2000,
	})
	assert.Equal(t, "judge-model", out.Model)
	assert.Equal(t, 2000, out.MaxTokens)
	require.Len(t, out.Messages, 2)
	assert.Equal(t, "sys", out.Messages[0].Content)
	assert.Equal(t, "user", out.Messages[1].Content)
}

// chunkedReader yields the given chunks then io.EOF, recording whether the
// stream was closed.
func chunkedReader(chunks []string, closed *bool) *StreamReader {
	i := 0
	return NewStreamReader(func() (string, error) {
		if i >= len(chunks) {
			return "", io.EOF
		}
		c := chunks[i]
		i++
		return c, nil
	}, func() { *closed = true })
}

func TestCollectStream(t *testing.T) {
	var closed bool
	sr := chunkedReader([]string{"The answer ", "is ", "42."}, &closed)

	content, err := CollectStream(sr)
	require.NoError(t, err)
	assert.Equal(t, "The answer is 42.", content)
	assert.True(t, closed, "the stream must be closed after collection")
}

func TestCollectStreamMidStreamError(t *testing.T) {
	var closed bool
	i := 0
	sr := NewStreamReader(func() (string, error) {
		if i > 0 {
			return "", errors.New("connection reset")
		}
		i++
		return "partial", nil
	}, func() { closed = true })

	content, err := CollectStream(sr)
	require.Error(t, err)
	assert.Equal(t, "partial", content)
	assert.True(t, closed)
}
