// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"errors"
	"io"

	"github.com/giantswarm/rag-testkit/internal/llm"
)

// MockLLMClient implements llm.Client with scripted responses. Responses are
// returned in order, repeating the last one; Err, when set, fails every call.
// Requests records every request received.
type MockLLMClient struct {
	Responses []string
	Err       error
	// StreamChunks, when non-empty, makes ChatCompletionStream yield these
	// chunks in order. When empty, streaming reports unsupported and callers
	// are expected to fall back to ChatCompletion.
	StreamChunks []string
	Requests     []llm.ChatRequest
}

func (m *MockLLMClient) ChatCompletion(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return &llm.ChatResponse{}, nil
	}
	idx := len(m.Requests) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return &llm.ChatResponse{Content: m.Responses[idx]}, nil
}

func (m *MockLLMClient) ChatCompletionStream(_ context.Context, req llm.ChatRequest) (*llm.StreamReader, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.StreamChunks) == 0 {
		return nil, errors.New("streaming is not supported by the mock client")
	}
	m.Requests = append(m.Requests, req)
	i := 0
	return llm.NewStreamReader(func() (string, error) {
		if i >= len(m.StreamChunks) {
			return "", io.EOF
		}
		chunk := m.StreamChunks[i]
		i++
		return chunk, nil
	}, nil), nil
}
