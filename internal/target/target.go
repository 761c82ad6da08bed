// Package target invokes the system under test with a single question and
// normalizes local and remote execution into one answer-text result.
package target

import "context"

// Request carries one question to the system under test.
type Request struct {
	Question  string
	SessionID string
}

// Client invokes the system under test. Implementations return the answer
// text or a *Error describing the failure.
type Client interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// Runner is the local invocation capability contract: a single callable
// accepting a query and optional session identifier, returning an answer.
// It is resolved once at construction time, never looked up per call.
type Runner interface {
	Run(inputs map[string]string) (string, error)
}
