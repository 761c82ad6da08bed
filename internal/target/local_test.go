package target

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	answer string
	err    error
	inputs map[string]string
}

func (s *stubRunner) Run(inputs map[string]string) (string, error) {
	s.inputs = inputs
	return s.answer, s.err
}

func TestLocalClientInvoke(t *testing.T) {
	runner := &stubRunner{answer: "the answer"}
	c := NewLocalClient(runner)

	answer, err := c.Invoke(context.Background(), Request{Question: "q1", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.Equal(t, "q1", runner.inputs["query"])
	assert.Equal(t, "s1", runner.inputs["session_id"])
}

func TestLocalClientOmitsEmptySession(t *testing.T) {
	runner := &stubRunner{answer: "ok"}
	c := NewLocalClient(runner)

	_, err := c.Invoke(context.Background(), Request{Question: "q"})
	require.NoError(t, err)
	_, ok := runner.inputs["session_id"]
	assert.False(t, ok)
}

func TestLocalClientNilRunner(t *testing.T) {
	c := NewLocalClient(nil)
	_, err := c.Invoke(context.Background(), Request{Question: "q"})
	require.Error(t, err)
	assert.Equal(t, KindConnectivity, KindOf(err))
}

func TestLocalClientRunnerError(t *testing.T) {
	c := NewLocalClient(&stubRunner{err: errors.New("boom")})
	_, err := c.Invoke(context.Background(), Request{Question: "q"})
	require.Error(t, err)
	assert.Equal(t, KindMalformedResponse, KindOf(err))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindConnectivity, KindOf(errors.New("some transport issue")))
}
