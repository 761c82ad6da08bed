package target

import "context"

// LocalClient invokes an in-process capability.
type LocalClient struct {
	runner Runner
}

// NewLocalClient wraps a caller-supplied capability. A nil runner is allowed
// at construction and reported as a connectivity failure on the first call,
// matching how a missing import surfaces in the remote case.
func NewLocalClient(runner Runner) *LocalClient {
	return &LocalClient{runner: runner}
}

// Invoke runs the capability with the request's question.
func (c *LocalClient) Invoke(ctx context.Context, req Request) (string, error) {
	if c.runner == nil {
		return "", newError(KindConnectivity, "no local target capability configured")
	}
	if err := ctx.Err(); err != nil {
		return "", wrapError(KindTimeout, "local invocation cancelled", err)
	}

	inputs := map[string]string{"query": req.Question}
	if req.SessionID != "" {
		inputs["session_id"] = req.SessionID
	}

	answer, err := c.runner.Run(inputs)
	if err != nil {
		return "", wrapError(KindMalformedResponse, "local target execution failed", err)
	}
	return answer, nil
}
