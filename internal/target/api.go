package target

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultPollInterval   = 5 * time.Second
	defaultPollTimeout    = 300 * time.Second
)

// APIConfig configures the remote invocation client.
type APIConfig struct {
	// KickoffURL is the POST endpoint that starts an execution.
	KickoffURL string
	// Token is forwarded opaquely as a bearer credential.
	Token string
	// RequestTimeout bounds each individual HTTP request.
	RequestTimeout time.Duration
	// PollInterval is the fixed sleep between status polls.
	PollInterval time.Duration
	// PollTimeout bounds the total wait for an asynchronous execution.
	PollTimeout time.Duration
}

// APIClient invokes a remotely deployed service via its kickoff API.
// The kickoff response either carries the result directly (synchronous) or a
// job identifier that is polled until completion (asynchronous).
type APIClient struct {
	cfg        APIConfig
	httpClient *http.Client

	// now and sleep are injection points for the polling deadline in tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewAPIClient creates a remote invocation client.
func NewAPIClient(cfg APIConfig) *APIClient {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	return &APIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// kickoffRequest is the remote kickoff body shape.
type kickoffRequest struct {
	Inputs kickoffInputs `json:"inputs"`
}

type kickoffInputs struct {
	Query     string `json:"QUERY"`
	SessionID string `json:"SESSION_ID"`
}

// kickoffResponse covers both response shapes: a direct result or a job ID.
// Result is a pointer so a present-but-empty answer is distinguishable from
// a response that has no result field at all.
type kickoffResponse struct {
	Result    *string `json:"result"`
	KickoffID string  `json:"kickoff_id"`
}

type statusResponse struct {
	Status string `json:"status"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// Invoke starts a remote execution and waits for its answer.
func (c *APIClient) Invoke(ctx context.Context, req Request) (string, error) {
	if c.cfg.KickoffURL == "" {
		return "", newError(KindConnectivity, "kickoff URL not configured")
	}

	body, err := json.Marshal(kickoffRequest{
		Inputs: kickoffInputs{Query: req.Question, SessionID: req.SessionID},
	})
	if err != nil {
		return "", wrapError(KindMalformedResponse, "failed to encode kickoff request", err)
	}

	var kickoff kickoffResponse
	if err := c.doJSON(ctx, http.MethodPost, c.cfg.KickoffURL, body, &kickoff); err != nil {
		return "", err
	}

	// Synchronous shape: the result is in the kickoff response. An empty
	// result string is a legitimate (if unhelpful) answer.
	if kickoff.KickoffID == "" {
		if kickoff.Result == nil {
			return "", newError(KindMalformedResponse, "kickoff response contained neither result nor kickoff_id")
		}
		return *kickoff.Result, nil
	}

	return c.pollForResult(ctx, kickoff.KickoffID)
}

// pollForResult polls the derived status endpoint at a fixed interval until
// the job completes, fails, or the deadline passes. The loop is bounded by a
// monotonic deadline check; no poll is issued past the timeout boundary.
func (c *APIClient) pollForResult(ctx context.Context, kickoffID string) (string, error) {
	statusURL := statusURLFor(c.cfg.KickoffURL, kickoffID)
	deadline := c.now().Add(c.cfg.PollTimeout)

	slog.Debug("polling remote execution", "kickoff_id", kickoffID, "timeout", c.cfg.PollTimeout)

	for c.now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return "", wrapError(KindTimeout, "remote invocation cancelled", err)
		}

		var status statusResponse
		if err := c.doJSON(ctx, http.MethodGet, statusURL, nil, &status); err != nil {
			return "", err
		}

		switch status.Status {
		case "completed":
			return status.Result, nil
		case "failed":
			detail := status.Error
			if detail == "" {
				detail = "unknown remote error"
			}
			return "", newError(KindMalformedResponse, "remote execution failed: "+detail)
		default:
			// pending, running, or an unknown state: keep waiting.
		}

		c.sleep(c.cfg.PollInterval)
	}

	return "", newError(KindTimeout, fmt.Sprintf("remote execution did not complete within %s", c.cfg.PollTimeout))
}

// doJSON issues one request and decodes a JSON response into out.
func (c *APIClient) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return wrapError(KindConnectivity, "failed to build request", err)
	}
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return wrapError(KindConnectivity, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(KindConnectivity, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(KindConnectivity, fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return wrapError(KindMalformedResponse, "failed to decode response body", err)
	}
	return nil
}

// statusURLFor derives the status endpoint from the kickoff endpoint.
// A trailing "/kickoff" segment becomes "/kickoffs/<id>"; other endpoints get
// the job path appended.
func statusURLFor(kickoffURL, kickoffID string) string {
	if strings.HasSuffix(kickoffURL, "/kickoff") {
		return strings.TrimSuffix(kickoffURL, "/kickoff") + "/kickoffs/" + kickoffID
	}
	return strings.TrimSuffix(kickoffURL, "/") + "/kickoffs/" + kickoffID
}
