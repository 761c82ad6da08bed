package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultRESTTimeout = 30 * time.Second

// RESTConfig configures the plain-HTTP knowledge backend.
type RESTConfig struct {
	// URL of the retrieval endpoint.
	URL string
	// Token is sent as a bearer token when non-empty.
	Token string
	// Timeout for one retrieval request.
	Timeout time.Duration
}

// RESTClient queries a retrieval endpoint that speaks plain JSON over HTTP:
// POST {"query": ..., "top_k": ...} returning a ranked snippet list.
type RESTClient struct {
	cfg        RESTConfig
	httpClient *http.Client
}

// NewRESTClient creates a client for the given retrieval endpoint.
func NewRESTClient(cfg RESTConfig) *RESTClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRESTTimeout
	}
	return &RESTClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type restQueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type restSnippet struct {
	Text   string  `json:"text"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

type restQueryResponse struct {
	Results []restSnippet `json:"results"`
}

// Query posts the search to the retrieval endpoint and formats the snippets.
func (c *RESTClient) Query(ctx context.Context, query string, limit int) (string, error) {
	body, err := json.Marshal(restQueryRequest{Query: query, TopK: limit})
	if err != nil {
		return "", fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("retrieval request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("retrieval endpoint returned status %d", resp.StatusCode)
	}

	var decoded restQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode retrieval response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return "No results found", nil
	}

	parts := make([]string, 0, len(decoded.Results))
	for _, s := range decoded.Results {
		var b strings.Builder
		fmt.Fprintf(&b, "[Score: %.3f]", s.Score)
		if s.Source != "" {
			fmt.Fprintf(&b, " [Source: %s]", s.Source)
		}
		fmt.Fprintf(&b, "\n%s", s.Text)
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n---\n\n"), nil
}
