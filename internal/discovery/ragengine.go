package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// ragQueryTool is the tool exposed by RAG Engine MCP servers.
const ragQueryTool = "query_rag"

// Result formatting limits. Retrieved chunks feed straight into LLM prompts,
// so oversized results cause context overflow and repetition loops.
const (
	maxFormattedChunks = 3
	maxChunkChars      = 500
	maxRawResultChars  = 1000
)

// RagEngineConfig configures the MCP-based knowledge backend.
type RagEngineConfig struct {
	// URL of the RAG Engine MCP server (streamable HTTP endpoint).
	URL string
	// Token is sent as a bearer token when non-empty.
	Token string
	// Corpus is the corpus path passed to every query.
	Corpus string
}

// RagEngineClient queries a RAG Engine through its MCP server. The MCP
// session is established lazily on first use and reused afterwards.
type RagEngineClient struct {
	cfg RagEngineConfig

	mu     sync.Mutex
	client *client.Client
}

// NewRagEngineClient creates a client for the given MCP server.
func NewRagEngineClient(cfg RagEngineConfig) *RagEngineClient {
	return &RagEngineClient{cfg: cfg}
}

// connect establishes the MCP session if not already connected.
func (c *RagEngineClient) connect(ctx context.Context) (*client.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	var opts []transport.StreamableHTTPCOption
	if c.cfg.Token != "" {
		opts = append(opts, transport.WithHTTPHeaders(map[string]string{
			"Authorization": "Bearer " + c.cfg.Token,
		}))
	}

	mcpClient, err := client.NewStreamableHttpClient(c.cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	_, err = mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo: mcp.Implementation{
				Name:    "rag-testkit",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	c.client = mcpClient
	return c.client, nil
}

// Close shuts down the MCP session.
func (c *RagEngineClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Query calls the server's query_rag tool and formats the retrieved chunks.
func (c *RagEngineClient) Query(ctx context.Context, query string, limit int) (string, error) {
	mcpClient, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	result, err := mcpClient.CallTool(ctx, mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name: ragQueryTool,
			Arguments: map[string]any{
				"query":       query,
				"corpus_name": c.cfg.Corpus,
				"max_results": limit,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("query_rag call failed: %w", err)
	}

	text := textContent(result)
	if result.IsError {
		return "", fmt.Errorf("query_rag returned an error: %s", text)
	}
	return formatRagResults(text, query), nil
}

// textContent joins the text parts of a tool result.
func textContent(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ragChunk is one retrieved chunk as returned by the query_rag tool.
type ragChunk struct {
	Rank           int     `json:"rank"`
	Text           string  `json:"text"`
	SourceURI      string  `json:"source_uri"`
	RelevanceScore float64 `json:"relevance_score"`
}

type ragResult struct {
	Success bool       `json:"success"`
	Error   string     `json:"error"`
	Chunks  []ragChunk `json:"chunks"`
}

// formatRagResults renders the tool's JSON payload as readable markdown,
// truncating chunks to keep the output prompt-sized. Non-JSON payloads are
// passed through truncated.
func formatRagResults(raw, query string) string {
	var parsed ragResult
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		if len(raw) > maxRawResultChars {
			raw = raw[:maxRawResultChars]
		}
		return fmt.Sprintf("## Search Results\n\n%s", raw)
	}

	if !parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = "unknown error"
		}
		return "RAG Error: " + msg
	}
	if len(parsed.Chunks) == 0 {
		return "No results found"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Search Results for: %s\n\n", query)
	fmt.Fprintf(&b, "Found %d relevant results.\n\n", len(parsed.Chunks))

	for i, chunk := range parsed.Chunks {
		if i == maxFormattedChunks {
			break
		}
		text := chunk.Text
		if len(text) > maxChunkChars {
			text = text[:maxChunkChars] + "..."
		}
		fmt.Fprintf(&b, "### Result %d\n", chunk.Rank)
		fmt.Fprintf(&b, "**Source:** %s\n", chunk.SourceURI)
		fmt.Fprintf(&b, "**Relevance:** %.2f\n", chunk.RelevanceScore)
		fmt.Fprintf(&b, "**Content:**\n%s\n\n", text)
	}
	return b.String()
}
