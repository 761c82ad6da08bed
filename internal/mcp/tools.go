// Package mcp exposes the testkit as MCP tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/rag-testkit/internal/server"
)

// RegisterTools registers all MCP tools with the server.
func RegisterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	runTool := mcp.NewTool("run_test_suite",
		mcp.WithDescription("Run a quality test suite against the configured RAG assistant and return the aggregated results"),
		mcp.WithString("mode",
			mcp.Description("Run mode: 'full' (generate and execute) or 'execute_only' (cases from CSV). Default: full"),
		),
		mcp.WithString("description",
			mcp.Description("Description of the assistant under test (overrides server config)"),
		),
		mcp.WithNumber("num_tests",
			mcp.Description("Number of test cases to generate (default: from server config)"),
		),
		mcp.WithNumber("pass_threshold",
			mcp.Description("Minimum judge score required to pass, 0-1 (default: from server config)"),
		),
		mcp.WithNumber("max_retries",
			mcp.Description("Retries per failed test case (default: from server config)"),
		),
		mcp.WithString("cases_csv",
			mcp.Description("Path to a test case CSV; required for execute_only mode"),
		),
	)
	s.AddTool(runTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRunTestSuite(ctx, request, sc)
	})

	generateTool := mcp.NewTool("generate_tests",
		mcp.WithDescription("Discover the knowledge base and generate test cases without executing them"),
		mcp.WithString("description",
			mcp.Description("Description of the assistant under test (overrides server config)"),
		),
		mcp.WithNumber("num_tests",
			mcp.Description("Number of test cases to generate (default: from server config)"),
		),
	)
	s.AddTool(generateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGenerateTests(ctx, request, sc)
	})

	promptTool := mcp.NewTool("suggest_prompts",
		mcp.WithDescription("Discover the knowledge base and suggest agent configuration and prompts for it"),
		mcp.WithString("description",
			mcp.Description("Description of the assistant under test (overrides server config)"),
		),
	)
	s.AddTool(promptTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSuggestPrompts(ctx, request, sc)
	})

	return nil
}
