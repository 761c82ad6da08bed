package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/rag-testkit/internal/server"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

func handleGenerateTests(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.LLMClient == nil {
		return mcp.NewToolResultError("LLM client is not configured"), nil
	}

	settings := settingsForRequest(sc, request.GetArguments())
	settings.Mode = string(suite.ModeGenerateOnly)

	controller, err := server.BuildController(settings, sc.LLMClient, sc.Runner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build test run: %v", err)), nil
	}

	state, err := controller.Run(ctx, server.RunConfig(settings))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("test generation failed: %v", err)), nil
	}

	output := map[string]any{
		"rag_summary": state.Summary,
		"test_cases":  state.Cases,
	}
	if state.OutputDir != "" {
		output["output_dir"] = state.OutputDir
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal test cases: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
