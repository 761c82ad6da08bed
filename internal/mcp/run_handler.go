package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/rag-testkit/internal/config"
	"github.com/giantswarm/rag-testkit/internal/server"
	"github.com/giantswarm/rag-testkit/internal/suite"
)

// settingsForRequest clones the server settings and applies per-call
// overrides from the tool arguments.
func settingsForRequest(sc *server.ServerContext, args map[string]any) *config.Settings {
	settings := *sc.Settings

	if mode, ok := args["mode"].(string); ok && mode != "" {
		settings.Mode = mode
	}
	if description, ok := args["description"].(string); ok && description != "" {
		settings.Description = description
	}
	if n, ok := args["num_tests"].(float64); ok && n > 0 {
		settings.Generation.NumTests = int(n)
	}
	if threshold, ok := args["pass_threshold"].(float64); ok && threshold > 0 {
		settings.Execution.PassThreshold = threshold
	}
	if retries, ok := args["max_retries"].(float64); ok && retries >= 0 {
		v := int(retries)
		settings.Execution.MaxRetries = &v
	}
	if casesCSV, ok := args["cases_csv"].(string); ok && casesCSV != "" {
		settings.Execution.CasesCSV = casesCSV
	}
	return &settings
}

func handleRunTestSuite(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.LLMClient == nil {
		return mcp.NewToolResultError("LLM client is not configured"), nil
	}

	settings := settingsForRequest(sc, request.GetArguments())

	mode := settings.RunMode()
	if !mode.RequiresExecution() {
		return mcp.NewToolResultError(fmt.Sprintf("mode %q does not execute tests; use generate_tests or suggest_prompts instead", mode)), nil
	}
	if mode == suite.ModeExecuteOnly && settings.Execution.CasesCSV == "" {
		return mcp.NewToolResultError("cases_csv is required for execute_only mode"), nil
	}

	controller, err := server.BuildController(settings, sc.LLMClient, sc.Runner)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build test run: %v", err)), nil
	}

	state, err := controller.Run(ctx, server.RunConfig(settings))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("test run failed: %v", err)), nil
	}

	summary := map[string]any{
		"mode":                    state.Mode,
		"total":                   state.Stats.Total,
		"passed":                  state.Stats.Passed,
		"pass_rate":               state.Stats.PassRate,
		"quality_failures":        state.Stats.QualityFailures,
		"infrastructure_failures": state.Stats.InfraFailures,
		"category_breakdown":      state.Stats.Categories,
		"duration":                state.Duration.String(),
		"report":                  state.Report,
	}
	if state.OutputDir != "" {
		summary["output_dir"] = state.OutputDir
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
