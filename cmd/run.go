package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/rag-testkit/internal/server"
)

func newRunCmd() *cobra.Command {
	var (
		mode          string
		description   string
		targetName    string
		kickoffURL    string
		casesCSV      string
		numTests      int
		passThreshold float64
		maxRetries    int
		outputDir     string
		endpoint      string
		apiKey        string
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a quality test suite against a RAG assistant",
		Long: `Run the test suite: discover the knowledge base, generate test cases,
execute them against the target assistant, judge the answers and write a
quality report.

The run mode controls which phases execute:
  full          discover, generate, execute and report (default)
  prompt_only   discover and suggest prompts, no tests
  generate_only discover and generate test cases, no execution
  execute_only  execute cases from a CSV, no generation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			configPath, _ := cmd.Flags().GetString("config")
			settings, err := loadSettings(configPath)
			if err != nil {
				return err
			}

			// Flag overrides.
			if mode != "" {
				settings.Mode = mode
			}
			if description != "" {
				settings.Description = description
			}
			if targetName != "" {
				settings.Target.Name = targetName
			}
			if kickoffURL != "" {
				settings.Target.KickoffURL = kickoffURL
			}
			if casesCSV != "" {
				settings.Execution.CasesCSV = casesCSV
			}
			if numTests > 0 {
				settings.Generation.NumTests = numTests
			}
			if cmd.Flags().Changed("pass-threshold") {
				settings.Execution.PassThreshold = passThreshold
			}
			if cmd.Flags().Changed("max-retries") {
				settings.Execution.MaxRetries = &maxRetries
			}
			if cmd.Flags().Changed("output-dir") {
				settings.OutputDir = outputDir
			}

			client := newLLMClient(settings, endpoint, apiKey)

			controller, err := server.BuildController(settings, client, nil)
			if err != nil {
				return err
			}

			fmt.Printf("Target: %s\n", settings.Target.Name)
			fmt.Printf("Mode: %s\n", settings.RunMode())
			fmt.Println()

			state, err := controller.Run(ctx, server.RunConfig(settings))
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}

			fmt.Println()
			switch {
			case state.Report != "":
				fmt.Println(state.Report)
			case len(state.Cases) > 0:
				fmt.Printf("Generated %d test cases.\n", len(state.Cases))
			default:
				fmt.Printf("Suggested role: %s\n", state.Suggestions.AgentRole)
				fmt.Printf("Suggested system prompt:\n%s\n", state.Suggestions.SystemPrompt)
			}
			if state.OutputDir != "" {
				fmt.Printf("\nArtifacts written to %s\n", state.OutputDir)
			}
			fmt.Printf("Duration: %s\n", state.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Run mode: full, prompt_only, generate_only or execute_only")
	cmd.Flags().StringVar(&description, "description", "", "Description of the assistant under test")
	cmd.Flags().StringVar(&targetName, "target-name", "", "Name of the target assistant (labels the report)")
	cmd.Flags().StringVar(&kickoffURL, "kickoff-url", "", "Remote kickoff endpoint of the target assistant")
	cmd.Flags().StringVar(&casesCSV, "cases-csv", "", "Test case CSV for execute_only mode")
	cmd.Flags().IntVar(&numTests, "num-tests", 0, "Number of test cases to generate")
	cmd.Flags().Float64Var(&passThreshold, "pass-threshold", 0, "Minimum judge score required to pass (0-1)")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "Retries per failed test case")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for run artifacts")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "LLM API endpoint URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or set OPENAI_API_KEY)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall timeout for the run (e.g. 30m). 0 means no timeout")

	return cmd
}
