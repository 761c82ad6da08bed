package flow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/giantswarm/rag-testkit/internal/suite"
)

// writeArtifacts writes the run's outputs into a fresh per-run directory
// named <mode>_<timestamp> under outputDir.
func writeArtifacts(state *RunState, outputDir string) error {
	runID := fmt.Sprintf("%s_%s", state.Mode, state.StartedAt.Format("20060102-150405"))
	outputPath := filepath.Join(outputDir, runID)
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	state.OutputDir = outputPath

	if len(state.Cases) > 0 {
		if err := suite.WriteCases(filepath.Join(outputPath, "test_cases.csv"), state.Cases); err != nil {
			return err
		}
	}

	if state.Report != "" {
		if err := os.WriteFile(filepath.Join(outputPath, "report.md"), []byte(state.Report), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	metadata := map[string]any{
		"mode":               state.Mode,
		"started_at":         state.StartedAt,
		"duration_seconds":   state.Duration.Seconds(),
		"test_cases":         len(state.Cases),
		"stats":              state.Stats,
		"rag_summary":        state.Summary,
		"prompt_suggestions": state.Suggestions,
	}
	data, err := json.MarshalIndent(metadata, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputPath, "run.json"), data, 0o644)
}
