package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.csv")

	content := `id,question,expected_answer,category,difficulty,rationale
T-001,What is a node pool?,A group of nodes sharing a configuration.,factual,easy,Baseline retrieval
T-002,"Why would autoscaling fail, and how to debug it?",Check the autoscaler events.,reasoning,hard,Multi-step reasoning
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "T-001", cases[0].ID)
	assert.Equal(t, CategoryFactual, cases[0].Category)
	assert.Equal(t, DifficultyEasy, cases[0].Difficulty)
	assert.Equal(t, "Why would autoscaling fail, and how to debug it?", cases[1].Question)
	assert.Equal(t, CategoryReasoning, cases[1].Category)
}

func TestLoadCasesDefaultsAndFallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.csv")

	// No category/difficulty/rationale columns, and one empty id.
	content := `id,question,expected_answer
,What is X?,X is Y.
T-2,What is Z?,Z is W.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "CSV-001", cases[0].ID)
	assert.Equal(t, CategoryFactual, cases[0].Category)
	assert.Equal(t, DifficultyMedium, cases[0].Difficulty)
	assert.Equal(t, "Loaded from CSV", cases[0].Rationale)
}

func TestLoadCasesUnknownCategory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.csv")

	content := `id,question,expected_answer,category,difficulty,rationale
T-1,Q,A,weird,impossible,r
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cases, err := LoadCases(path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, CategoryFactual, cases[0].Category)
	assert.Equal(t, DifficultyMedium, cases[0].Difficulty)
}

func TestLoadCasesMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.csv")

	content := `id,question
T-1,Q
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadCases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected_answer")
}

func TestWriteCasesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	in := []TestCase{
		{ID: "G-001", Question: "Q1", ExpectedAnswer: "A1", Category: CategoryEdgeCase, Difficulty: DifficultyHard, Rationale: "boundary"},
		{ID: "G-002", Question: "Q2, with comma", ExpectedAnswer: "A2", Category: CategoryAmbiguous, Difficulty: DifficultyEasy, Rationale: "ambiguity"},
	}

	require.NoError(t, WriteCases(path, in))

	out, err := LoadCases(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseRunMode(t *testing.T) {
	assert.Equal(t, ModeFull, ParseRunMode("full"))
	assert.Equal(t, ModePromptOnly, ParseRunMode("prompt_only"))
	assert.Equal(t, ModeFull, ParseRunMode("generate_and_execute"))
	assert.Equal(t, ModeFull, ParseRunMode("nonsense"))
	assert.True(t, ModeExecuteOnly.RequiresExecution())
	assert.False(t, ModeGenerateOnly.RequiresExecution())
}
