package suite

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// csvColumns is the canonical column order for test case CSV files.
var csvColumns = []string{"id", "question", "expected_answer", "category", "difficulty", "rationale"}

// LoadCases reads test cases from a CSV file. The header must contain at
// least the id, question and expected_answer columns; category, difficulty
// and rationale are optional and fall back to defaults when absent.
func LoadCases(path string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test case file: %w", err)
	}
	defer f.Close()

	cases, err := readCases(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases from %s: %w", path, err)
	}
	return cases, nil
}

func readCases(r io.Reader) ([]TestCase, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts.

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, required := range []string{"id", "question", "expected_answer"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required CSV column: %s", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var cases []TestCase
	for lineNum := 2; ; lineNum++ { // lineNum starts at 2 (1-indexed, after header).
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum, err)
		}

		id := field(record, "id")
		if id == "" {
			id = fmt.Sprintf("CSV-%03d", len(cases)+1)
		}
		rationale := field(record, "rationale")
		if rationale == "" {
			rationale = "Loaded from CSV"
		}

		cases = append(cases, TestCase{
			ID:             id,
			Question:       field(record, "question"),
			ExpectedAnswer: field(record, "expected_answer"),
			Category:       ParseCategory(field(record, "category")),
			Difficulty:     ParseDifficulty(field(record, "difficulty")),
			Rationale:      rationale,
		})
	}

	return cases, nil
}

// WriteCases writes test cases as CSV in the canonical column order.
func WriteCases(path string, cases []TestCase) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create test case file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, c := range cases {
		record := []string{
			c.ID,
			c.Question,
			c.ExpectedAnswer,
			string(c.Category),
			string(c.Difficulty),
			c.Rationale,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write test case %s: %w", c.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
