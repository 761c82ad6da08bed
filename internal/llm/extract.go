package llm

import "strings"

// ExtractJSONObject returns the first top-level JSON object embedded in a
// completion, or "" when none is present. Models wrap JSON in markdown
// fences or surrounding prose, so the object is located by its braces
// rather than decoded directly.
func ExtractJSONObject(text string) string {
	return extractDelimited(stripFences(text), "{", "}")
}

// ExtractJSONArray returns the first top-level JSON array embedded in a
// completion, or "" when none is present.
func ExtractJSONArray(text string) string {
	return extractDelimited(stripFences(text), "[", "]")
}

func stripFences(text string) string {
	if idx := strings.Index(text, "```json"); idx != -1 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end != -1 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx != -1 {
		text = text[idx+3:]
		if end := strings.Index(text, "```"); end != -1 {
			text = text[:end]
		}
	}
	return text
}

func extractDelimited(text, left, right string) string {
	start := strings.Index(text, left)
	end := strings.LastIndex(text, right)
	if start == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
