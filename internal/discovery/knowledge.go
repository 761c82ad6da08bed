// Package discovery probes the knowledge base behind the target assistant
// and maps its coverage into a domain summary.
package discovery

import "context"

// KnowledgeClient retrieves relevant snippets from the knowledge base backing
// the target assistant. Implementations return formatted text suitable for
// feeding into an LLM prompt.
type KnowledgeClient interface {
	Query(ctx context.Context, query string, limit int) (string, error)
}
