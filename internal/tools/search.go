package tools

import (
	"context"

	"github.com/sharunashwanth/mittai-agent/internal/observability"
	"github.com/sharunashwanth/mittai-agent/internal/search"
)

// WebSearchTool searches the web and returns the top results as
// {title, snippet, link} records.
func WebSearchTool(c *search.Client, m *observability.Metrics) Tool {
	return Tool{
		Name:        "web_search",
		Description: "Search the web. Use this for general knowledge questions and facts not present in the conversation.",
		Parameters: objectSchema(map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
		}, "query"),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			query := stringArg(args, "query")
			if query == "" {
				return map[string]any{"error": "query is required"}, nil
			}
			results, err := c.Search(ctx, query)
			if err != nil {
				countProviderError(m, "serpapi")
				return map[string]any{"error": err.Error()}, nil
			}
			return map[string]any{
				"results": results,
				"count":   len(results),
			}, nil
		},
	}
}
