package search

import "context"

type Service interface {
	// Search looks up recent web resources for the given keywords.
	Search(ctx context.Context, keywords []string) ([]Resource, error)
}

// Resource is a generic search result
type Resource struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Noop is used when search is disabled.
type Noop struct{}

func (Noop) Search(context.Context, []string) ([]Resource, error) {
	return nil, nil
}
