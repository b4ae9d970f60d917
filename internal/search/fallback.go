package search

import (
	"context"
	"strings"

	"erpdesk/internal/document"
)

// StoreSearcher answers queries with the store's substring match. It is used
// when no index is configured or the index is unreachable.
type StoreSearcher struct {
	source Source
}

func NewStoreSearcher(source Source) *StoreSearcher {
	return &StoreSearcher{source: source}
}

func (s *StoreSearcher) Search(ctx context.Context, q Query) ([]document.Document, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	items, err := s.source.SearchDocuments(ctx, q.Text, limit)
	if err != nil {
		return nil, err
	}
	if q.Status == "" {
		return items, nil
	}
	filtered := make([]document.Document, 0, len(items))
	for _, item := range items {
		if item.Status == q.Status {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}
