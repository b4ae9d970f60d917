package search

import (
	"context"
	"database/sql"
	"errors"

	"erpdesk/internal/document"
	"erpdesk/internal/logger"
)

const (
	EngineMeili = "meilisearch"
	EngineStore = "store"
)

// Service is the facade that tries Meilisearch first and falls back to the
// store's substring search.
type Service struct {
	meili    *Meili
	source   Source
	fallback *StoreSearcher
	log      *logger.Logger
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, source Source, log *logger.Logger) *Service {
	return &Service{
		meili:    meili,
		source:   source,
		fallback: NewStoreSearcher(source),
		log:      logger.OrNop(log),
	}
}

func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, err := s.searchIndex(ctx, q)
		if err == nil {
			return Response{Results: results, Total: len(results), Query: q.Text, Engine: EngineMeili}
		}
		s.log.Warnw("meilisearch error, falling back to store", "error", err)
	}

	results, err := s.fallback.Search(ctx, q)
	if err != nil {
		s.log.Errorw("store search failed", "error", err)
		return Response{Results: []document.Document{}, Query: q.Text, Engine: EngineStore}
	}
	return Response{Results: nonNil(results), Total: len(results), Query: q.Text, Engine: EngineStore}
}

// searchIndex resolves index hits against the store, which stays the source
// of truth. Hits for ids the store no longer knows are skipped.
func (s *Service) searchIndex(ctx context.Context, q Query) ([]document.Document, error) {
	ids, _, err := s.meili.Search(q)
	if err != nil {
		return nil, err
	}
	results := make([]document.Document, 0, len(ids))
	for _, id := range ids {
		item, err := s.source.GetDocument(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if q.Status != "" && item.Status != q.Status {
			continue
		}
		results = append(results, item)
	}
	return results, nil
}

// IndexDocument pushes a document to Meilisearch without blocking the caller.
func (s *Service) IndexDocument(item document.Document) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	record := RecordFor(item)
	go func() {
		if err := s.meili.Index(record); err != nil {
			s.log.Warnw("index document", "document_id", record.ID, "error", err)
		}
	}()
}

// Reindex pushes every document to Meilisearch. Called during bootstrap.
func (s *Service) Reindex(items []document.Document) {
	if s.meili == nil || !s.meili.Healthy() || len(items) == 0 {
		return
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, RecordFor(item))
	}
	if err := s.meili.Index(records...); err != nil {
		s.log.Warnw("reindex documents", "count", len(records), "error", err)
	}
}

func nonNil(r []document.Document) []document.Document {
	if r == nil {
		return []document.Document{}
	}
	return r
}
