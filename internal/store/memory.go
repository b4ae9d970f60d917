package store

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"erpdesk/internal/document"
)

// MemoryStore keeps documents and inbox items in process. It follows the
// same contract as PostgresStore, including sql.ErrNoRows for unknown ids.
type MemoryStore struct {
	mu        sync.RWMutex
	order     []string
	documents map[string]document.Document
	inbox     []document.InboxItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{documents: make(map[string]document.Document)}
}

func (s *MemoryStore) ListDocuments(context.Context) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]document.Document, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.documents[id])
	}
	return items, nil
}

func (s *MemoryStore) GetDocument(_ context.Context, documentID string) (document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.documents[documentID]
	if !ok {
		return document.Document{}, sql.ErrNoRows
	}
	return item, nil
}

func (s *MemoryStore) InsertDocument(_ context.Context, item document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Status == "" {
		item.Status = document.StatusPending
	}
	if _, exists := s.documents[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.documents[item.ID] = item
	return nil
}

func (s *MemoryStore) UpdateDocumentStatus(_ context.Context, documentID string, status document.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.documents[documentID]
	if !ok {
		return sql.ErrNoRows
	}
	item.Status = status
	s.documents[documentID] = item
	return nil
}

func (s *MemoryStore) UpdateDocumentAssignee(_ context.Context, documentID, assignee string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.documents[documentID]
	if !ok {
		return sql.ErrNoRows
	}
	item.Assignee = assignee
	s.documents[documentID] = item
	return nil
}

func (s *MemoryStore) SearchDocuments(_ context.Context, query string, limit int) ([]document.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]document.Document, 0)
	for _, id := range s.order {
		item := s.documents[id]
		haystack := strings.ToLower(item.Title + "\n" + item.DocumentNumber + "\n" + item.IssuingEntity)
		if strings.Contains(haystack, needle) {
			items = append(items, item)
		}
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

// ListInboxItems returns the newest received items first.
func (s *MemoryStore) ListInboxItems(context.Context) ([]document.InboxItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]document.InboxItem, len(s.inbox))
	copy(items, s.inbox)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ReceivedDate > items[j].ReceivedDate
	})
	return items, nil
}

func (s *MemoryStore) InsertInboxItem(_ context.Context, item document.InboxItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.inbox {
		if existing.ID == item.ID {
			return nil
		}
	}
	s.inbox = append(s.inbox, item)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
