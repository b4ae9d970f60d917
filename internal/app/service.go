package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"erpdesk/internal/auth"
	"erpdesk/internal/config"
	"erpdesk/internal/document"
	"erpdesk/internal/logger"
	"erpdesk/internal/rbac"
	"erpdesk/internal/search"
	"erpdesk/internal/util"
)

// Session is the authenticated operator behind a request.
type Session struct {
	Subject string
	Name    string
	Role    rbac.Role
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}

type AssignInput struct {
	Assignee string `json:"assignee" validate:"required,max=200"`
}

// DataStore is the persistence the service needs. store.PostgresStore and
// store.MemoryStore implement it.
type DataStore interface {
	ListDocuments(context.Context) ([]document.Document, error)
	GetDocument(context.Context, string) (document.Document, error)
	InsertDocument(context.Context, document.Document) error
	UpdateDocumentStatus(context.Context, string, document.Status) error
	UpdateDocumentAssignee(context.Context, string, string) error
	SearchDocuments(context.Context, string, int) ([]document.Document, error)
	ListInboxItems(context.Context) ([]document.InboxItem, error)
	InsertInboxItem(context.Context, document.InboxItem) error
	Ping(context.Context) error
}

type Service struct {
	cfg      config.Config
	store    DataStore
	search   *search.Service
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

// New wires the service. searchService may be nil, in which case searches go
// straight to the store.
func New(cfg config.Config, store DataStore, searchService *search.Service, log *logger.Logger) *Service {
	log = logger.OrNop(log)
	if searchService == nil {
		searchService = search.NewService(nil, store, log)
	}
	return &Service{
		cfg:      cfg,
		store:    store,
		search:   searchService,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Bootstrap seeds the inbox when it is empty and pushes existing documents to
// the search index.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.cfg.SeedInbox {
		items, err := s.store.ListInboxItems(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			for _, seed := range inboxSeeds(s.now()) {
				if err := s.store.InsertInboxItem(ctx, seed); err != nil {
					return err
				}
			}
			s.log.Infow("inbox seeded", "count", len(inboxSeeds(s.now())))
		}
	}

	documents, err := s.store.ListDocuments(ctx)
	if err != nil {
		return err
	}
	s.search.Reindex(documents)
	return nil
}

func inboxSeeds(now time.Time) []document.InboxItem {
	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format(document.DateLayout)
	}
	return []document.InboxItem{
		{ID: "inbox-1001", Title: "Supplier invoice batch for March", Sender: "Northwind Supplies", ReceivedDate: day(1)},
		{ID: "inbox-1002", Title: "Annual audit report draft", Sender: "Finance Directorate", ReceivedDate: day(3)},
		{ID: "inbox-1003", Title: "Maintenance contract renewal", Sender: "Facilities Unit", ReceivedDate: day(6)},
	}
}

func (s *Service) ListDocuments(ctx context.Context) ([]document.Document, error) {
	return s.store.ListDocuments(ctx)
}

func (s *Service) SearchDocuments(ctx context.Context, query, status string) search.Response {
	return s.search.Search(ctx, search.Query{Text: query, Status: document.Status(status), Limit: 50})
}

func (s *Service) GetDocument(ctx context.Context, documentID string) (document.Document, error) {
	return s.store.GetDocument(ctx, documentID)
}

// CreateDocument validates the draft and stores it as a pending document.
func (s *Service) CreateDocument(ctx context.Context, session Session, draft document.Draft) (document.Document, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return document.Document{}, domainErrorFrom(err)
	}

	item := draft.NewDocument(util.NewID("doc"))
	if err := s.store.InsertDocument(ctx, item); err != nil {
		return document.Document{}, err
	}
	created, err := s.store.GetDocument(ctx, item.ID)
	if err != nil {
		return document.Document{}, err
	}
	s.search.IndexDocument(created)
	s.log.Infow("document created", "document_id", created.ID, "type", created.Type, "operator", session.Name)
	return created, nil
}

// UpdateStatus applies a status change. Repeating the current status is a
// no-op; leaving archived is rejected.
func (s *Service) UpdateStatus(ctx context.Context, session Session, documentID string, input UpdateStatusInput) (document.Document, error) {
	target := document.Status(strings.ToLower(strings.TrimSpace(input.Status)))
	if target != document.StatusPending && target != document.StatusArchived {
		return document.Document{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status must be pending or archived", map[string]any{"fields": []string{"status"}})
	}

	current, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}
	next, err := current.Status.Transition(target)
	if err != nil {
		return document.Document{}, domainErrorFrom(err)
	}
	if next == current.Status {
		return current, nil
	}

	if err := s.store.UpdateDocumentStatus(ctx, documentID, next); err != nil {
		return document.Document{}, err
	}
	updated, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}
	s.search.IndexDocument(updated)
	s.log.Infow("document status changed", "document_id", documentID, "from", current.Status, "to", next, "operator", session.Name)
	return updated, nil
}

// AssignDocument sets or overwrites the assignee in any status.
func (s *Service) AssignDocument(ctx context.Context, session Session, documentID string, input AssignInput) (document.Document, error) {
	input.Assignee = strings.TrimSpace(input.Assignee)
	if err := s.validate.Struct(input); err != nil {
		return document.Document{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "assignee is required", map[string]any{"fields": []string{"assignee"}})
	}

	if err := s.store.UpdateDocumentAssignee(ctx, documentID, input.Assignee); err != nil {
		return document.Document{}, err
	}
	updated, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return document.Document{}, err
	}
	s.search.IndexDocument(updated)
	s.log.Infow("document assigned", "document_id", documentID, "assignee", input.Assignee, "operator", session.Name)
	return updated, nil
}

func (s *Service) TrackDocument(ctx context.Context, documentID string) (document.TrackInfo, error) {
	item, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return document.TrackInfo{}, err
	}
	return document.TrackInfo{Status: string(item.Status)}, nil
}

func (s *Service) ListInbox(ctx context.Context) ([]document.InboxItem, error) {
	return s.store.ListInboxItems(ctx)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// AuthRequired reports whether requests must carry a bearer token.
func (s *Service) AuthRequired() bool {
	return strings.TrimSpace(s.cfg.AuthSecret) != ""
}

// SessionFromToken resolves a bearer token. Without a configured secret every
// caller is an administrator.
func (s *Service) SessionFromToken(token string) (Session, error) {
	if !s.AuthRequired() {
		return Session{Subject: "anonymous", Name: "anonymous", Role: rbac.RoleAdmin}, nil
	}
	claims, err := auth.ParseToken([]byte(s.cfg.AuthSecret), token)
	if err != nil {
		return Session{}, err
	}
	return Session{Subject: claims.Sub, Name: claims.Name, Role: rbac.Normalize(claims.Role)}, nil
}
