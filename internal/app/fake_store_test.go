package app

import (
	"context"
	"database/sql"

	"erpdesk/internal/config"
	"erpdesk/internal/document"
	"erpdesk/internal/logger"
)

type fakeStore struct {
	listDocumentsFn          func(context.Context) ([]document.Document, error)
	getDocumentFn            func(context.Context, string) (document.Document, error)
	insertDocumentFn         func(context.Context, document.Document) error
	updateDocumentStatusFn   func(context.Context, string, document.Status) error
	updateDocumentAssigneeFn func(context.Context, string, string) error
	searchDocumentsFn        func(context.Context, string, int) ([]document.Document, error)
	listInboxItemsFn         func(context.Context) ([]document.InboxItem, error)
	insertInboxItemFn        func(context.Context, document.InboxItem) error
	pingFn                   func(context.Context) error
}

func (f *fakeStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	if f.listDocumentsFn != nil {
		return f.listDocumentsFn(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetDocument(ctx context.Context, id string) (document.Document, error) {
	if f.getDocumentFn != nil {
		return f.getDocumentFn(ctx, id)
	}
	return document.Document{}, sql.ErrNoRows
}

func (f *fakeStore) InsertDocument(ctx context.Context, item document.Document) error {
	if f.insertDocumentFn != nil {
		return f.insertDocumentFn(ctx, item)
	}
	return nil
}

func (f *fakeStore) UpdateDocumentStatus(ctx context.Context, id string, status document.Status) error {
	if f.updateDocumentStatusFn != nil {
		return f.updateDocumentStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeStore) UpdateDocumentAssignee(ctx context.Context, id, assignee string) error {
	if f.updateDocumentAssigneeFn != nil {
		return f.updateDocumentAssigneeFn(ctx, id, assignee)
	}
	return nil
}

func (f *fakeStore) SearchDocuments(ctx context.Context, query string, limit int) ([]document.Document, error) {
	if f.searchDocumentsFn != nil {
		return f.searchDocumentsFn(ctx, query, limit)
	}
	return nil, nil
}

func (f *fakeStore) ListInboxItems(ctx context.Context) ([]document.InboxItem, error) {
	if f.listInboxItemsFn != nil {
		return f.listInboxItemsFn(ctx)
	}
	return nil, nil
}

func (f *fakeStore) InsertInboxItem(ctx context.Context, item document.InboxItem) error {
	if f.insertInboxItemFn != nil {
		return f.insertInboxItemFn(ctx, item)
	}
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func newTestService(store DataStore) *Service {
	return New(config.Config{}, store, nil, logger.NewNop())
}

func newTestServer(store DataStore) *HTTPServer {
	return NewHTTPServer(newTestService(store), "*", logger.NewNop())
}

func validDraft() document.Draft {
	return document.Draft{
		Title:             "Invoice A",
		Type:              document.TypeInvoice,
		DocumentNumber:    "INV-001",
		IssueDate:         "2024-01-01",
		IssuingEntity:     "Ministry",
		ReceiptDate:       "2024-01-02",
		ResponsiblePerson: "A. Ali",
		Content:           "<p>body</p>",
	}
}
