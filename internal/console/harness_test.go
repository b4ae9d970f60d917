package console

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"erpdesk/internal/app"
	"erpdesk/internal/client"
	"erpdesk/internal/config"
	"erpdesk/internal/document"
	"erpdesk/internal/editor"
	"erpdesk/internal/printing"
	"erpdesk/internal/store"
)

// countingStore wraps the real client and lets tests fail or count calls.
type countingStore struct {
	DocumentStore
	updateStatusCalls atomic.Int32
	listCalls         atomic.Int32
	createDocumentFn  func(context.Context, document.Draft) (document.Document, error)
	listInboxFn       func(context.Context) ([]document.InboxItem, error)
}

func (s *countingStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	s.listCalls.Add(1)
	return s.DocumentStore.ListDocuments(ctx)
}

func (s *countingStore) CreateDocument(ctx context.Context, draft document.Draft) (document.Document, error) {
	if s.createDocumentFn != nil {
		return s.createDocumentFn(ctx, draft)
	}
	return s.DocumentStore.CreateDocument(ctx, draft)
}

func (s *countingStore) UpdateStatus(ctx context.Context, id string, status document.Status) (document.Document, error) {
	s.updateStatusCalls.Add(1)
	return s.DocumentStore.UpdateStatus(ctx, id, status)
}

func (s *countingStore) ListInbox(ctx context.Context) ([]document.InboxItem, error) {
	if s.listInboxFn != nil {
		return s.listInboxFn(ctx)
	}
	return s.DocumentStore.ListInbox(ctx)
}

type harness struct {
	url      string
	ws       *Workspace
	store    *countingStore
	recorder *Recorder
	buffer   *editor.Buffer
}

// newHarness runs the console against a real document store server backed by
// the in-memory store.
func newHarness(t *testing.T) *harness {
	t.Helper()
	service := app.New(config.Config{SeedInbox: true}, store.NewMemoryStore(), nil, nil)
	require.NoError(t, service.Bootstrap(context.Background()))
	server := httptest.NewServer(app.NewHTTPServer(service, "*", nil).Handler())
	t.Cleanup(server.Close)
	return workspaceFor(t, server.URL+"/api")
}

// peer opens a second workspace on the same store, as another operator would.
func (h *harness) peer(t *testing.T) *harness {
	t.Helper()
	return workspaceFor(t, h.url)
}

func workspaceFor(t *testing.T, url string) *harness {
	t.Helper()
	remote := &countingStore{DocumentStore: client.New(url, nil, 5*time.Second)}
	recorder := NewRecorder()
	buffer := editor.NewBuffer()
	ws, err := NewWorkspace(Options{
		Store:    remote,
		Surface:  buffer,
		Notifier: recorder,
		Printer:  printing.HTMLPrinter{},
	})
	require.NoError(t, err)
	require.NoError(t, ws.Form.Mount("document-editor"))
	t.Cleanup(ws.Form.Unmount)
	return &harness{url: url, ws: ws, store: remote, recorder: recorder, buffer: buffer}
}

func fillInvoiceA(t *testing.T, h *harness) {
	t.Helper()
	fields := map[document.Field]string{
		document.FieldTitle:             "Invoice A",
		document.FieldType:              "invoice",
		document.FieldDocumentNumber:    "INV-001",
		document.FieldIssueDate:         "2024-01-01",
		document.FieldIssuingEntity:     "Ministry",
		document.FieldReceiptDate:       "2024-01-02",
		document.FieldResponsiblePerson: "A. Ali",
	}
	for field, value := range fields {
		require.True(t, h.ws.Form.Set(field, value), "field %s", field)
	}
	require.NoError(t, h.buffer.Edit("<p>body</p>"))
}

func (h *harness) createInvoiceA(t *testing.T) document.Document {
	t.Helper()
	fillInvoiceA(t, h)
	created, err := h.ws.Form.Submit(context.Background())
	require.NoError(t, err)
	h.recorder.Drain()
	return created
}

func titles(notes []Notification) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}
