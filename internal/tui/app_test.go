package tui

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"erpdesk/internal/console"
	"erpdesk/internal/document"
)

type fakeStore struct {
	docs        []document.Document
	inbox       []document.InboxItem
	statusCalls atomic.Int32
	assignCalls atomic.Int32
}

func (f *fakeStore) ListDocuments(context.Context) ([]document.Document, error) {
	out := make([]document.Document, len(f.docs))
	copy(out, f.docs)
	return out, nil
}

func (f *fakeStore) CreateDocument(_ context.Context, draft document.Draft) (document.Document, error) {
	item := draft.NewDocument("doc_new")
	f.docs = append(f.docs, item)
	return item, nil
}

func (f *fakeStore) GetDocument(_ context.Context, id string) (document.Document, error) {
	for _, item := range f.docs {
		if item.ID == id {
			return item, nil
		}
	}
	return document.Document{}, context.Canceled
}

func (f *fakeStore) UpdateStatus(_ context.Context, id string, status document.Status) (document.Document, error) {
	f.statusCalls.Add(1)
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs[i].Status = status
			return f.docs[i], nil
		}
	}
	return document.Document{}, context.Canceled
}

func (f *fakeStore) Assign(_ context.Context, id, assignee string) (document.Document, error) {
	f.assignCalls.Add(1)
	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs[i].Assignee = assignee
			return f.docs[i], nil
		}
	}
	return document.Document{}, context.Canceled
}

func (f *fakeStore) Track(_ context.Context, id string) (document.TrackInfo, error) {
	item, err := f.GetDocument(context.Background(), id)
	return document.TrackInfo{Status: string(item.Status)}, err
}

func (f *fakeStore) ListInbox(context.Context) ([]document.InboxItem, error) {
	return f.inbox, nil
}

func newTestApp(t *testing.T, store *fakeStore) *App {
	t.Helper()
	notes := console.NewRecorder()
	ws, err := console.NewWorkspace(console.Options{Store: store, Notifier: notes})
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	app := NewApp(context.Background(), ws, notes)
	return runCommands(t, app, app.Init())
}

func runCommands(t *testing.T, model tea.Model, cmd tea.Cmd) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		nextModel, nextCmd := app.Update(msg)
		app, ok = nextModel.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", nextModel)
		}
		cmd = nextCmd
	}
	return app
}

func press(t *testing.T, app *App, key string) *App {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	model, cmd := app.Update(msg)
	return runCommands(t, model, cmd)
}

func sampleStore() *fakeStore {
	return &fakeStore{
		docs: []document.Document{
			{ID: "doc_1", Title: "Invoice A", Type: document.TypeInvoice, Status: document.StatusPending, Content: "<p>body</p>"},
			{ID: "doc_2", Title: "Old report", Type: document.TypeReport, Status: document.StatusArchived},
		},
		inbox: []document.InboxItem{{ID: "inbox-1", Title: "Supplier batch", Sender: "Northwind", ReceivedDate: "2024-01-05"}},
	}
}

func TestInitLoadsDocuments(t *testing.T) {
	app := newTestApp(t, sampleStore())
	view := app.View()
	if !strings.Contains(view, "Invoice A") || !strings.Contains(view, "Old report") {
		t.Fatalf("documents missing from view:\n%s", view)
	}
}

func TestArchiveKey(t *testing.T) {
	store := sampleStore()
	app := newTestApp(t, store)

	app = press(t, app, "a")
	if store.docs[0].Status != document.StatusArchived {
		t.Fatalf("expected doc_1 archived, got %s", store.docs[0].Status)
	}
	if app.last == nil || app.last.Title != console.TitleDocumentArchived {
		t.Fatalf("expected archived notification, got %+v", app.last)
	}

	press(t, app, "a")
	if got := store.statusCalls.Load(); got != 1 {
		t.Fatalf("archive on archived row should be ignored, got %d calls", got)
	}
}

func TestArchiveKeyIgnoredOnArchivedRow(t *testing.T) {
	store := sampleStore()
	app := newTestApp(t, store)
	app = press(t, app, "j")
	press(t, app, "a")
	if got := store.statusCalls.Load(); got != 0 {
		t.Fatalf("expected no status update, got %d", got)
	}
}

func TestAssignModal(t *testing.T) {
	store := sampleStore()
	app := newTestApp(t, store)

	app = press(t, app, "s")
	if !app.assigning || !app.ws.Dialog.IsOpen() {
		t.Fatalf("expected assignment modal open")
	}
	for _, r := range "Omar" {
		app = press(t, app, string(r))
	}
	app = press(t, app, "enter")

	if store.docs[0].Assignee != "Omar" {
		t.Fatalf("assignee = %q", store.docs[0].Assignee)
	}
	if app.assigning || app.ws.Dialog.IsOpen() {
		t.Fatalf("modal should close after confirm")
	}
	if !strings.Contains(app.View(), "Omar") {
		t.Fatalf("assignee missing from table:\n%s", app.View())
	}
}

func TestAssignModalCancel(t *testing.T) {
	store := sampleStore()
	app := newTestApp(t, store)

	app = press(t, app, "s")
	app = press(t, app, "x")
	app = press(t, app, "esc")
	if app.assigning || app.ws.Dialog.IsOpen() {
		t.Fatalf("modal should close on esc")
	}
	if store.assignCalls.Load() != 0 {
		t.Fatalf("cancel must not persist")
	}
}

func TestViewAndPrint(t *testing.T) {
	app := newTestApp(t, sampleStore())

	app = press(t, app, "p")
	if app.last == nil || app.last.Title != console.TitleNoDocumentSelected {
		t.Fatalf("expected noDocumentSelected, got %+v", app.last)
	}

	app = press(t, app, "v")
	if !strings.Contains(app.View(), "body") {
		t.Fatalf("viewer should show content:\n%s", app.View())
	}
	app = press(t, app, "p")
	if app.last == nil || app.last.Title != console.TitlePrintReady {
		t.Fatalf("expected printReady, got %+v", app.last)
	}
}

func TestTrackKey(t *testing.T) {
	app := newTestApp(t, sampleStore())
	app = press(t, app, "t")
	if app.last == nil || app.last.Title != console.TitleDocumentStatus || app.last.Description != "pending" {
		t.Fatalf("unexpected notification %+v", app.last)
	}
}

func TestInboxTab(t *testing.T) {
	app := newTestApp(t, sampleStore())

	app = press(t, app, "tab")
	if !strings.Contains(app.View(), "Supplier batch") {
		t.Fatalf("inbox missing:\n%s", app.View())
	}
	app = press(t, app, "enter")
	selected, ok := app.ws.Lifecycle.Selected()
	if !ok || selected.Kind() != document.KindInbox {
		t.Fatalf("expected inbox item selected")
	}
	if !strings.Contains(app.View(), "(no content)") {
		t.Fatalf("inbox item should render without body:\n%s", app.View())
	}
}

func TestQuit(t *testing.T) {
	app := newTestApp(t, sampleStore())
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
