// Package console implements the document workflow screen: the form that
// creates documents, the per-row lifecycle actions, the assignment dialog,
// the inbox and the shared viewer.
package console

import (
	"context"
	"sync"
	"time"

	"erpdesk/internal/cache"
	"erpdesk/internal/document"
	"erpdesk/internal/editor"
	ierr "erpdesk/internal/errors"
	"erpdesk/internal/logger"
	"erpdesk/internal/printing"
)

// DocumentStore is the remote collaborator. *client.Client implements it.
type DocumentStore interface {
	ListDocuments(ctx context.Context) ([]document.Document, error)
	CreateDocument(ctx context.Context, draft document.Draft) (document.Document, error)
	GetDocument(ctx context.Context, id string) (document.Document, error)
	UpdateStatus(ctx context.Context, id string, status document.Status) (document.Document, error)
	Assign(ctx context.Context, id, assignee string) (document.Document, error)
	Track(ctx context.Context, id string) (document.TrackInfo, error)
	ListInbox(ctx context.Context) ([]document.InboxItem, error)
}

type Options struct {
	Store    DocumentStore
	Cache    *cache.Documents
	Surface  editor.Surface
	Notifier Notifier
	Printer  printing.Printer
	Logger   *logger.Logger
	// NotifyDuration is how long notifications stay up. Defaults to 3s.
	NotifyDuration time.Duration
}

// Workspace is one instance of the documents screen. State changes are
// serialized by mu; store calls run without holding it.
type Workspace struct {
	store          DocumentStore
	cache          *cache.Documents
	surface        editor.Surface
	notifier       Notifier
	printer        printing.Printer
	log            *logger.Logger
	notifyDuration time.Duration

	mu        sync.Mutex
	documents []document.Document
	selected  document.Viewable

	Form      *FormController
	Lifecycle *LifecycleController
	Dialog    *AssignmentDialog
	Inbox     *InboxViewer
	Viewer    *Viewer
}

func NewWorkspace(opts Options) (*Workspace, error) {
	if opts.Store == nil {
		return nil, ierr.NewError("document store is required").
			WithHint("Configure the document store before opening the console").
			Mark(ierr.ErrValidation)
	}
	log := logger.OrNop(opts.Logger)
	ws := &Workspace{
		store:          opts.Store,
		cache:          opts.Cache,
		surface:        opts.Surface,
		notifier:       opts.Notifier,
		printer:        opts.Printer,
		log:            log,
		notifyDuration: opts.NotifyDuration,
	}
	if ws.cache == nil {
		ws.cache = cache.NewDocuments(cache.NewMemoryBackend(0), log)
	}
	if ws.surface == nil {
		ws.surface = editor.NewBuffer()
	}
	if ws.notifier == nil {
		ws.notifier = NewLogNotifier(log)
	}
	if ws.printer == nil {
		ws.printer = printing.HTMLPrinter{}
	}
	if ws.notifyDuration <= 0 {
		ws.notifyDuration = 3 * time.Second
	}

	ws.Viewer = &Viewer{ws: ws}
	ws.Lifecycle = &LifecycleController{ws: ws}
	ws.Form = &FormController{ws: ws}
	ws.Dialog = &AssignmentDialog{ws: ws}
	ws.Inbox = &InboxViewer{ws: ws}
	return ws, nil
}

// Surface returns the authoring surface shared by the form and the viewer.
func (ws *Workspace) Surface() editor.Surface {
	return ws.surface
}

func (ws *Workspace) notify(title string, level Level, description string) {
	ws.notifier.Notify(Notification{
		Title:       title,
		Description: description,
		Status:      level,
		Duration:    ws.notifyDuration,
		Closable:    true,
	})
}

// fail logs a caught failure and turns it into an error notification.
func (ws *Workspace) fail(title string, err error, args ...any) {
	ws.log.Errorw(title, append(args, "error", err)...)
	ws.notify(title, LevelError, ierr.Hint(err))
}

func (ws *Workspace) setDocuments(items []document.Document) {
	ws.mu.Lock()
	ws.documents = items
	ws.mu.Unlock()
}

func (ws *Workspace) snapshot() []document.Document {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]document.Document, len(ws.documents))
	copy(out, ws.documents)
	return out
}

func (ws *Workspace) setSelected(rec document.Viewable) {
	ws.mu.Lock()
	ws.selected = rec
	ws.mu.Unlock()
}

func (ws *Workspace) selection() document.Viewable {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.selected
}
