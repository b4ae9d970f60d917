package console

import (
	"context"
	"sync"

	"erpdesk/internal/document"
	"erpdesk/internal/editor"
)

type unmounter interface {
	Unmount()
}

// FormController owns the draft of the document being authored. Its content
// field follows the authoring surface on every change.
type FormController struct {
	ws *Workspace

	mu     sync.Mutex
	draft  document.Draft
	cancel func()
}

// Mount binds the surface to container and subscribes the draft to it.
func (f *FormController) Mount(container string) error {
	if err := f.ws.surface.Bind(container); err != nil {
		return err
	}
	cancel := f.ws.surface.OnChange(func(change editor.Change) {
		f.mu.Lock()
		f.draft.Content = change.Content
		f.mu.Unlock()
	})
	f.mu.Lock()
	f.cancel = cancel
	f.mu.Unlock()
	return nil
}

// Unmount drops the subscription and releases the surface.
func (f *FormController) Unmount() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if u, ok := f.ws.surface.(unmounter); ok {
		u.Unmount()
	}
}

// Set updates one draft field. It reports false for unknown fields.
func (f *FormController) Set(field document.Field, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Set(field, value)
}

func (f *FormController) Draft() document.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submit creates a document from the draft. The content is read from the
// surface at submission time. On success the list is re-fetched and both the
// draft and the surface are cleared; on failure the draft is kept and the
// list is not refreshed.
func (f *FormController) Submit(ctx context.Context) (document.Document, error) {
	f.mu.Lock()
	draft := f.draft
	f.mu.Unlock()
	draft.Content = f.ws.surface.Content()
	draft = draft.Normalize()

	if err := draft.Validate(); err != nil {
		f.ws.fail(TitleErrorAddingDocument, err, "fields", document.InvalidFields(err))
		return document.Document{}, err
	}
	created, err := f.ws.store.CreateDocument(ctx, draft)
	if err != nil {
		f.ws.fail(TitleErrorAddingDocument, err)
		return document.Document{}, err
	}

	if err := f.ws.cache.Put(ctx, created); err != nil {
		f.ws.log.Warnw("cache put failed", "document_id", created.ID, "error", err)
	}
	_ = f.ws.Lifecycle.Refresh(ctx)

	f.mu.Lock()
	f.draft = document.Draft{}
	f.mu.Unlock()
	if err := f.ws.surface.SetContent(""); err != nil {
		f.ws.log.Warnw("reset editor failed", "error", err)
	}
	f.ws.notify(TitleDocumentAdded, LevelSuccess, created.Title)
	return created, nil
}
