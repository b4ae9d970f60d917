package console

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"erpdesk/internal/document"
	ierr "erpdesk/internal/errors"
	"erpdesk/internal/printing"
)

// Row is one line of the documents table.
type Row struct {
	document.Document
	CanArchive bool
}

func rowFor(item document.Document) Row {
	return Row{Document: item, CanArchive: item.Status.CanArchive()}
}

// LifecycleController runs the per-document actions. Every successful write
// is followed by a full list refresh through the cache.
type LifecycleController struct {
	ws *Workspace
}

// Refresh re-fetches the document list from the store. On failure the
// current list is kept.
func (l *LifecycleController) Refresh(ctx context.Context) error {
	if err := l.ws.cache.InvalidateList(ctx); err != nil {
		l.ws.log.Warnw("cache invalidate failed", "error", err)
	}
	items, err := l.ws.cache.List(ctx, l.ws.store.ListDocuments)
	if err != nil {
		l.ws.fail(TitleErrorFetchingDocuments, err)
		return err
	}
	l.ws.setDocuments(items)
	return nil
}

// Documents returns the current list.
func (l *LifecycleController) Documents() []document.Document {
	return l.ws.snapshot()
}

func (l *LifecycleController) Rows() []Row {
	return lo.Map(l.ws.snapshot(), func(item document.Document, _ int) Row {
		return rowFor(item)
	})
}

func (l *LifecycleController) Row(id string) (Row, bool) {
	item, ok := lo.Find(l.ws.snapshot(), func(item document.Document) bool {
		return item.ID == id
	})
	if !ok {
		return Row{}, false
	}
	return rowFor(item), true
}

// Archive moves a pending document to archived. On a row that is already
// archived the action is disabled: nothing is sent and nil is returned.
func (l *LifecycleController) Archive(ctx context.Context, id string) error {
	if row, ok := l.Row(id); ok && !row.CanArchive {
		l.ws.log.Debugw("archive suppressed", "document_id", id, "status", row.Status)
		return nil
	}
	updated, err := l.ws.store.UpdateStatus(ctx, id, document.StatusArchived)
	if err != nil {
		l.ws.fail(TitleErrorArchivingDocument, err, "document_id", id)
		return err
	}
	l.afterWrite(ctx, updated)
	l.ws.notify(TitleDocumentArchived, LevelSuccess, updated.Title)
	return nil
}

// Assign sets or overwrites the assignee, in either status.
func (l *LifecycleController) Assign(ctx context.Context, id, assignee string) (document.Document, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		err := ierr.NewError("assignee is required").
			WithHint("Please enter the name of the person to assign").
			Mark(ierr.ErrValidation)
		l.ws.fail(TitleErrorAssigningTask, err, "document_id", id)
		return document.Document{}, err
	}
	updated, err := l.ws.store.Assign(ctx, id, assignee)
	if err != nil {
		l.ws.fail(TitleErrorAssigningTask, err, "document_id", id)
		return document.Document{}, err
	}
	l.afterWrite(ctx, updated)
	l.ws.notify(TitleTaskAssigned, LevelSuccess, updated.Assignee)
	return updated, nil
}

// Track asks the store for the document's status. Local state is untouched.
func (l *LifecycleController) Track(ctx context.Context, id string) (document.TrackInfo, error) {
	info, err := l.ws.store.Track(ctx, id)
	if err != nil {
		l.ws.fail(TitleErrorTrackingDocument, err, "document_id", id)
		return document.TrackInfo{}, err
	}
	l.ws.notify(TitleDocumentStatus, LevelInfo, info.Status)
	return info, nil
}

// View fetches the full record, loads it into the surface and selects it.
func (l *LifecycleController) View(ctx context.Context, id string) (document.Document, error) {
	if err := l.ws.cache.Invalidate(ctx, id); err != nil {
		l.ws.log.Warnw("cache invalidate failed", "document_id", id, "error", err)
	}
	item, err := l.ws.cache.Get(ctx, id, l.ws.store.GetDocument)
	if err != nil {
		l.ws.fail(TitleErrorViewingDocument, err, "document_id", id)
		return document.Document{}, err
	}
	if err := l.ws.Viewer.Show(item); err != nil {
		l.ws.fail(TitleErrorViewingDocument, err, "document_id", id)
		return document.Document{}, err
	}
	return item, nil
}

// Print renders the selected record. Without a selection it fails with
// ErrNoSelection and renders nothing.
func (l *LifecycleController) Print(ctx context.Context) (*printing.Result, error) {
	selected := l.ws.selection()
	if selected == nil {
		err := ierr.NewError("print without selection").
			WithHint("View a document before printing").
			Mark(ierr.ErrNoSelection)
		l.ws.notify(TitleNoDocumentSelected, LevelError, ierr.Hint(err))
		return nil, err
	}
	body, _ := selected.Body()
	result, err := l.ws.printer.Print(ctx, printing.Page{Title: selected.RecordTitle(), Content: body})
	if err != nil {
		l.ws.fail(TitleErrorPrinting, err, "record_id", selected.RecordID())
		return nil, err
	}
	l.ws.notify(TitlePrintReady, LevelInfo, lo.Ternary(result.Location != "", result.Location, result.Filename))
	return result, nil
}

// Selected returns the record chosen for printing.
func (l *LifecycleController) Selected() (document.Viewable, bool) {
	selected := l.ws.selection()
	return selected, selected != nil
}

// afterWrite seeds the cache with the written record, then re-fetches the
// list. A failed refresh is already reported by Refresh.
func (l *LifecycleController) afterWrite(ctx context.Context, updated document.Document) {
	if err := l.ws.cache.Put(ctx, updated); err != nil {
		l.ws.log.Warnw("cache put failed", "document_id", updated.ID, "error", err)
	}
	_ = l.Refresh(ctx)
}
