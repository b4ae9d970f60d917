package console

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"erpdesk/internal/document"
	ierr "erpdesk/internal/errors"
)

// InboxViewer lists received items. The list is fetched once per mount.
type InboxViewer struct {
	ws *Workspace

	mu      sync.Mutex
	mounted bool
	items   []document.InboxItem
}

// Mount fetches the inbox unless this mount already has. A failed fetch is
// not retried until the next mount.
func (v *InboxViewer) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return nil
	}
	v.mounted = true
	v.mu.Unlock()

	items, err := v.ws.store.ListInbox(ctx)
	if err != nil {
		v.ws.fail(TitleErrorFetchingInbox, err)
		return err
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

func (v *InboxViewer) Unmount() {
	v.mu.Lock()
	v.mounted = false
	v.items = nil
	v.mu.Unlock()
}

func (v *InboxViewer) Items() []document.InboxItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]document.InboxItem, len(v.items))
	copy(out, v.items)
	return out
}

// View shows the item in the shared viewer. Inbox items have no body.
func (v *InboxViewer) View(id string) (document.InboxItem, error) {
	item, found := lo.Find(v.Items(), func(item document.InboxItem) bool {
		return item.ID == id
	})
	if !found {
		err := ierr.NewError("inbox item not found").
			WithHint("The inbox item is no longer listed").
			WithReportableDetails(map[string]any{"inbox_id": id}).
			Mark(ierr.ErrNotFound)
		v.ws.notify(TitleErrorViewingDocument, LevelError, ierr.Hint(err))
		return document.InboxItem{}, err
	}
	if err := v.ws.Viewer.Show(item); err != nil {
		v.ws.fail(TitleErrorViewingDocument, err, "inbox_id", id)
		return document.InboxItem{}, err
	}
	return item, nil
}
