package console

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"

	"erpdesk/internal/document"
	ierr "erpdesk/internal/errors"
)

// AssignmentDialog is the modal that edits a document's assignee. Only one
// assignment can be in progress.
type AssignmentDialog struct {
	ws *Workspace

	mu       sync.Mutex
	open     bool
	target   string
	assignee string
}

// Open targets id and starts from its current assignee.
func (d *AssignmentDialog) Open(id string) error {
	item, found := lo.Find(d.ws.snapshot(), func(item document.Document) bool {
		return item.ID == id
	})
	if !found {
		return ierr.NewError("document not in list").
			WithHint("Refresh the list and try again").
			WithReportableDetails(map[string]any{"document_id": id}).
			Mark(ierr.ErrNotFound)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		return ierr.NewError("assignment already open for " + d.target).
			WithHint("Finish the current assignment first").
			Mark(ierr.ErrDialogBusy)
	}
	d.open = true
	d.target = id
	d.assignee = item.Assignee
	return nil
}

func (d *AssignmentDialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *AssignmentDialog) Target() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target
}

func (d *AssignmentDialog) Assignee() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.assignee
}

func (d *AssignmentDialog) SetAssignee(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return errDialogClosed()
	}
	d.assignee = value
	return nil
}

// Confirm persists the edited assignee and closes the dialog. On any failure
// the dialog stays open with the edit intact.
func (d *AssignmentDialog) Confirm(ctx context.Context) (document.Document, error) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return document.Document{}, errDialogClosed()
	}
	target, assignee := d.target, d.assignee
	d.mu.Unlock()

	if strings.TrimSpace(assignee) == "" {
		err := ierr.NewError("assignee is required").
			WithHint("Please enter the name of the person to assign").
			Mark(ierr.ErrValidation)
		d.ws.notify(TitleErrorAssigningTask, LevelError, ierr.Hint(err))
		return document.Document{}, err
	}
	updated, err := d.ws.Lifecycle.Assign(ctx, target, assignee)
	if err != nil {
		return document.Document{}, err
	}
	d.close()
	return updated, nil
}

// Cancel closes the dialog without saving.
func (d *AssignmentDialog) Cancel() {
	d.close()
}

func (d *AssignmentDialog) close() {
	d.mu.Lock()
	d.open = false
	d.target = ""
	d.assignee = ""
	d.mu.Unlock()
}

func errDialogClosed() error {
	return ierr.NewError("assignment dialog is not open").
		WithHint("Open the assignment dialog first").
		Mark(ierr.ErrDialogClosed)
}
