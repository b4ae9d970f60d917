package console

import (
	"sync"
	"time"

	"erpdesk/internal/logger"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification titles. These are message keys; the front end localizes them.
const (
	TitleDocumentAdded          = "documentAdded"
	TitleErrorAddingDocument    = "errorAddingDocument"
	TitleDocumentArchived       = "documentArchived"
	TitleErrorArchivingDocument = "errorArchivingDocument"
	TitleTaskAssigned           = "taskAssigned"
	TitleErrorAssigningTask     = "errorAssigningTask"
	TitleErrorFetchingDocuments = "errorFetchingDocuments"
	TitleErrorFetchingInbox     = "errorFetchingInbox"
	TitleErrorViewingDocument   = "errorViewingDocument"
	TitleErrorTrackingDocument  = "errorTrackingDocument"
	TitleDocumentStatus         = "documentStatus"
	TitlePrintReady             = "printReady"
	TitleErrorPrinting          = "errorPrinting"
	TitleNoDocumentSelected     = "noDocumentSelected"
)

// Notification is a transient message shown to the operator.
type Notification struct {
	Title       string
	Description string
	Status      Level
	Duration    time.Duration
	Closable    bool
}

type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: logger.OrNop(log)}
}

func (n *LogNotifier) Notify(note Notification) {
	args := []any{"title", note.Title, "description", note.Description}
	switch note.Status {
	case LevelError:
		n.log.Warnw("notification", args...)
	default:
		n.log.Infow("notification", args...)
	}
}

// Recorder buffers notifications until drained.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// Drain returns and clears everything recorded so far.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	return items
}

// Last returns the most recent notification without draining.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Tee delivers each notification to every notifier in order.
type Tee []Notifier

func (t Tee) Notify(n Notification) {
	for _, notifier := range t {
		notifier.Notify(n)
	}
}
