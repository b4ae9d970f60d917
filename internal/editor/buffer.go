// Package editor implements the rich text authoring surface: an edit buffer
// holding a document tree, serialized to markup on demand.
package editor

import (
	"strings"
	"sync"

	ierr "erpdesk/internal/errors"
)

// Source tells subscribers who changed the buffer.
type Source string

const (
	SourceUser Source = "user"
	SourceAPI  Source = "api"
)

// Change is delivered to subscribers after every edit.
type Change struct {
	Content string
	Source  Source
}

// Surface is what the console needs from an authoring surface.
type Surface interface {
	Bind(container string) error
	Content() string
	SetContent(markup string) error
	OnChange(fn func(Change)) (cancel func())
}

var _ Surface = (*Buffer)(nil)

// Buffer is the in-process Surface. It binds to one container per mount and
// notifies subscribers synchronously, in subscription order.
type Buffer struct {
	mu        sync.Mutex
	container string
	doc       Node
	content   string
	subs      []subscription
	nextSubID int
}

type subscription struct {
	id int
	fn func(Change)
}

func NewBuffer() *Buffer {
	return &Buffer{doc: Node{Type: NodeDoc}}
}

// Bind attaches the buffer to container. A second Bind before Unmount fails
// with ErrAlreadyBound.
func (b *Buffer) Bind(container string) error {
	container = strings.TrimSpace(container)
	if container == "" {
		return ierr.NewError("editor container is required").
			WithHint("The editor needs a container to attach to").
			Mark(ierr.ErrValidation)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.container != "" {
		return ierr.NewError("editor already bound to " + b.container).
			WithHintf("The editor is already attached to %s", b.container).
			Mark(ierr.ErrAlreadyBound)
	}
	b.container = container
	return nil
}

// Unmount releases the container so the buffer can be bound again. Content
// and subscribers are kept.
func (b *Buffer) Unmount() {
	b.mu.Lock()
	b.container = ""
	b.mu.Unlock()
}

// Container returns the bound container, or "" when unmounted.
func (b *Buffer) Container() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.container
}

// Content returns the live buffer serialized as markup.
func (b *Buffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

// Document returns a copy of the buffer's document tree.
func (b *Buffer) Document() Node {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc.clone()
}

// SetContent replaces the buffer; an empty string resets it.
func (b *Buffer) SetContent(markup string) error {
	return b.apply(markup, SourceAPI)
}

// Edit replaces the buffer the way typing into the bound editor does.
func (b *Buffer) Edit(markup string) error {
	if b.Container() == "" {
		return ierr.NewError("editor is not bound").
			WithHint("Open the editor before typing").
			Mark(ierr.ErrSystem)
	}
	return b.apply(markup, SourceUser)
}

// OnChange subscribes fn to every future change.
func (b *Buffer) OnChange(fn func(Change)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextSubID++
	id := b.nextSubID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, sub := range b.subs {
				if sub.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *Buffer) apply(markup string, source Source) error {
	doc, err := Parse(markup)
	if err != nil {
		return ierr.WithError(err).
			WithHint("The content could not be loaded into the editor").
			Mark(ierr.ErrValidation)
	}
	content := Render(doc)

	b.mu.Lock()
	b.doc = doc
	b.content = content
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	change := Change{Content: content, Source: source}
	for _, sub := range subs {
		sub.fn(change)
	}
	return nil
}
