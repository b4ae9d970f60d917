// Package printing renders a document's title and body into a printable
// page and hands it to a printer.
package printing

import (
	"context"
	"errors"
)

// Page is what gets printed: a title and trusted body markup.
type Page struct {
	Title   string
	Content string
}

// Result describes a printed page.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
	// Location is where the output was written, if anywhere: a file path or
	// a minio://bucket/object URL.
	Location string
}

// Printer stands in for the platform print dialog.
type Printer interface {
	Print(ctx context.Context, page Page) (*Result, error)
}

// ErrPDFDependencyMissing indicates no Chromium binary is available.
var ErrPDFDependencyMissing = errors.New("print pdf dependency missing")
