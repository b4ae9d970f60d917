package printing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// HTMLPrinter renders the page and, when Dir is set, writes it there.
type HTMLPrinter struct {
	Dir string
}

func (p HTMLPrinter) Print(_ context.Context, page Page) (*Result, error) {
	rendered, err := RenderPage(page.Title, page.Content)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	result := &Result{
		Data:     []byte(rendered),
		Filename: sanitizeFilename(page.Title) + ".html",
		MimeType: "text/html; charset=utf-8",
	}
	if p.Dir != "" {
		location, err := writeOutput(p.Dir, result)
		if err != nil {
			return nil, err
		}
		result.Location = location
	}
	return result, nil
}

func writeOutput(dir string, result *Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create print dir: %w", err)
	}
	path := filepath.Join(dir, result.Filename)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return "", fmt.Errorf("write print output: %w", err)
	}
	return path, nil
}
