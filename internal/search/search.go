package search

import (
	"context"

	"erpdesk/internal/document"
)

// Query describes a document search request.
type Query struct {
	Text   string
	Status document.Status // empty = any status
	Limit  int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []document.Document `json:"results"`
	Total   int                 `json:"total"`
	Query   string              `json:"query"`
	Engine  string              `json:"engine"`
}

// Record is the data we index for a document. Content is never indexed.
type Record struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Type              string `json:"type"`
	Status            string `json:"status"`
	DocumentNumber    string `json:"documentNumber"`
	IssuingEntity     string `json:"issuingEntity"`
	ResponsiblePerson string `json:"responsiblePerson"`
	Assignee          string `json:"assignee"`
}

// RecordFor projects a document onto its index record.
func RecordFor(item document.Document) Record {
	return Record{
		ID:                item.ID,
		Title:             item.Title,
		Type:              string(item.Type),
		Status:            string(item.Status),
		DocumentNumber:    item.DocumentNumber,
		IssuingEntity:     item.IssuingEntity,
		ResponsiblePerson: item.ResponsiblePerson,
		Assignee:          item.Assignee,
	}
}

// Source is the store view search needs: lookups for index hits and the
// substring fallback.
type Source interface {
	GetDocument(context.Context, string) (document.Document, error)
	SearchDocuments(context.Context, string, int) ([]document.Document, error)
}
