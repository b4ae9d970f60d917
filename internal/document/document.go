// Package document holds the incoming-document domain: documents, drafts,
// inbox items and the status state machine.
package document

import (
	"strings"

	ierr "erpdesk/internal/errors"
)

type Type string

const (
	TypeInvoice  Type = "invoice"
	TypeReport   Type = "report"
	TypeContract Type = "contract"
)

// Types lists the selectable document types in display order.
var Types = []Type{TypeInvoice, TypeReport, TypeContract}

func (t Type) Valid() bool {
	switch t {
	case TypeInvoice, TypeReport, TypeContract:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusArchived Status = "archived"
)

// CanArchive reports whether the archive action is enabled for a row in
// this status.
func (s Status) CanArchive() bool {
	return s == StatusPending
}

// Transition applies a requested status change. Archiving an archived
// document is a no-op; nothing leaves the archived state.
func (s Status) Transition(to Status) (Status, error) {
	switch {
	case to == s:
		return s, nil
	case s == StatusPending && to == StatusArchived:
		return StatusArchived, nil
	default:
		return s, ierr.NewError("invalid status transition").
			WithHintf("A %s document cannot become %s", displayStatus(s), displayStatus(to)).
			WithReportableDetails(map[string]any{"from": string(s), "to": string(to)}).
			Mark(ierr.ErrInvalidTransition)
	}
}

func displayStatus(s Status) string {
	if strings.TrimSpace(string(s)) == "" {
		return "unknown"
	}
	return string(s)
}

// Document is a tracked incoming record.
type Document struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	Type                  Type   `json:"type"`
	Status                Status `json:"status"`
	DocumentNumber        string `json:"documentNumber"`
	IssueDate             string `json:"issueDate"`
	IssuingEntity         string `json:"issuingEntity"`
	AccompanyingDocuments string `json:"accompanyingDocuments,omitempty"`
	ReceiptDate           string `json:"receiptDate"`
	ResponsiblePerson     string `json:"responsiblePerson"`
	Content               string `json:"content"`
	Assignee              string `json:"assignee,omitempty"`
}

// Draft returns the authorable part of the document.
func (d Document) Draft() Draft {
	return Draft{
		Title:                 d.Title,
		Type:                  d.Type,
		DocumentNumber:        d.DocumentNumber,
		IssueDate:             d.IssueDate,
		IssuingEntity:         d.IssuingEntity,
		AccompanyingDocuments: d.AccompanyingDocuments,
		ReceiptDate:           d.ReceiptDate,
		ResponsiblePerson:     d.ResponsiblePerson,
		Content:               d.Content,
	}
}

// AssigneeLabel is the table cell value for the assignee column.
func (d Document) AssigneeLabel() string {
	if strings.TrimSpace(d.Assignee) == "" {
		return "-"
	}
	return d.Assignee
}

func (d Document) Kind() Kind          { return KindDocument }
func (d Document) RecordID() string    { return d.ID }
func (d Document) RecordTitle() string { return d.Title }
func (d Document) Body() (string, bool) {
	return d.Content, true
}

// InboxItem is an externally received summary. It has no content or status.
type InboxItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Sender       string `json:"sender"`
	ReceivedDate string `json:"receivedDate"`
}

func (i InboxItem) Kind() Kind           { return KindInbox }
func (i InboxItem) RecordID() string     { return i.ID }
func (i InboxItem) RecordTitle() string  { return i.Title }
func (i InboxItem) Body() (string, bool) { return "", false }

// TrackInfo is the store's answer to a track query.
type TrackInfo struct {
	Status string `json:"status"`
}
