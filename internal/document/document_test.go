package document

import (
	"encoding/json"
	"strings"
	"testing"

	ierr "erpdesk/internal/errors"
)

func validDraft() Draft {
	return Draft{
		Title:             "Invoice A",
		Type:              TypeInvoice,
		DocumentNumber:    "INV-001",
		IssueDate:         "2024-01-01",
		IssuingEntity:     "Ministry",
		ReceiptDate:       "2024-01-02",
		ResponsiblePerson: "A. Ali",
		Content:           "<p>body</p>",
	}
}

func TestDraftValidateAcceptsCompleteDraft(t *testing.T) {
	if err := validDraft().Validate(); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestDraftValidateAccompanyingAndContentOptional(t *testing.T) {
	draft := validDraft()
	draft.AccompanyingDocuments = ""
	draft.Content = ""
	if err := draft.Validate(); err != nil {
		t.Fatalf("expected optional fields to be optional, got %v", err)
	}
}

func TestDraftValidateReportsMissingFields(t *testing.T) {
	draft := validDraft()
	draft.Title = ""
	draft.ResponsiblePerson = ""

	err := draft.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !ierr.IsValidation(err) {
		t.Fatalf("expected validation mark, got %v", err)
	}
	fields := InvalidFields(err)
	if strings.Join(fields, ",") != "title,responsiblePerson" {
		t.Fatalf("unexpected invalid fields %v", fields)
	}
	if hint := ierr.Hint(err); !strings.Contains(hint, "title") {
		t.Fatalf("expected hint to name the field, got %q", hint)
	}
}

func TestDraftValidateRejectsUnknownTypeAndBadDates(t *testing.T) {
	draft := validDraft()
	draft.Type = "memo"
	draft.IssueDate = "01/01/2024"

	fields := InvalidFields(draft.Validate())
	if strings.Join(fields, ",") != "type,issueDate" {
		t.Fatalf("unexpected invalid fields %v", fields)
	}
}

func TestDraftNormalizeKeepsContentVerbatim(t *testing.T) {
	draft := validDraft()
	draft.Title = "  Invoice A "
	draft.Type = " Invoice"
	draft.Content = "  <p>body</p>\n"

	normalized := draft.Normalize()
	if normalized.Title != "Invoice A" {
		t.Fatalf("unexpected title %q", normalized.Title)
	}
	if normalized.Type != TypeInvoice {
		t.Fatalf("unexpected type %q", normalized.Type)
	}
	if normalized.Content != draft.Content {
		t.Fatalf("content must not be trimmed, got %q", normalized.Content)
	}
}

func TestDraftSetAndGet(t *testing.T) {
	var draft Draft
	for _, field := range Fields {
		if !draft.Set(field, "v-"+string(field)) {
			t.Fatalf("expected %s to be settable", field)
		}
	}
	for _, field := range Fields {
		if got := draft.Get(field); got != "v-"+string(field) {
			t.Fatalf("field %s = %q", field, got)
		}
	}
	if draft.Set("status", "archived") {
		t.Fatal("status is not a draft field")
	}
}

func TestNewDocumentStartsPending(t *testing.T) {
	doc := validDraft().NewDocument("doc_1")
	if doc.Status != StatusPending {
		t.Fatalf("expected pending, got %s", doc.Status)
	}
	if doc.Draft() != validDraft() {
		t.Fatalf("document fields must equal the draft: %+v", doc.Draft())
	}
	if doc.AssigneeLabel() != "-" {
		t.Fatalf("unexpected assignee label %q", doc.AssigneeLabel())
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		want    Status
		wantErr bool
	}{
		{StatusPending, StatusArchived, StatusArchived, false},
		{StatusArchived, StatusArchived, StatusArchived, false},
		{StatusPending, StatusPending, StatusPending, false},
		{StatusArchived, StatusPending, StatusArchived, true},
		{StatusPending, "deleted", StatusPending, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !ierr.IsInvalidTransition(err) {
				t.Fatalf("expected invalid transition mark, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
	if StatusArchived.CanArchive() {
		t.Fatal("archived documents cannot be archived again")
	}
	if !StatusPending.CanArchive() {
		t.Fatal("pending documents can be archived")
	}
}

func TestViewableCapabilities(t *testing.T) {
	var records []Viewable = []Viewable{
		validDraft().NewDocument("doc_1"),
		InboxItem{ID: "in_1", Title: "Circular 12", Sender: "Ministry", ReceivedDate: "2024-02-01"},
	}

	body, ok := records[0].Body()
	if !ok || body != "<p>body</p>" || records[0].Kind() != KindDocument {
		t.Fatalf("unexpected document capability %q %v", body, ok)
	}
	body, ok = records[1].Body()
	if ok || body != "" || records[1].Kind() != KindInbox {
		t.Fatalf("inbox items must not report content, got %q %v", body, ok)
	}
	if records[1].RecordTitle() != "Circular 12" {
		t.Fatalf("unexpected title %q", records[1].RecordTitle())
	}
}

func TestDocumentJSONWireNames(t *testing.T) {
	doc := validDraft().NewDocument("doc_1")
	doc.Assignee = "B. Omar"
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"documentNumber":"INV-001"`, `"issuingEntity":"Ministry"`, `"responsiblePerson":"A. Ali"`, `"status":"pending"`, `"assignee":"B. Omar"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("expected %s in %s", key, raw)
		}
	}
}
