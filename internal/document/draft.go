package document

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	ierr "erpdesk/internal/errors"
)

// DateLayout is the wire format of issue, receipt and received dates.
const DateLayout = "2006-01-02"

// Draft is the unsaved state of a document being authored.
type Draft struct {
	Title                 string `json:"title" validate:"required"`
	Type                  Type   `json:"type" validate:"required,oneof=invoice report contract"`
	DocumentNumber        string `json:"documentNumber" validate:"required"`
	IssueDate             string `json:"issueDate" validate:"required,datetime=2006-01-02"`
	IssuingEntity         string `json:"issuingEntity" validate:"required"`
	AccompanyingDocuments string `json:"accompanyingDocuments,omitempty"`
	ReceiptDate           string `json:"receiptDate" validate:"required,datetime=2006-01-02"`
	ResponsiblePerson     string `json:"responsiblePerson" validate:"required"`
	Content               string `json:"content"`
}

// Field names a draft input, matching the JSON names used by the form.
type Field string

const (
	FieldTitle                 Field = "title"
	FieldType                  Field = "type"
	FieldDocumentNumber        Field = "documentNumber"
	FieldIssueDate             Field = "issueDate"
	FieldIssuingEntity         Field = "issuingEntity"
	FieldAccompanyingDocuments Field = "accompanyingDocuments"
	FieldReceiptDate           Field = "receiptDate"
	FieldResponsiblePerson     Field = "responsiblePerson"
	FieldContent               Field = "content"
)

// Fields lists the metadata inputs in form order. Content is bound to the
// authoring surface instead.
var Fields = []Field{
	FieldTitle,
	FieldType,
	FieldDocumentNumber,
	FieldIssueDate,
	FieldIssuingEntity,
	FieldAccompanyingDocuments,
	FieldReceiptDate,
	FieldResponsiblePerson,
}

// Set assigns one field by name. It reports false for unknown names.
func (d *Draft) Set(field Field, value string) bool {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldType:
		d.Type = Type(value)
	case FieldDocumentNumber:
		d.DocumentNumber = value
	case FieldIssueDate:
		d.IssueDate = value
	case FieldIssuingEntity:
		d.IssuingEntity = value
	case FieldAccompanyingDocuments:
		d.AccompanyingDocuments = value
	case FieldReceiptDate:
		d.ReceiptDate = value
	case FieldResponsiblePerson:
		d.ResponsiblePerson = value
	case FieldContent:
		d.Content = value
	default:
		return false
	}
	return true
}

// Get reads one field by name.
func (d Draft) Get(field Field) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldType:
		return string(d.Type)
	case FieldDocumentNumber:
		return d.DocumentNumber
	case FieldIssueDate:
		return d.IssueDate
	case FieldIssuingEntity:
		return d.IssuingEntity
	case FieldAccompanyingDocuments:
		return d.AccompanyingDocuments
	case FieldReceiptDate:
		return d.ReceiptDate
	case FieldResponsiblePerson:
		return d.ResponsiblePerson
	case FieldContent:
		return d.Content
	default:
		return ""
	}
}

// Normalize trims metadata fields. Content is kept verbatim.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Type = Type(strings.ToLower(strings.TrimSpace(string(d.Type))))
	d.DocumentNumber = strings.TrimSpace(d.DocumentNumber)
	d.IssueDate = strings.TrimSpace(d.IssueDate)
	d.IssuingEntity = strings.TrimSpace(d.IssuingEntity)
	d.AccompanyingDocuments = strings.TrimSpace(d.AccompanyingDocuments)
	d.ReceiptDate = strings.TrimSpace(d.ReceiptDate)
	d.ResponsiblePerson = strings.TrimSpace(d.ResponsiblePerson)
	return d
}

// IsEmpty reports whether every field is blank.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// NewDocument builds the pending document a store creates for this draft.
func (d Draft) NewDocument(id string) Document {
	return Document{
		ID:                    id,
		Title:                 d.Title,
		Type:                  d.Type,
		Status:                StatusPending,
		DocumentNumber:        d.DocumentNumber,
		IssueDate:             d.IssueDate,
		IssuingEntity:         d.IssuingEntity,
		AccompanyingDocuments: d.AccompanyingDocuments,
		ReceiptDate:           d.ReceiptDate,
		ResponsiblePerson:     d.ResponsiblePerson,
		Content:               d.Content,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

// FieldErrors lists the draft fields that failed validation, by JSON name.
type FieldErrors struct {
	Fields []string
}

func (e *FieldErrors) Error() string {
	return "invalid draft fields: " + strings.Join(e.Fields, ", ")
}

// Validate checks the mandatory fields. The returned error is marked
// ErrValidation and wraps a *FieldErrors.
func (d Draft) Validate() error {
	err := draftValidator().Struct(d)
	if err == nil {
		return nil
	}
	details := make(map[string]any)
	fieldErrs := &FieldErrors{}
	var validateErrs validator.ValidationErrors
	if ierr.As(err, &validateErrs) {
		for _, fieldErr := range validateErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
			fieldErrs.Fields = append(fieldErrs.Fields, fieldErr.Field())
		}
	}
	return ierr.WithError(fieldErrs).
		WithHintf("Please fill in: %s", strings.Join(fieldErrs.Fields, ", ")).
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}

// InvalidFields returns the JSON names of the fields err reports, or nil.
func InvalidFields(err error) []string {
	var fieldErrs *FieldErrors
	if ierr.As(err, &fieldErrs) {
		return fieldErrs.Fields
	}
	return nil
}
